package attmap

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// Decode stores the contents of m into out, a pointer to a struct or map,
// honoring `mapstructure` field tags. Text is path-expanded iff m is
// PathExpanding. Keys without a matching field are ignored, and text such
// as "1m30s" decodes into time.Duration fields.
func (m *AttMap) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     out,
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return errors.Wrap(err, "building decoder")
	}
	if err := dec.Decode(m.ToMap()); err != nil {
		return errors.Wrapf(err, "decoding %s", m.variant)
	}
	return nil
}

// FromStruct builds a map from the exported fields of a struct, or anything
// else mapstructure can turn into map[string]any. Nested structs become
// nested maps.
func FromStruct(variant Variant, in any, opts ...Option) (*AttMap, error) {
	var plain map[string]any
	if err := mapstructure.Decode(in, &plain); err != nil {
		return nil, errors.Wrapf(ErrTypeMismatch, "%T: %v", in, err)
	}
	return New(variant, plain, opts...)
}
