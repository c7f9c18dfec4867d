package main

import (
	"github.com/cs-au-dk/attmap/attmap"
	"github.com/cs-au-dk/attmap/utils"
	"github.com/pkg/errors"
)

// secondaryTask narrows the output to the value at the -get key path. The
// lookup is field-style, so echo maps answer unset names with the name.
func (pl pipeline) secondaryTask(m *attmap.AttMap) error {
	path := opts.Get()
	v, err := m.AttrPath(path...)
	if err != nil {
		return errors.Wrapf(err, "looking up %s", utils.KeyPathString(path))
	}

	if sub, ok := v.(*attmap.AttMap); ok {
		return pl.output(sub)
	}
	if opts.Format().IsDot() || opts.Format().IsImage() {
		return errors.Errorf("%s is a %s, -format=%s needs a map",
			utils.KeyPathString(path), v.Kind(), opts.Format())
	}
	return pl.plainOutput(v)
}
