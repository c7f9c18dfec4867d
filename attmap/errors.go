package attmap

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMissingKey reports an unmapped key on a lookup that does not echo.
	ErrMissingKey = errors.New("missing key")
	// ErrProtectedName reports a refusal to echo a name flanked by double
	// underscores.
	ErrProtectedName = errors.New("protected-looking name")
	// ErrTypeMismatch reports a value that cannot take the shape it is used in,
	// e.g. a mapping with non-text keys or a non-scalar set member.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrDepthExceeded reports input nested deeper than the map's limit.
	ErrDepthExceeded = errors.New("nesting depth exceeded")
)

// KeyError ties a failure to the operation and key that caused it.
type KeyError struct {
	Op  string
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

func keyErr(op, key string, err error) error {
	return &KeyError{Op: op, Key: key, Err: err}
}

func typeMismatch(want Kind, got Value) error {
	return errors.Wrapf(ErrTypeMismatch, "expected %s, found %s", want, got.Kind())
}
