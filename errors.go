package showcase

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when an identifier has no backing content file.
var ErrNotFound = errors.New("entry not found")

// IsNotFound reports whether err, or its cause, is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Cause(err) == ErrNotFound
}

// MalformedEntryError marks a content file whose front matter could not be
// parsed or validated.
type MalformedEntryError struct {
	ID  string
	Err error
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed entry %q: %v", e.ID, e.Err)
}

func (e *MalformedEntryError) Unwrap() error {
	return e.Err
}

// AttributeError is returned by the renderer when a component embed carries
// an attribute value outside of its allowed set.
type AttributeError struct {
	Tag string
	Err error
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("invalid attributes on <%s>: %v", e.Tag, e.Err)
}

func (e *AttributeError) Unwrap() error {
	return e.Err
}
