package patch

import (
	"errors"
	"fmt"
)

// ErrMatchNotFound is returned when an edit's anchor or original snippet
// cannot be located, even fuzzily. It is distinct from a successful
// no-anchor append.
var ErrMatchNotFound = errors.New("no matching block found")

// SectionNotFoundError reports an edit targeting a header absent from the
// document. AddNewSection never produces it.
type SectionNotFoundError struct {
	Header string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section %q not found", e.Header)
}

// UnknownKindError reports an edit with a kind outside the known set.
type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown edit kind %q", string(e.Kind))
}
