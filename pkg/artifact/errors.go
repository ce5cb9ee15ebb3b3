package artifact

import (
	"errors"
	"fmt"
)

// ErrCorrupt matches every *CorruptError via errors.Is.
var ErrCorrupt = errors.New("corrupt artifact set")

// CorruptError reports an artifact set whose files disagree with each other or
// with the metadata header.
type CorruptError struct {
	Path   string
	Reason string
	Err    error
}

func (e *CorruptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt artifact %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt artifact %s: %s", e.Path, e.Reason)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}
