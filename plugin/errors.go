package plugin

import (
	"errors"
	"fmt"
)

// ErrUnsupportedReference is returned when an entry does not refer to a factory
var ErrUnsupportedReference = errors.New("unsupported plugin reference")

// ErrNilPlugin is returned when a factory returns neither a plugin nor an error
var ErrNilPlugin = errors.New("factory returned nil plugin")

// ResolutionError reports an entry that could not be resolved to a plugin
type ResolutionError struct {
	ID     string
	Module string
}

func (e *ResolutionError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("plugin %s: %v: module %s", e.ID, ErrUnsupportedReference, e.Module)
	}
	return fmt.Sprintf("plugin %s: %v", e.ID, ErrUnsupportedReference)
}

func (e *ResolutionError) Unwrap() error {
	return ErrUnsupportedReference
}
