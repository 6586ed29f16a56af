package plugin

import (
	"context"
)

// Plugin represents an instantiated plugin that the loader can initialize
type Plugin interface {
	// Initialize is called once by the loader with the arguments the host
	// passed to InitializePlugins. Every plugin receives the same arguments.
	Initialize(ctx context.Context, args ...any) error
}

// Arg returns the first argument of type T in args
func Arg[T any](args []any) (T, bool) {
	for _, a := range args {
		if v, ok := a.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
