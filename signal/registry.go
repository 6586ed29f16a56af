package signal

import (
	"errors"
	"fmt"
)

// ErrMultipleResponses is returned by CallPlugin when a send to a single
// receiver did not produce exactly one result
var ErrMultipleResponses = errors.New("multiple responses")

// Logger receives warnings about unanswered or ambiguous calls
type Logger interface {
	Warnf(template string, args ...any)
}

// Registry dispatches named signals to the receivers connected in its
// namespace
type Registry struct {
	namespace *Namespace
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithNamespace makes the registry use an existing namespace
func WithNamespace(ns *Namespace) RegistryOption {
	return func(r *Registry) {
		if ns != nil {
			r.namespace = ns
		}
	}
}

// NewRegistry creates a registry with its own namespace
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{namespace: NewNamespace()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Namespace returns the namespace holding the registry's signals
func (r *Registry) Namespace() *Namespace {
	return r.namespace
}

// Signal returns the signal called name
func (r *Registry) Signal(name string) *Signal {
	return r.namespace.Signal(name)
}

// Connect connects receiver to the signal called name
func (r *Registry) Connect(name string, receiver *Receiver) {
	r.Signal(name).Connect(receiver)
}

// ConnectFunc connects fn to the signal called name and returns the
// receiver needed to disconnect it again
func (r *Registry) ConnectFunc(name string, fn HandlerFunc) *Receiver {
	receiver := NewReceiver(fn)
	r.Connect(name, receiver)
	return receiver
}

// Disconnect removes receiver from the signal called name
func (r *Registry) Disconnect(name string, receiver *Receiver) {
	r.Signal(name).Disconnect(receiver)
}

// HasReceivers reports whether any receiver is connected to name
func (r *Registry) HasReceivers(name string) bool {
	return r.Signal(name).Len() > 0
}

// Send broadcasts the signal to every connected receiver and discards the
// results. Sending a signal nobody listens to is not an error.
func (r *Registry) Send(name string, opts ...CallOption) error {
	o := newCallOptions(opts)
	_, err := r.Signal(name).Send(o.sender, o.kwargs)
	return err
}

// CallPlugin sends the signal to its only receiver and returns that
// receiver's result. When no receiver or more than one receiver is
// connected, nothing is called and the result is nil.
func (r *Registry) CallPlugin(name string, opts ...CallOption) (any, error) {
	o := newCallOptions(opts)

	receivers := r.Signal(name).Receivers()
	switch n := len(receivers); {
	case n == 0:
		if o.log != nil {
			o.log.Warnf("no receivers for signal %q", name)
		}
		return nil, nil
	case n > 1:
		if o.log != nil {
			o.log.Warnf("%d receivers for signal %q", n, name)
		}
		return nil, nil
	}

	results, err := deliver(receivers, o.sender, o.kwargs)
	if err != nil {
		return nil, err
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("%w after emitting signal %q: got %d", ErrMultipleResponses, name, len(results))
	}
	return results[0].Value, nil
}
