package signal

import (
	"sort"
	"sync"
)

// Kwargs are the keyword arguments delivered to receivers
type Kwargs map[string]any

// HandlerFunc handles a signal. sender is nil when the signal was sent
// without a sender.
type HandlerFunc func(sender any, kw Kwargs) (any, error)

// Receiver is a connectable handler. Receivers are compared by identity,
// so connecting the same receiver twice has no effect.
type Receiver struct {
	fn HandlerFunc
}

// NewReceiver wraps fn into a receiver
func NewReceiver(fn HandlerFunc) *Receiver {
	return &Receiver{fn: fn}
}

// Call invokes the receiver's handler
func (r *Receiver) Call(sender any, kw Kwargs) (any, error) {
	return r.fn(sender, kw)
}

// Result is the value a receiver returned for one send
type Result struct {
	Receiver *Receiver
	Value    any
}

// Signal is a named channel with an ordered set of receivers
type Signal struct {
	name string

	mu        sync.RWMutex
	receivers []*Receiver
}

// Name returns the signal name
func (s *Signal) Name() string {
	return s.name
}

// Connect adds r to the signal unless it is already connected
func (s *Signal) Connect(r *Receiver) {
	if r == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.receivers {
		if existing == r {
			return
		}
	}
	s.receivers = append(s.receivers, r)
}

// Disconnect removes r from the signal. Unknown receivers are ignored.
func (s *Signal) Disconnect(r *Receiver) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.receivers {
		if existing == r {
			s.receivers = append(s.receivers[:i:i], s.receivers[i+1:]...)
			return
		}
	}
}

// Receivers returns a snapshot of the connected receivers
func (s *Signal) Receivers() []*Receiver {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*Receiver(nil), s.receivers...)
}

// Len returns the number of connected receivers
func (s *Signal) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.receivers)
}

// Send delivers the signal to every connected receiver and collects their
// results. The first receiver error stops delivery and is returned along
// with the results gathered so far.
func (s *Signal) Send(sender any, kw Kwargs) ([]Result, error) {
	return deliver(s.Receivers(), sender, kw)
}

// deliver calls receivers without holding any lock so that they may connect
// or disconnect receivers themselves
func deliver(receivers []*Receiver, sender any, kw Kwargs) ([]Result, error) {
	if kw == nil {
		kw = Kwargs{}
	}

	results := make([]Result, 0, len(receivers))
	for _, r := range receivers {
		v, err := r.Call(sender, kw)
		if err != nil {
			return results, err
		}
		results = append(results, Result{Receiver: r, Value: v})
	}
	return results, nil
}

// Namespace maps names to signals. Signals are created on first use and
// live as long as the namespace.
type Namespace struct {
	mu      sync.Mutex
	signals map[string]*Signal
}

// NewNamespace creates an empty namespace
func NewNamespace() *Namespace {
	return &Namespace{
		signals: make(map[string]*Signal),
	}
}

// Signal returns the signal called name, creating it if needed
func (n *Namespace) Signal(name string) *Signal {
	n.mu.Lock()
	defer n.mu.Unlock()

	s, ok := n.signals[name]
	if !ok {
		s = &Signal{name: name}
		n.signals[name] = s
	}
	return s
}

// Names returns the names of all signals created so far, sorted
func (n *Namespace) Names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	names := make([]string, 0, len(n.signals))
	for name := range n.signals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
