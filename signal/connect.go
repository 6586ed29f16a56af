package signal

import "sort"

// Connection records a receiver connected to a named signal
type Connection struct {
	Name     string
	Receiver *Receiver
}

// ConnectSignals connects every handler in handlers to the signal of the
// same name in ns. The returned connections, ordered by name, can be passed
// to DisconnectSignals.
func ConnectSignals(handlers map[string]HandlerFunc, ns *Namespace) []Connection {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	connections := make([]Connection, 0, len(names))
	for _, name := range names {
		receiver := NewReceiver(handlers[name])
		ns.Signal(name).Connect(receiver)
		connections = append(connections, Connection{Name: name, Receiver: receiver})
	}
	return connections
}

// DisconnectSignals undoes ConnectSignals
func DisconnectSignals(connections []Connection, ns *Namespace) {
	for _, c := range connections {
		ns.Signal(c.Name).Disconnect(c.Receiver)
	}
}
