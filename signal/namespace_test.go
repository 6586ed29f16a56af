package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignal_SendCollectsResultsInOrder(t *testing.T) {
	ns := NewNamespace()
	s := ns.Signal("sum")
	first := NewReceiver(addTo(1))
	second := NewReceiver(addTo(2))
	s.Connect(first)
	s.Connect(second)
	s.Connect(nil)

	results, err := s.Send(nil, Kwargs{"a": 10})
	require.NoError(t, err)
	assert.Equal(t, []Result{
		{Receiver: first, Value: 11},
		{Receiver: second, Value: 12},
	}, results)
	assert.Equal(t, "sum", s.Name())
}

func TestSignal_DisconnectKeepsOrder(t *testing.T) {
	s := NewNamespace().Signal("s")
	a, b, c := NewReceiver(addTo(1)), NewReceiver(addTo(2)), NewReceiver(addTo(3))
	s.Connect(a)
	s.Connect(b)
	s.Connect(c)

	s.Disconnect(b)
	assert.Equal(t, []*Receiver{a, c}, s.Receivers())
}

func TestSignal_ReceiverMayConnectDuringSend(t *testing.T) {
	s := NewNamespace().Signal("s")
	late := NewReceiver(addTo(100))
	s.Connect(NewReceiver(func(sender any, kw Kwargs) (any, error) {
		s.Connect(late)
		return nil, nil
	}))

	results, err := s.Send(nil, nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 2, s.Len())
}

func TestNamespace_SignalIsCreatedOnce(t *testing.T) {
	ns := NewNamespace()
	assert.Same(t, ns.Signal("a"), ns.Signal("a"))
	ns.Signal("b")
	assert.Equal(t, []string{"a", "b"}, ns.Names())
}

func TestConnectSignals_DisconnectSignals(t *testing.T) {
	ns := NewNamespace()
	connections := ConnectSignals(map[string]HandlerFunc{
		"beta":  addTo(2),
		"alpha": addTo(1),
	}, ns)

	require.Len(t, connections, 2)
	assert.Equal(t, "alpha", connections[0].Name)
	assert.Equal(t, "beta", connections[1].Name)
	assert.Equal(t, 1, ns.Signal("alpha").Len())
	assert.Equal(t, 1, ns.Signal("beta").Len())

	DisconnectSignals(connections, ns)
	assert.Zero(t, ns.Signal("alpha").Len())
	assert.Zero(t, ns.Signal("beta").Len())
}
