package signal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger collects formatted warnings
type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Warnf(template string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(template, args...))
}

func addTo(n int) HandlerFunc {
	return func(sender any, kw Kwargs) (any, error) {
		return kw["a"].(int) + n, nil
	}
}

func TestRegistry_CallPlugin(t *testing.T) {
	registry := NewRegistry()
	kw := WithKwargs(Kwargs{"a": 137})

	result, err := registry.CallPlugin("foo", kw)
	require.NoError(t, err)
	assert.Nil(t, result, "no receiver subscribed to the signal")

	ConnectSignals(map[string]HandlerFunc{"foo": addTo(1)}, registry.Namespace())
	result, err = registry.CallPlugin("foo", kw)
	require.NoError(t, err)
	assert.Equal(t, 138, result)

	ConnectSignals(map[string]HandlerFunc{"foo": addTo(5)}, registry.Namespace())
	result, err = registry.CallPlugin("foo", kw)
	require.NoError(t, err)
	assert.Nil(t, result, "multiple receivers subscribed to the signal")
}

func TestRegistry_CallPluginWarnsWhenLoggerGiven(t *testing.T) {
	registry := NewRegistry()
	log := &recordingLogger{}

	_, err := registry.CallPlugin("foo", WithLogger(log))
	require.NoError(t, err)

	registry.ConnectFunc("foo", addTo(1))
	registry.ConnectFunc("foo", addTo(2))
	_, err = registry.CallPlugin("foo", WithLogger(log), WithKwargs(Kwargs{"a": 1}))
	require.NoError(t, err)

	assert.Equal(t, []string{
		`no receivers for signal "foo"`,
		`2 receivers for signal "foo"`,
	}, log.warnings)
}

func TestRegistry_CallPluginDoesNotCallAmbiguousReceivers(t *testing.T) {
	registry := NewRegistry()
	calls := 0
	count := func(any, Kwargs) (any, error) {
		calls++
		return calls, nil
	}
	registry.ConnectFunc("foo", count)
	registry.ConnectFunc("foo", count)

	result, err := registry.CallPlugin("foo")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Zero(t, calls)
}

func TestRegistry_CallPluginPassesSender(t *testing.T) {
	registry := NewRegistry()
	registry.ConnectFunc("whoami", func(sender any, kw Kwargs) (any, error) {
		return sender, nil
	})

	result, err := registry.CallPlugin("whoami", WithSender("host"))
	require.NoError(t, err)
	assert.Equal(t, "host", result)

	result, err = registry.CallPlugin("whoami")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestRegistry_CallPluginReturnsReceiverError(t *testing.T) {
	registry := NewRegistry()
	boom := errors.New("boom")
	registry.ConnectFunc("foo", func(any, Kwargs) (any, error) {
		return nil, boom
	})

	_, err := registry.CallPlugin("foo")
	assert.Same(t, boom, err)
}

func TestRegistry_SendCallsEveryReceiverOnce(t *testing.T) {
	registry := NewRegistry()
	calls := map[string]int{}
	record := func(name string) HandlerFunc {
		return func(sender any, kw Kwargs) (any, error) {
			calls[name]++
			assert.Equal(t, "hello", kw["message"])
			return name, nil
		}
	}
	registry.ConnectFunc("notification", record("a"))
	registry.ConnectFunc("notification", record("b"))

	require.NoError(t, registry.Send("notification", WithKwargs(Kwargs{"message": "hello"})))
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, calls)
}

func TestRegistry_SendWithoutReceivers(t *testing.T) {
	registry := NewRegistry()
	assert.NoError(t, registry.Send("nobody"))
	assert.NoError(t, registry.Send("nobody", WithKwargs(nil), WithSender(nil)))
}

func TestRegistry_SendStopsAtFirstError(t *testing.T) {
	registry := NewRegistry()
	boom := errors.New("boom")
	var order []string
	registry.ConnectFunc("s", func(any, Kwargs) (any, error) {
		order = append(order, "first")
		return nil, boom
	})
	registry.ConnectFunc("s", func(any, Kwargs) (any, error) {
		order = append(order, "second")
		return nil, nil
	})

	assert.Same(t, boom, registry.Send("s"))
	assert.Equal(t, []string{"first"}, order)
}

func TestRegistry_ConnectIsIdempotent(t *testing.T) {
	registry := NewRegistry()
	calls := 0
	receiver := NewReceiver(func(any, Kwargs) (any, error) {
		calls++
		return calls, nil
	})

	registry.Connect("foo", receiver)
	registry.Connect("foo", receiver)
	assert.Equal(t, 1, registry.Signal("foo").Len())

	result, err := registry.CallPlugin("foo")
	require.NoError(t, err)
	assert.Equal(t, 1, result)
}

func TestRegistry_ConnectThenDisconnect(t *testing.T) {
	registry := NewRegistry()
	receiver := registry.ConnectFunc("foo", addTo(1))
	require.True(t, registry.HasReceivers("foo"))

	registry.Disconnect("foo", receiver)
	assert.False(t, registry.HasReceivers("foo"))

	registry.Disconnect("foo", receiver)
	registry.Disconnect("bar", NewReceiver(addTo(1)))
	assert.False(t, registry.HasReceivers("bar"))
}

func TestRegistry_HasReceiversOnUnknownSignal(t *testing.T) {
	registry := NewRegistry()
	assert.False(t, registry.HasReceivers("unknown"))
	assert.Contains(t, registry.Namespace().Names(), "unknown")
}

func TestRegistry_SharedNamespace(t *testing.T) {
	ns := NewNamespace()
	a := NewRegistry(WithNamespace(ns))
	b := NewRegistry(WithNamespace(ns))

	a.ConnectFunc("foo", addTo(1))
	assert.True(t, b.HasReceivers("foo"))
	assert.Same(t, ns, b.Namespace())
	assert.NotSame(t, ns, NewRegistry().Namespace())
}
