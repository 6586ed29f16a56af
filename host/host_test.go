package host

import (
	"context"
	"errors"
	"testing"

	"puzzle/internal/config"
	"puzzle/plugin"
	"puzzle/plugins/notify"
	"puzzle/plugins/state/memory"
	"puzzle/signal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingPlugin struct {
	err error
}

func (p failingPlugin) Initialize(context.Context, ...any) error { return p.err }

func newTestHost(t *testing.T, cfg *config.Config, entries ...plugin.Entry) (*Host, *observer.ObservedLogs) {
	t.Helper()
	table := plugin.NewTable()
	for _, e := range entries {
		table.Add(cfg.EntryPoint, e)
	}
	core, logs := observer.New(zapcore.DebugLevel)
	return New(cfg, zap.New(core).Sugar(), WithWorkingSet(table)), logs
}

func builtins() []plugin.Entry {
	return []plugin.Entry{
		plugin.FactoryEntry(memory.ID, plugin.Distribution{Name: "puzzle"}, memory.New),
		plugin.FactoryEntry(notify.ID, plugin.Distribution{Name: "puzzle"}, notify.New),
	}
}

func TestHost_StartInitializesPlugins(t *testing.T) {
	h, _ := newTestHost(t, config.DefaultConfig(), builtins()...)
	require.NoError(t, h.Start(context.Background()))
	assert.Equal(t, StateStarted, h.State())
	assert.Equal(t, []string{memory.ID, notify.ID}, h.Loader().IDs())

	_, err := h.Call(memory.SignalSet, signal.Kwargs{"key": "a", "value": 137})
	require.NoError(t, err)
	v, err := h.Call(memory.SignalGet, signal.Kwargs{"key": "a"})
	require.NoError(t, err)
	assert.Equal(t, 137, v)

	require.NoError(t, h.Send(notify.SignalNotification, signal.Kwargs{"message": "hi"}))
	history, err := h.Call(notify.SignalHistory, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"host started", "hi"}, history)

	require.NoError(t, h.Stop())
	assert.Equal(t, StateStopped, h.State())
	history, err = h.Call(notify.SignalHistory, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"host started", "hi", "host stopping"}, history)
	require.NoError(t, h.Stop())
}

func TestHost_EnableListFiltersPlugins(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.EnabledPlugins = []string{notify.ID}
	h, _ := newTestHost(t, cfg, builtins()...)

	require.NoError(t, h.Start(context.Background()))
	assert.Equal(t, []string{notify.ID}, h.Loader().IDs())
	assert.False(t, h.Signals().HasReceivers(memory.SignalGet))
}

func TestHost_CallLogsMissingReceiver(t *testing.T) {
	h, logs := newTestHost(t, config.DefaultConfig())
	require.NoError(t, h.Start(context.Background()))

	v, err := h.Call("nobody.home", nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Equal(t, `no receivers for signal "nobody.home"`, warnings[0].Message)
}

func TestHost_StartTwiceFails(t *testing.T) {
	h, _ := newTestHost(t, config.DefaultConfig())
	require.NoError(t, h.Start(context.Background()))
	assert.ErrorContains(t, h.Start(context.Background()), "host already started")
}

func TestHost_StartFailsOnPluginError(t *testing.T) {
	boom := errors.New("boom")
	h, _ := newTestHost(t, config.DefaultConfig(),
		plugin.FactoryEntry("bad", plugin.Distribution{}, func() (plugin.Plugin, error) {
			return failingPlugin{err: boom}, nil
		}),
	)

	err := h.Start(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateFailed, h.State())
	require.NoError(t, h.Stop())
}

func TestHost_StartFailsOnModuleEntry(t *testing.T) {
	h, _ := newTestHost(t, config.DefaultConfig(),
		plugin.ModuleEntry("mod", plugin.Distribution{}, "puzzle/plugins/mod"),
	)

	err := h.Start(context.Background())
	assert.ErrorIs(t, err, plugin.ErrUnsupportedReference)
}

func TestHost_Status(t *testing.T) {
	h, _ := newTestHost(t, config.DefaultConfig(), builtins()...)
	require.NoError(t, h.Start(context.Background()))

	want := "Host Status:\n" +
		"  State: started\n" +
		"  Entry Point: puzzle.plugins\n" +
		"  Active Plugins: 2\n" +
		"    - state_memory\n" +
		"    - notify\n"
	assert.Equal(t, want, h.Status())
}

func TestHost_WithSignalsSharesRegistry(t *testing.T) {
	registry := signal.NewRegistry()
	cfg := config.DefaultConfig()
	h := New(cfg, nil, WithSignals(registry), WithWorkingSet(plugin.NewTable()))

	assert.Same(t, registry, h.Signals())
	assert.Same(t, cfg, h.Config())
	assert.NotNil(t, h.WorkingSet())
}

func TestHost_NilWorkingSetKeepsDefault(t *testing.T) {
	h := New(config.DefaultConfig(), zap.NewNop().Sugar(), WithWorkingSet(nil))
	require.NotNil(t, h.WorkingSet())
	assert.Same(t, plugin.DefaultWorkingSet(), h.WorkingSet())
}
