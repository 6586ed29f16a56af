package host

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"puzzle/internal/config"
	"puzzle/plugin"
	"puzzle/signal"

	"go.uber.org/zap"
)

// State represents the host's lifecycle state
type State string

const (
	// StateIdle indicates plugins have not been initialized yet
	StateIdle State = "idle"
	// StateStarting indicates plugins are being initialized
	StateStarting State = "starting"
	// StateStarted indicates every plugin was initialized
	StateStarted State = "started"
	// StateFailed indicates a plugin failed to load or initialize
	StateFailed State = "failed"
	// StateStopped indicates the host has been stopped
	StateStopped State = "stopped"
)

const (
	// SignalStarted is broadcast once all plugins are initialized
	SignalStarted = "host.started"
	// SignalStopping is broadcast when the host stops
	SignalStopping = "host.stopping"
)

// Host owns a plugin loader and the signal registry its plugins talk through
type Host struct {
	mu     sync.RWMutex
	state  State
	config *config.Config
	log    *zap.SugaredLogger

	workingSet plugin.WorkingSet
	loader     *plugin.Loader
	signals    *signal.Registry
}

// Option configures a Host
type Option func(*Host)

// WithWorkingSet makes the host discover plugins in ws instead of the
// default working set. A nil ws keeps the default.
func WithWorkingSet(ws plugin.WorkingSet) Option {
	return func(h *Host) {
		if ws != nil {
			h.workingSet = ws
		}
	}
}

// WithSignals makes the host use an existing signal registry
func WithSignals(r *signal.Registry) Option {
	return func(h *Host) {
		h.signals = r
	}
}

// New creates a host for cfg. A nil log falls back to the global logger.
func New(cfg *config.Config, log *zap.SugaredLogger, opts ...Option) *Host {
	if log == nil {
		log = zap.S()
	}

	h := &Host{
		state:      StateIdle,
		config:     cfg,
		log:        log.Named("host"),
		workingSet: plugin.DefaultWorkingSet(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.signals == nil {
		h.signals = signal.NewRegistry()
	}

	h.loader = plugin.NewLoader(cfg.EntryPoint,
		plugin.WithEnabledPlugins(cfg.EnabledPlugins...),
		plugin.WithLogger(log.Named("plugin")),
		plugin.WithWorkingSet(h.workingSet),
	)
	return h
}

// Start loads the enabled plugins and initializes each of them with the
// signal registry, the configuration and the logger
func (h *Host) Start(ctx context.Context) error {
	h.mu.Lock()
	if h.state != StateIdle {
		state := h.state
		h.mu.Unlock()
		return fmt.Errorf("host already started (current state: %s)", state)
	}
	h.state = StateStarting
	h.mu.Unlock()

	h.log.Debugf("Starting host (entry point: %s)", h.loader.EntryPoint())

	if err := h.loader.InitializePlugins(ctx, h.signals, h.config, h.log); err != nil {
		h.setState(StateFailed)
		return fmt.Errorf("failed to initialize plugins: %w", err)
	}
	h.setState(StateStarted)

	if err := h.signals.Send(SignalStarted, signal.WithSender(h)); err != nil {
		return fmt.Errorf("failed to announce start: %w", err)
	}

	h.log.Debugf("Started with %d active plugin(s)", len(h.loader.IDs()))
	return nil
}

// Stop announces shutdown to the plugins. Stopping twice is a no-op.
func (h *Host) Stop() error {
	h.mu.Lock()
	previous := h.state
	if previous == StateStopped {
		h.mu.Unlock()
		return nil
	}
	h.state = StateStopped
	h.mu.Unlock()

	if previous != StateStarted {
		return nil
	}

	h.log.Debug("Stopping host")
	if err := h.signals.Send(SignalStopping, signal.WithSender(h)); err != nil {
		return fmt.Errorf("failed to announce stop: %w", err)
	}
	return nil
}

// Call invokes the single plugin answering name. Missing or ambiguous
// receivers are logged and yield a nil result.
func (h *Host) Call(name string, kw signal.Kwargs) (any, error) {
	return h.signals.CallPlugin(name,
		signal.WithLogger(h.log),
		signal.WithSender(h),
		signal.WithKwargs(kw),
	)
}

// Send broadcasts name to every plugin listening for it
func (h *Host) Send(name string, kw signal.Kwargs) error {
	return h.signals.Send(name, signal.WithSender(h), signal.WithKwargs(kw))
}

// State returns the current host state
func (h *Host) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

func (h *Host) setState(state State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = state
	h.log.Debugf("State changed to: %s", state)
}

// Status returns a status summary for the host
func (h *Host) Status() string {
	var sb strings.Builder
	sb.WriteString("Host Status:\n")
	sb.WriteString(fmt.Sprintf("  State: %s\n", h.State()))
	sb.WriteString(fmt.Sprintf("  Entry Point: %s\n", h.loader.EntryPoint()))

	ids := h.loader.IDs()
	sb.WriteString(fmt.Sprintf("  Active Plugins: %d\n", len(ids)))
	for _, id := range ids {
		sb.WriteString(fmt.Sprintf("    - %s\n", id))
	}
	return sb.String()
}

// Loader returns the plugin loader
func (h *Host) Loader() *plugin.Loader {
	return h.loader
}

// Signals returns the signal registry
func (h *Host) Signals() *signal.Registry {
	return h.signals
}

// Config returns the host configuration
func (h *Host) Config() *config.Config {
	return h.config
}

// WorkingSet returns the working set plugins are discovered in
func (h *Host) WorkingSet() plugin.WorkingSet {
	return h.workingSet
}
