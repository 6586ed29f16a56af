package plugin

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Wildcard in the enable list enables every plugin
const Wildcard = "*"

// Logger receives debug messages about plugin discovery
type Logger interface {
	Debugf(template string, args ...any)
}

// Activated is a plugin instance together with its id
type Activated struct {
	ID     string
	Plugin Plugin
}

// Loader discovers the plugins advertised under an extension point and
// instantiates those that are enabled
type Loader struct {
	entryPoint string
	enabled    []string
	log        Logger
	workingSet WorkingSet

	mu          sync.RWMutex
	ids         []string
	plugins     map[string]Plugin
	initialized bool
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithEnabledPlugins sets the enable list. The default enables all plugins.
func WithEnabledPlugins(ids ...string) LoaderOption {
	return func(l *Loader) {
		l.enabled = append([]string(nil), ids...)
	}
}

// WithLogger sets the logger used for discovery messages
func WithLogger(log Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithWorkingSet sets where entries are discovered
func WithWorkingSet(ws WorkingSet) LoaderOption {
	return func(l *Loader) {
		if ws != nil {
			l.workingSet = ws
		}
	}
}

// NewLoader creates a loader for the given extension point
func NewLoader(entryPoint string, opts ...LoaderOption) *Loader {
	l := &Loader{
		entryPoint: entryPoint,
		enabled:    []string{Wildcard},
		log:        zap.S().Named("plugin"),
		workingSet: DefaultWorkingSet(),
		plugins:    make(map[string]Plugin),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// EntryPoint returns the extension point name
func (l *Loader) EntryPoint() string {
	return l.entryPoint
}

// EnabledPlugins returns a copy of the enable list
func (l *Loader) EnabledPlugins() []string {
	return append([]string(nil), l.enabled...)
}

// Init discovers and instantiates the enabled plugins, replacing any
// previously activated ones. An instantiation error aborts discovery and is
// returned unchanged; the loader is then left with no activated plugins.
// Factories run without the loader lock held.
func (l *Loader) Init() error {
	l.mu.Lock()
	l.ids = nil
	l.plugins = make(map[string]Plugin)
	l.mu.Unlock()

	// TODO: sort entries topologically once entries can declare requirements.
	var ids []string
	plugins := make(map[string]Plugin)
	for _, entry := range l.workingSet.IterEntries(l.entryPoint) {
		if !l.IsPluginEnabled(entry.ID) {
			l.log.Debugf("Skipping plugin %s: not enabled", entry.Info())
			continue
		}

		p, err := instantiate(entry)
		if err != nil {
			return err
		}

		// A later entry with the same id replaces the earlier instance
		// but keeps its position.
		if _, exists := plugins[entry.ID]; !exists {
			ids = append(ids, entry.ID)
		}
		plugins[entry.ID] = p
		l.log.Debugf("Plugin loaded: %s", entry.Info())
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids = ids
	l.plugins = plugins
	l.initialized = true
	return nil
}

// InitializePlugins runs Init if it has not run yet and then calls
// Initialize on every activated plugin in discovery order. The first error
// stops the remaining initializations and is returned unchanged.
func (l *Loader) InitializePlugins(ctx context.Context, args ...any) error {
	l.mu.RLock()
	initialized := l.initialized
	l.mu.RUnlock()

	if !initialized {
		if err := l.Init(); err != nil {
			return err
		}
	}

	for _, a := range l.ActivatedPlugins() {
		if err := a.Plugin.Initialize(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

// IsPluginEnabled reports whether id is in the enable list or the list
// contains the wildcard
func (l *Loader) IsPluginEnabled(id string) bool {
	return IsEnabled(l.enabled, id)
}

// IsEnabled reports whether id is enabled by the given enable list
func IsEnabled(enabled []string, id string) bool {
	for _, e := range enabled {
		if e == id || e == Wildcard {
			return true
		}
	}
	return false
}

// Initialized reports whether Init has completed at least once
func (l *Loader) Initialized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.initialized
}

// ActivatedPlugins returns the activated plugins in discovery order
func (l *Loader) ActivatedPlugins() []Activated {
	l.mu.RLock()
	defer l.mu.RUnlock()

	activated := make([]Activated, 0, len(l.ids))
	for _, id := range l.ids {
		activated = append(activated, Activated{ID: id, Plugin: l.plugins[id]})
	}
	return activated
}

// IDs returns the ids of the activated plugins in discovery order
func (l *Loader) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.ids...)
}

// Plugin returns the activated plugin with the given id
func (l *Loader) Plugin(id string) (Plugin, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p, ok := l.plugins[id]
	return p, ok
}

// instantiate resolves an entry to a plugin instance
func instantiate(entry Entry) (Plugin, error) {
	if entry.Kind != KindFactory || entry.Factory == nil {
		return nil, &ResolutionError{ID: entry.ID, Module: entry.Module}
	}
	p, err := entry.Factory()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("plugin %s: %w", entry.ID, ErrNilPlugin)
	}
	return p, nil
}
