package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"puzzle/internal/config"
	"puzzle/plugin"
	"puzzle/plugins"
	"puzzle/signal"

	"go.uber.org/zap"
)

// ID is the plugin id checked against the enable list
const ID = "state_memory"

// Signals answered by the plugin
const (
	SignalGet    = "state.get"
	SignalSet    = "state.set"
	SignalDelete = "state.delete"
	SignalKeys   = "state.keys"
)

// ErrReadOnly is returned by state.set and state.delete when the plugin is
// configured read-only
var ErrReadOnly = errors.New("state is read-only")

// init registers the memory state plugin
func init() {
	plugin.Register(config.DefaultEntryPoint, plugin.FactoryEntry(ID, plugins.Dist("puzzle/plugins/state/memory"), New))
}

// MemoryStatePlugin provides in-memory state storage over signals
type MemoryStatePlugin struct {
	mu       sync.RWMutex
	state    map[string]interface{}
	readOnly bool

	log         *zap.SugaredLogger
	namespace   *signal.Namespace
	connections []signal.Connection
}

// New creates a new memory state plugin
func New() (plugin.Plugin, error) {
	return NewMemoryStatePlugin(), nil
}

// NewMemoryStatePlugin creates a new memory state plugin
func NewMemoryStatePlugin() *MemoryStatePlugin {
	return &MemoryStatePlugin{
		state: make(map[string]interface{}),
		log:   zap.S().Named(ID),
	}
}

// Initialize seeds the state from the plugin settings and connects the
// state signals. With the "read_only" setting the seeded state cannot be
// changed over signals. Initializing again replaces the previous connections.
func (p *MemoryStatePlugin) Initialize(ctx context.Context, args ...any) error {
	registry, ok := plugin.Arg[*signal.Registry](args)
	if !ok {
		return fmt.Errorf("%s: signal registry missing from initialize arguments", ID)
	}
	if log, ok := plugin.Arg[*zap.SugaredLogger](args); ok {
		p.log = log.Named(ID)
	}
	if cfg, ok := plugin.Arg[*config.Config](args); ok {
		if seed, ok := cfg.GetPluginSettingMap(ID, "seed"); ok {
			for k, v := range seed {
				p.Set(k, v)
			}
		}
		if readOnly, ok := cfg.GetPluginSettingBool(ID, "read_only"); ok {
			p.mu.Lock()
			p.readOnly = readOnly
			p.mu.Unlock()
		}
	}

	if p.namespace != nil {
		signal.DisconnectSignals(p.connections, p.namespace)
	}
	p.namespace = registry.Namespace()
	p.connections = signal.ConnectSignals(map[string]signal.HandlerFunc{
		SignalGet:    p.handleGet,
		SignalSet:    p.handleSet,
		SignalDelete: p.handleDelete,
		SignalKeys:   p.handleKeys,
	}, p.namespace)

	p.log.Debugf("Initialized with %d key(s)", p.Len())
	return nil
}

// Get retrieves a value by key
func (p *MemoryStatePlugin) Get(key string) (interface{}, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	val, exists := p.state[key]
	if !exists {
		return nil, fmt.Errorf("key not found: %s", key)
	}

	return val, nil
}

// Set stores a value by key
func (p *MemoryStatePlugin) Set(key string, value interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state[key] = value
	p.log.Debugf("Set: %s", key)
}

// Delete removes a value by key
func (p *MemoryStatePlugin) Delete(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.state, key)
	p.log.Debugf("Deleted: %s", key)
}

// Keys returns all keys, sorted
func (p *MemoryStatePlugin) Keys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	keys := make([]string, 0, len(p.state))
	for k := range p.state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys
func (p *MemoryStatePlugin) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.state)
}

func (p *MemoryStatePlugin) isReadOnly() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.readOnly
}

func (p *MemoryStatePlugin) handleGet(_ any, kw signal.Kwargs) (any, error) {
	key, err := stringArg(kw, "key")
	if err != nil {
		return nil, err
	}
	return p.Get(key)
}

func (p *MemoryStatePlugin) handleSet(_ any, kw signal.Kwargs) (any, error) {
	if p.isReadOnly() {
		return nil, fmt.Errorf("%s: %w", SignalSet, ErrReadOnly)
	}
	key, err := stringArg(kw, "key")
	if err != nil {
		return nil, err
	}
	value, ok := kw["value"]
	if !ok {
		return nil, fmt.Errorf("%s: missing argument: value", SignalSet)
	}
	p.Set(key, value)
	return value, nil
}

func (p *MemoryStatePlugin) handleDelete(_ any, kw signal.Kwargs) (any, error) {
	if p.isReadOnly() {
		return nil, fmt.Errorf("%s: %w", SignalDelete, ErrReadOnly)
	}
	key, err := stringArg(kw, "key")
	if err != nil {
		return nil, err
	}
	p.Delete(key)
	return nil, nil
}

func (p *MemoryStatePlugin) handleKeys(_ any, _ signal.Kwargs) (any, error) {
	return p.Keys(), nil
}

// stringArg extracts a required string keyword argument
func stringArg(kw signal.Kwargs, name string) (string, error) {
	val, ok := kw[name]
	if !ok {
		return "", fmt.Errorf("missing argument: %s", name)
	}
	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("argument %s must be a string, got %T", name, val)
	}
	return s, nil
}
