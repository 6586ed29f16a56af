package notify

import (
	"context"
	"fmt"
	"sync"

	"puzzle/internal/config"
	"puzzle/plugin"
	"puzzle/plugins"
	"puzzle/signal"

	"go.uber.org/zap"
)

// ID is the plugin id checked against the enable list
const ID = "notify"

const (
	// SignalNotification carries a broadcast message in the "message" argument
	SignalNotification = "notification"
	// SignalHistory answers with the recorded messages, oldest first
	SignalHistory = "notify.history"

	// DefaultHistorySize bounds the number of recorded messages
	DefaultHistorySize = 100
)

// host lifecycle signals recorded as notifications
var lifecycleSignals = map[string]string{
	"host.started":  "host started",
	"host.stopping": "host stopping",
}

func init() {
	plugin.Register(config.DefaultEntryPoint, plugin.FactoryEntry(ID, plugins.Dist("puzzle/plugins/notify"), New))
}

// NotifyPlugin records broadcast notifications
type NotifyPlugin struct {
	mu      sync.Mutex
	history []string
	limit   int
	prefix  string

	log         *zap.SugaredLogger
	namespace   *signal.Namespace
	connections []signal.Connection
}

// New creates a notify plugin
func New() (plugin.Plugin, error) {
	return &NotifyPlugin{
		limit: DefaultHistorySize,
		log:   zap.S().Named(ID),
	}, nil
}

// Initialize connects the notification receivers. The "history" setting
// overrides the number of recorded messages and "prefix" is prepended to
// each of them. Initializing again replaces the previous connections.
func (p *NotifyPlugin) Initialize(ctx context.Context, args ...any) error {
	registry, ok := plugin.Arg[*signal.Registry](args)
	if !ok {
		return fmt.Errorf("%s: signal registry missing from initialize arguments", ID)
	}
	if log, ok := plugin.Arg[*zap.SugaredLogger](args); ok {
		p.log = log.Named(ID)
	}
	if cfg, ok := plugin.Arg[*config.Config](args); ok {
		if n, ok := cfg.GetPluginSettingInt(ID, "history"); ok {
			if n < 1 {
				return fmt.Errorf("%s: history must be at least 1, got %d", ID, n)
			}
			p.limit = n
		}
		if prefix, ok := cfg.GetPluginSettingString(ID, "prefix"); ok {
			p.prefix = prefix
		}
	}

	handlers := map[string]signal.HandlerFunc{
		SignalNotification: p.handleNotification,
		SignalHistory:      p.handleHistory,
	}
	for name, message := range lifecycleSignals {
		message := message
		handlers[name] = func(any, signal.Kwargs) (any, error) {
			p.record(message)
			return nil, nil
		}
	}

	if p.namespace != nil {
		signal.DisconnectSignals(p.connections, p.namespace)
	}
	p.namespace = registry.Namespace()
	p.connections = signal.ConnectSignals(handlers, p.namespace)
	return nil
}

// History returns the recorded messages, oldest first
func (p *NotifyPlugin) History() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.history...)
}

func (p *NotifyPlugin) record(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	message = p.prefix + message
	p.history = append(p.history, message)
	if over := len(p.history) - p.limit; over > 0 {
		p.history = append([]string(nil), p.history[over:]...)
	}
	p.log.Infof("Notification: %s", message)
}

func (p *NotifyPlugin) handleNotification(_ any, kw signal.Kwargs) (any, error) {
	message, ok := kw["message"]
	if !ok {
		return nil, fmt.Errorf("%s: missing argument: message", SignalNotification)
	}
	p.record(fmt.Sprint(message))
	return nil, nil
}

func (p *NotifyPlugin) handleHistory(any, signal.Kwargs) (any, error) {
	return p.History(), nil
}
