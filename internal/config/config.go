package config

import (
	"fmt"
	"os"

	"puzzle/plugin"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultEntryPoint is the extension point built-in plugins register under
	DefaultEntryPoint = "puzzle.plugins"

	// DefaultLogLevel is used when the config does not set a level
	DefaultLogLevel = "info"
)

// Config represents the application configuration
type Config struct {
	// LogLevel specifies the logging level (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// EntryPoint is the extension point plugins are discovered under
	EntryPoint string `yaml:"entry_point"`

	// EnabledPlugins lists the plugin ids to activate; "*" enables all
	EnabledPlugins []string `yaml:"enabled_plugins"`

	// Plugin configurations
	Plugins map[string]PluginConfig `yaml:"plugins"`
}

// PluginConfig contains configuration for a specific plugin
type PluginConfig struct {
	// Settings contains plugin-specific settings
	Settings map[string]interface{} `yaml:"settings"`
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from a file or returns default config
func LoadOrDefault(path string) (*Config, error) {
	if path == "" || !fileExists(path) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       DefaultLogLevel,
		EntryPoint:     DefaultEntryPoint,
		EnabledPlugins: []string{plugin.Wildcard},
		Plugins:        make(map[string]PluginConfig),
	}
}

// applyDefaults applies default values to missing configuration.
// An explicitly empty enabled_plugins list is kept and disables every plugin.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.EntryPoint == "" {
		c.EntryPoint = DefaultEntryPoint
	}
	if c.EnabledPlugins == nil {
		c.EnabledPlugins = []string{plugin.Wildcard}
	}
	if c.Plugins == nil {
		c.Plugins = make(map[string]PluginConfig)
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if c.EntryPoint == "" {
		return fmt.Errorf("entry point must not be empty")
	}

	for _, id := range c.EnabledPlugins {
		if id == "" {
			return fmt.Errorf("enabled_plugins contains an empty id")
		}
	}

	return nil
}

// IsPluginEnabled checks if a plugin is enabled in the configuration
func (c *Config) IsPluginEnabled(name string) bool {
	return plugin.IsEnabled(c.EnabledPlugins, name)
}

// GetPluginSetting retrieves a specific setting for a plugin
func (c *Config) GetPluginSetting(pluginName, settingName string) (interface{}, bool) {
	cfg, exists := c.Plugins[pluginName]
	if !exists || cfg.Settings == nil {
		return nil, false
	}

	val, exists := cfg.Settings[settingName]
	return val, exists
}

// GetPluginSettingString retrieves a string setting for a plugin
func (c *Config) GetPluginSettingString(pluginName, settingName string) (string, bool) {
	val, exists := c.GetPluginSetting(pluginName, settingName)
	if !exists {
		return "", false
	}

	str, ok := val.(string)
	return str, ok
}

// GetPluginSettingInt retrieves an int setting for a plugin
func (c *Config) GetPluginSettingInt(pluginName, settingName string) (int, bool) {
	val, exists := c.GetPluginSetting(pluginName, settingName)
	if !exists {
		return 0, false
	}

	// YAML unmarshals integers as int
	i, ok := val.(int)
	return i, ok
}

// GetPluginSettingBool retrieves a bool setting for a plugin
func (c *Config) GetPluginSettingBool(pluginName, settingName string) (bool, bool) {
	val, exists := c.GetPluginSetting(pluginName, settingName)
	if !exists {
		return false, false
	}

	b, ok := val.(bool)
	return b, ok
}

// GetPluginSettingMap retrieves a mapping setting for a plugin
func (c *Config) GetPluginSettingMap(pluginName, settingName string) (map[string]interface{}, bool) {
	val, exists := c.GetPluginSetting(pluginName, settingName)
	if !exists {
		return nil, false
	}

	m, ok := val.(map[string]interface{})
	return m, ok
}

// Save writes the configuration to a YAML file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
