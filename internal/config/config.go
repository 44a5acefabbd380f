package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
)

// Theme values accepted in config.toml.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// Config represents the global ~/.securechat/config.toml.
type Config struct {
	DefaultSession string `toml:"default_session"`
	Theme          string `toml:"theme"`
	Notifications  *bool  `toml:"notifications"`
	LogLevel       string `toml:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	on := true
	return &Config{Theme: ThemeSystem, Notifications: &on, LogLevel: "info"}
}

// NotificationsEnabled returns the initial notifications preference,
// true when unset.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications == nil || *c.Notifications
}

// SetNotifications records the notifications preference.
func (c *Config) SetNotifications(on bool) {
	c.Notifications = &on
}

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zapcore.InfoLevel
	}
	return lvl
}

// Validate rejects unknown theme and log level values. Empty values are
// accepted and take their defaults.
func (c *Config) Validate() error {
	switch c.Theme {
	case "", ThemeSystem, ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("invalid theme %q: want light, dark or system", c.Theme)
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Theme == "" {
		c.Theme = ThemeSystem
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Notifications == nil {
		c.SetNotifications(true)
	}
}

// Load reads config from the given path. Returns nil config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault is Load, falling back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
