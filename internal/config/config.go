package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"volumelockr/internal/domain"
)

// Backend names accepted by the audio backend selector.
const (
	BackendMemory      = "memory"
	BackendAppleScript = "applescript"
)

// Config represents the host process settings.
type Config struct {
	Addr     string        `mapstructure:"addr"`
	Interval time.Duration `mapstructure:"interval"`
	Backend  string        `mapstructure:"backend"`
	// Notifications is the persistent-notification capability of the
	// platform, resolved once at startup.
	Notifications bool   `mapstructure:"notifications"`
	Preferences   string `mapstructure:"preferences"`
	LogLevel      string `mapstructure:"log_level"`
}

// DefaultAddr is where the HTTP API listens and where CLI commands connect.
var DefaultAddr = "127.0.0.1:7070"

// DefaultConfig returns the initial configuration.
func DefaultConfig() Config {
	return Config{
		Addr:          DefaultAddr,
		Interval:      domain.DefaultEnforceInterval,
		Backend:       BackendMemory,
		Notifications: true,
		Preferences:   DefaultPreferencesPath(),
		LogLevel:      "warn",
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("interval", d.Interval)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("notifications", d.Notifications)
	v.SetDefault("preferences", d.Preferences)
	v.SetDefault("log_level", d.LogLevel)
}

// New creates a viper instance reading file (or the default config file when
// empty) and VOLUMELOCKR_* environment variables. A missing default config
// file is not an error.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("VOLUMELOCKR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// BindFlags lets command line flags override file and environment values.
// Flags are looked up by config key; unknown flags are skipped.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range []string{"addr", "interval", "backend", "notifications", "preferences", "log_level"} {
		name := strings.ReplaceAll(key, "_", "-")
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return Normalize(cfg)
}
