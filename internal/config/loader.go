// Package config loads application configuration with the precedence
// runtime overrides > environment > config file > defaults.
//
// Environment variables use the POCKETS3_ prefix. Flat aliases exist for the
// common knobs (POCKETS3_PORT, POCKETS3_LOG_LEVEL) alongside the structured
// POCKETS3_SERVER_PORT style.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Storage StorageConfig `mapstructure:"storage"`
	Listing ListingConfig `mapstructure:"listing"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// StaticDir serves a built frontend from this directory when set.
	StaticDir string `mapstructure:"static_dir"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StorageConfig configures the storage backend connection.
type StorageConfig struct {
	// Profile names a connection profile from ~/.pockets3/profiles.yaml.
	Profile string `mapstructure:"profile"`

	// Endpoint, Region, AWSProfile and ForcePathStyle override (or stand in
	// for) the corresponding profile fields.
	Endpoint       string `mapstructure:"endpoint"`
	Region         string `mapstructure:"region"`
	AWSProfile     string `mapstructure:"aws_profile"`
	ForcePathStyle bool   `mapstructure:"force_path_style"`
}

// ListingConfig tunes bucket enumeration.
type ListingConfig struct {
	PageSize          int     `mapstructure:"page_size"`
	MaxObjects        int     `mapstructure:"max_objects"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

var (
	configMu  sync.RWMutex
	appConfig *Config
)

// Load builds the configuration and stores it as the process config.
// Later override maps win over earlier ones.
func Load(_ context.Context, overrides ...map[string]any) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Optional config file: POCKETS3_CONFIG or ~/.pockets3/config.yaml
	if path := configFilePath(); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
				}
			}
		}
	}

	v.SetEnvPrefix("POCKETS3")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvAliases(v)

	for _, override := range overrides {
		applyOverride(v, "", override)
	}

	cfg := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	configMu.Lock()
	appConfig = cfg
	configMu.Unlock()

	return cfg, nil
}

// GetConfig returns the last loaded configuration, or nil before Load.
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.static_dir", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("storage.profile", "")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.aws_profile", "")
	v.SetDefault("storage.force_path_style", false)

	v.SetDefault("listing.page_size", 0)
	v.SetDefault("listing.max_objects", 0)
	v.SetDefault("listing.requests_per_second", 0.0)
	v.SetDefault("listing.burst", 0)
}

// bindEnvAliases maps flat env var names onto nested keys.
func bindEnvAliases(v *viper.Viper) {
	aliases := map[string][]string{
		"server.host":             {"POCKETS3_HOST"},
		"server.port":             {"POCKETS3_PORT"},
		"server.read_timeout":     {"POCKETS3_READ_TIMEOUT"},
		"server.write_timeout":    {"POCKETS3_WRITE_TIMEOUT"},
		"server.idle_timeout":     {"POCKETS3_IDLE_TIMEOUT"},
		"server.shutdown_timeout": {"POCKETS3_SHUTDOWN_TIMEOUT"},
		"server.static_dir":       {"POCKETS3_STATIC_DIR"},
		"logging.level":           {"POCKETS3_LOG_LEVEL"},
		"logging.format":          {"POCKETS3_LOG_FORMAT"},
		"storage.profile":         {"POCKETS3_STORAGE_PROFILE"},
		"storage.endpoint":        {"POCKETS3_ENDPOINT"},
		"storage.region":          {"POCKETS3_REGION"},
		"storage.aws_profile":     {"POCKETS3_AWS_PROFILE"},
	}
	for key, names := range aliases {
		args := append([]string{key}, names...)
		_ = v.BindEnv(args...)
	}
}

// applyOverride flattens a nested override map into viper Set calls, which
// take precedence over env and file values.
func applyOverride(v *viper.Viper, prefix string, values map[string]any) {
	for key, value := range values {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			applyOverride(v, full, nested)
			continue
		}
		v.Set(full, value)
	}
}

// configFilePath returns the config file to read, or "" when none applies.
func configFilePath() string {
	if path := os.Getenv("POCKETS3_CONFIG"); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".pockets3", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
