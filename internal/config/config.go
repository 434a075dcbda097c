// Package config loads runtime settings through viper. Precedence is the
// usual viper order: bound flags, then NEXUS_* environment variables, then
// nexus.yaml, then the defaults below.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/HendryAvila/Nexus/internal/knowledge"
	"github.com/HendryAvila/Nexus/internal/reasoning"
)

// EnvPrefix is prepended to every environment override, e.g. NEXUS_DATA_DIR.
const EnvPrefix = "NEXUS"

// FileName is the config file basename searched for in the config paths.
const FileName = "nexus"

// Keys.
const (
	KeyDataDir        = "data_dir"
	KeyStorage        = "storage"
	KeyLogLevel       = "log.level"
	KeyLogDevelopment = "log.development"
	KeyMetricsAddr    = "metrics.addr"
	KeyMaxChainLength = "reasoning.max_chain_length"
	KeyMaxPathDepth   = "graph.max_path_depth"
)

// Config is the validated runtime configuration.
type Config struct {
	DataDir        string
	Storage        string
	LogLevel       string
	LogDevelopment bool
	MetricsAddr    string
	MaxChainLength int
	MaxPathDepth   int
}

// DefaultDataDir returns ~/.nexus, or .nexus if the home dir is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nexus"
	}
	return filepath.Join(home, ".nexus")
}

// New returns a viper instance with defaults, env binding and config
// search paths set. An explicit file overrides the search paths.
func New(file string) *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyDataDir, DefaultDataDir())
	v.SetDefault(KeyStorage, knowledge.StorageSQLite)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogDevelopment, false)
	v.SetDefault(KeyMetricsAddr, "")
	v.SetDefault(KeyMaxChainLength, reasoning.DefaultMaxChainLength)
	v.SetDefault(KeyMaxPathDepth, knowledge.DefaultMaxPathDepth)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDataDir())
	}
	return v
}

// Load reads the config file if one exists and returns the validated
// result. A missing file is not an error; a malformed one is.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Config{
		DataDir:        v.GetString(KeyDataDir),
		Storage:        strings.ToLower(v.GetString(KeyStorage)),
		LogLevel:       strings.ToLower(v.GetString(KeyLogLevel)),
		LogDevelopment: v.GetBool(KeyLogDevelopment),
		MetricsAddr:    v.GetString(KeyMetricsAddr),
		MaxChainLength: v.GetInt(KeyMaxChainLength),
		MaxPathDepth:   v.GetInt(KeyMaxPathDepth),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.DataDir) == "":
		return fmt.Errorf("config: %s must not be empty", KeyDataDir)
	case c.Storage != knowledge.StorageSQLite && c.Storage != knowledge.StorageJSON:
		return fmt.Errorf("config: %s must be %q or %q, got %q", KeyStorage, knowledge.StorageSQLite, knowledge.StorageJSON, c.Storage)
	case c.MaxChainLength < 1:
		return fmt.Errorf("config: %s must be >= 1", KeyMaxChainLength)
	case c.MaxPathDepth < 1:
		return fmt.Errorf("config: %s must be >= 1", KeyMaxPathDepth)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: %s must be debug, info, warn or error, got %q", KeyLogLevel, c.LogLevel)
	}
	return nil
}
