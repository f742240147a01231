// Package config provides configuration management for the cliquecount engine.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Engine   EngineConfig   `mapstructure:"engine"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
}

// EngineConfig holds the fleet-shape settings of the engine config
// block. The count command does not read them: its -n, -h and -t flags
// carry their own defaults.
type EngineConfig struct {
	NumRanks        int  `mapstructure:"num_ranks"`
	DonationEnabled bool `mapstructure:"donation_enabled"`
	Threshold       int  `mapstructure:"threshold"` // 0 = auto-compute
}

// DatabaseConfig holds the history store connection configuration. A
// zero Type means no run history is persisted (the engine does not
// construct a Store).
type DatabaseConfig struct {
	Type     string `mapstructure:"type"` // mysql, postgres, sqlite, or empty
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int    `mapstructure:"max_conns"`
}

// StorageConfig holds the edge-list dataset source configuration.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`     // e.g., "myqcloud.com"
	Scheme    string `mapstructure:"scheme"`     // e.g., "https" or "http"
	LocalPath string `mapstructure:"local_path"` // for local storage
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json or text
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/cliquecount")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw content (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.num_ranks", 4)
	v.SetDefault("engine.donation_enabled", true)
	v.SetDefault("engine.threshold", 0)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./data")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate validates the configuration. Database and Storage blocks
// are optional: an empty Database.Type means no history store, and
// the zero Storage.Type defaults to local.
func (c *Config) Validate() error {
	if c.Engine.NumRanks < 1 {
		return fmt.Errorf("engine num_ranks must be at least 1")
	}

	if c.Database.Type != "" {
		switch c.Database.Type {
		case "mysql", "postgres", "postgresql", "sqlite":
		default:
			return fmt.Errorf("unsupported database type: %s", c.Database.Type)
		}
	}

	switch c.Storage.Type {
	case "", "local", "cos":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	// COS credential validation is delegated to the ingest package,
	// which is the sole consumer of the storage block.

	return nil
}
