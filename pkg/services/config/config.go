package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration, loaded from a YAML file with
// environment-variable overrides (SARAFTI_SERVER_ADDR and friends).
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Sweep      SweepConfig      `mapstructure:"sweep"`
	Moderation ModerationConfig `mapstructure:"moderation"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type AdminConfig struct {
	// Token gates the admin endpoints; identity management proper lives
	// outside this service.
	Token string `mapstructure:"token"`
}

type SweepConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

type ModerationConfig struct {
	// Enabled requires a real classifier provider. No provider ships with
	// this build, so enabling it fails validation.
	Enabled bool `mapstructure:"enabled"`
}

// Validate rejects settings the current build cannot honor.
func (c Config) Validate() error {
	if c.Moderation.Enabled {
		return fmt.Errorf("moderation is enabled but no provider is configured")
	}
	return nil
}

// Load reads the config file at path, or defaults everywhere when path is
// empty.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.path", "sarafti.db")
	v.SetDefault("sweep.enabled", false)
	v.SetDefault("sweep.schedule", "@hourly")
	v.SetDefault("moderation.enabled", false)

	v.SetEnvPrefix("SARAFTI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
