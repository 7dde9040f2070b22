// Package config loads wnris settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is read when WNRIS_CONFIG is unset and the file exists.
const DefaultPath = "./wnris.yaml"

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
	Annotate AnnotateConfig `yaml:"annotate"`
}

// DatabaseConfig locates the compressed synonym database.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"WNRIS_DATABASE" env-default:"wordnet-ris.db"`
}

// CacheConfig sizes the lookup cache.
type CacheConfig struct {
	Size int `yaml:"size" env:"WNRIS_CACHE_SIZE" env-default:"1000"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"WNRIS_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"WNRIS_LOG_FORMAT" env-default:"text"`
}

// AnnotateConfig tunes document annotation.
type AnnotateConfig struct {
	Workers int `yaml:"workers" env:"WNRIS_ANNOTATE_WORKERS" env-default:"4"`
}

// Load reads configuration. Priority: ENV > YAML > defaults.
// The YAML path is WNRIS_CONFIG, falling back to DefaultPath when present.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("WNRIS_CONFIG")
	explicitPath := path != ""
	if !explicitPath {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path must be set")
	}
	if c.Cache.Size < 1 {
		return fmt.Errorf("cache.size must be at least 1, got %d", c.Cache.Size)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Annotate.Workers < 1 {
		return fmt.Errorf("annotate.workers must be at least 1, got %d", c.Annotate.Workers)
	}
	return nil
}
