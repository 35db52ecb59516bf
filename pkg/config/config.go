// Package config loads jiten settings from an optional YAML file and the
// environment.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every setting of the CLI.
type Config struct {
	ResourcesDir  string `yaml:"resources_dir"  env:"JITEN_RESOURCES_DIR"  env-default:"resources"`
	CachePath     string `yaml:"cache_path"     env:"JITEN_CACHE_PATH"     env-default:"resources/dictionary.bin"`
	DBPath        string `yaml:"db_path"        env:"JITEN_DB_PATH"        env-default:"jiten.db"`
	SentencesPath string `yaml:"sentences_path" env:"JITEN_SENTENCES_PATH" env-default:"resources/jpn_sentences.tsv"`
	// ResourcesURL is a tar.gz archive, or "github:owner/repo" for the
	// latest release of a repository. Empty disables downloading.
	ResourcesURL string `yaml:"resources_url" env:"JITEN_RESOURCES_URL"`
	Workers      int    `yaml:"workers"       env:"JITEN_WORKERS"       env-default:"4"`
	BatchSize    int    `yaml:"batch_size"    env:"JITEN_BATCH_SIZE"    env-default:"50"`
	MaxExamples  int    `yaml:"max_examples"  env:"JITEN_MAX_EXAMPLES"  env-default:"3"`
	Color        bool   `yaml:"color"         env:"JITEN_COLOR"         env-default:"true"`
}

// Load reads configuration from the YAML file at path and the environment.
// Priority: ENV > YAML > defaults. An empty path reads ENV and defaults
// only; a path that does not exist is an error.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate rejects settings the CLI cannot run with.
func (c *Config) Validate() error {
	if c.ResourcesDir == "" {
		return fmt.Errorf("resources_dir must be set")
	}
	if c.CachePath == "" {
		return fmt.Errorf("cache_path must be set")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", c.Workers)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.MaxExamples < 0 {
		return fmt.Errorf("max_examples must be >= 0 (got %d)", c.MaxExamples)
	}
	return nil
}
