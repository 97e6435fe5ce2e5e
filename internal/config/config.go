// Package config loads CLI configuration for filedb.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultDBFileName = ".filedb.db"
	DefaultLogLevel   = "warn"

	configFileName  = ".filedb.toml"
	configDirEnvKey = "FILEDB_CONFIG_DIR"
	dbPathEnvKey    = "FILEDB_DB"
)

// Config defines runtime configuration for the filedb CLI.
type Config struct {
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		DBPath:   "",
		LogLevel: DefaultLogLevel,
	}
}

// Load builds the effective configuration: defaults, overlaid by the
// global config file if present, overlaid by the FILEDB_DB environment
// variable. A missing config file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	if err := loadFile(path, &cfg); err != nil {
		return nil, err
	}

	if env := strings.TrimSpace(os.Getenv(dbPathEnvKey)); env != "" {
		cfg.DBPath = env
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = filepath.Join(home, DefaultDBFileName)
	}

	return &cfg, nil
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

func loadFile(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}
