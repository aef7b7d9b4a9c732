package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Config represents the optional sable configuration file.
type Config struct {
	Tasks TasksConfig `toml:"tasks"`
}

// TasksConfig controls the file-operation engine.
type TasksConfig struct {
	// Workers is the number of concurrent leaf-operation executors.
	Workers int `toml:"workers"`
	// BizarreRetry bounds re-enqueues of a copy that keeps failing with
	// transient kernel errors before the failure becomes fatal.
	BizarreRetry int `toml:"bizarre-retry"`
	// Verify checksums every pasted file against its source.
	Verify bool `toml:"verify"`
}

// Default returns the built-in settings used when no file overrides them.
func Default() Config {
	return Config{
		Tasks: TasksConfig{
			Workers:      min(runtime.NumCPU(), 8),
			BizarreRetry: 5,
		},
	}
}

// Path returns the resolved path to the config file.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "sable", "sable.toml")
}

// Load reads the config file from the XDG path, layering it over the
// defaults. A missing file is not an error; the config is always
// optional.
func Load() (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(Path(), &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if cfg.Tasks.Workers <= 0 {
		cfg.Tasks.Workers = Default().Tasks.Workers
	}
	if cfg.Tasks.BizarreRetry < 0 {
		cfg.Tasks.BizarreRetry = 0
	}
	return cfg, nil
}
