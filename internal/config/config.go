// Package config loads gridcore settings from a TOML file.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/diff"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/formula"
)

// DefaultPath is the file read when no path is given.
const DefaultPath = "gridcore.toml"

// Config is the application configuration.
type Config struct {
	Diff    DiffConfig    `toml:"diff"`
	Formula FormulaConfig `toml:"formula"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

// DiffConfig bounds the cell-level comparison.
type DiffConfig struct {
	MaxRows int `toml:"max_rows"`
	MaxCols int `toml:"max_cols"`
}

// FormulaConfig configures the evaluator.
type FormulaConfig struct {
	MaxDepth int `toml:"max_depth"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr    string `toml:"addr"`
	DevMode bool   `toml:"dev_mode"`
}

// LogConfig configures logging. A verbosity of 0 keeps only errors; the
// path is empty for stderr.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Diff: DiffConfig{
			MaxRows: diff.DefaultMaxRows,
			MaxCols: diff.DefaultMaxCols,
		},
		Formula: FormulaConfig{
			MaxDepth: formula.DefaultMaxDepth,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Verbosity: 1,
		},
	}
}

// Load reads the configuration at path over the defaults. An empty path
// reads DefaultPath; a missing file yields the defaults. Environment
// variables GRIDCORE_ADDR and GRIDCORE_LOG_PATH override the file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("GRIDCORE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("GRIDCORE_LOG_PATH"); v != "" {
		cfg.Log.Path = v
	}

	return cfg, nil
}

// Save writes the configuration to path as TOML.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DiffOptions returns the diff bound.
func (c *Config) DiffOptions() diff.Options {
	return diff.Options{MaxRows: c.Diff.MaxRows, MaxCols: c.Diff.MaxCols}
}

// Engine returns an evaluator configured with the formula settings.
func (c *Config) Engine() *formula.Engine {
	return formula.NewEngine(formula.WithMaxDepth(c.Formula.MaxDepth))
}
