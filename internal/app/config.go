package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/specialistvlad/asmtree/internal/fsutil"
)

// ConfigFileName is the name of the optional configuration file, searched
// for in the working directory and its parents.
const ConfigFileName = "asmtree.toml"

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
	colorModes = []string{"auto", "on", "off"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	CatalogPaths []string // .hcl files or directories
	Jobs         int      // parallel catalog decoders, 0 for GOMAXPROCS

	SettingsPath string // empty keeps settings in memory
	StatePath    string // empty disables viewer state persistence

	LogFormat string
	LogLevel  string
	Color     string
}

// DefaultConfig returns the configuration used when neither a file nor flags
// say otherwise.
func DefaultConfig() Config {
	return Config{LogFormat: "text", LogLevel: "warn", Color: "auto"}
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.CatalogPaths) == 0 {
		return nil, errors.New("at least one catalog path is required")
	}
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log level %q: must be one of %v", cfg.LogLevel, logLevels)
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log format %q: must be one of %v", cfg.LogFormat, logFormats)
	}
	if !slices.Contains(colorModes, cfg.Color) {
		return nil, fmt.Errorf("invalid color mode %q: must be one of %v", cfg.Color, colorModes)
	}
	if cfg.Jobs < 0 {
		return nil, fmt.Errorf("invalid jobs %d: must not be negative", cfg.Jobs)
	}
	return &cfg, nil
}

// fileConfig mirrors asmtree.toml.
type fileConfig struct {
	Catalog struct {
		Paths []string `toml:"paths"`
		Jobs  int      `toml:"jobs"`
	} `toml:"catalog"`
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
	Settings struct {
		Path string `toml:"path"`
	} `toml:"settings"`
	State struct {
		Path string `toml:"path"`
	} `toml:"state"`
	Display struct {
		Color string `toml:"color"`
	} `toml:"display"`
}

// FindConfigFile looks for ConfigFileName in dir and its parents.
func FindConfigFile(dir string) (string, bool, error) {
	return fsutil.FindUp(dir, ConfigFileName)
}

// ApplyConfigFile overlays the keys defined in the TOML file at path onto
// cfg. Relative paths in the file are relative to the file's directory.
func ApplyConfigFile(path string, cfg *Config) error {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}

	base := filepath.Dir(path)
	rel := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	if meta.IsDefined("catalog", "paths") {
		cfg.CatalogPaths = nil
		for _, p := range fc.Catalog.Paths {
			cfg.CatalogPaths = append(cfg.CatalogPaths, rel(p))
		}
	}
	if meta.IsDefined("catalog", "jobs") {
		cfg.Jobs = fc.Catalog.Jobs
	}
	if meta.IsDefined("log", "level") {
		cfg.LogLevel = fc.Log.Level
	}
	if meta.IsDefined("log", "format") {
		cfg.LogFormat = fc.Log.Format
	}
	if meta.IsDefined("settings", "path") {
		cfg.SettingsPath = rel(fc.Settings.Path)
	}
	if meta.IsDefined("state", "path") {
		cfg.StatePath = rel(fc.State.Path)
	}
	if meta.IsDefined("display", "color") {
		cfg.Color = fc.Display.Color
	}
	return nil
}
