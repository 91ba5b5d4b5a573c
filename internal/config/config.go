// Package config loads and validates the svg2png configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-svg2png/internal/fileutil"
	"github.com/alnah/go-svg2png/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidDPI      = errors.New("raster.dpi must be a positive integer")
	ErrInvalidEngine   = errors.New("raster.engine must be \"command\" or \"chrome\"")
)

// Rasterizer engine names.
const (
	EngineCommand = "command"
	EngineChrome  = "chrome"
)

// Environment variable overrides, applied by ApplyEnv.
const (
	EnvCommand = "SVG2PNG_COMMAND"
	EnvDPI     = "SVG2PNG_DPI"
)

// Config holds all configuration for generation and rasterization.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Raster   RasterConfig   `yaml:"raster"`
	Generate GenerateConfig `yaml:"generate"`
}

// InputConfig defines where vector images are scanned from.
type InputConfig struct {
	Root string `yaml:"root"` // Default input directory (empty = must specify)
}

// OutputConfig defines where raster images are mirrored into.
type OutputConfig struct {
	Root string `yaml:"root"` // Default output directory (empty = same as input)
}

// RasterConfig defines rasterization options.
type RasterConfig struct {
	DPI     int    `yaml:"dpi"`     // Target resolution (0 = 300)
	Command string `yaml:"command"` // External tool (empty = "inkscape")
	Engine  string `yaml:"engine"`  // "command" (default) or "chrome"
}

// GenerateConfig defines the picture-script generation pass.
type GenerateConfig struct {
	Runner     string          `yaml:"runner"`     // Interpreter for scripts (empty = "python3")
	ScriptsDir string          `yaml:"scriptsDir"` // Directory holding picture scripts
	Seeds      []int           `yaml:"seeds"`      // One run per script per seed
	Scripts    map[string]bool `yaml:"scripts"`    // Script name -> enabled
}

// Validate checks value ranges. Zero values mean "use default" and are valid.
func (c *Config) Validate() error {
	if c.Raster.DPI < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDPI, c.Raster.DPI)
	}
	switch c.Raster.Engine {
	case "", EngineCommand, EngineChrome:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidEngine, c.Raster.Engine)
	}
	return nil
}

// ApplyEnv overlays environment variable overrides onto the config.
// lookup is usually os.Getenv; injectable for tests. Invalid numeric values
// are reported rather than silently ignored.
func (c *Config) ApplyEnv(lookup func(string) string) error {
	if v := lookup(EnvCommand); v != "" {
		c.Raster.Command = v
	}
	if v := lookup(EnvDPI); v != "" {
		dpi, err := strconv.Atoi(v)
		if err != nil || dpi <= 0 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidDPI, EnvDPI, v)
		}
		c.Raster.DPI = dpi
	}
	return nil
}

// DefaultConfig returns a neutral configuration.
func DefaultConfig() *Config {
	return &Config{
		Generate: GenerateConfig{Scripts: map[string]bool{}},
	}
}

// Load loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise it's treated as a config name and searched in standard locations.
// Returns an error if the file is not found (no silent fallback).
func Load(nameOrPath string) (*Config, error) {
	cfg, _, err := LoadWithPath(nameOrPath)
	return cfg, err
}

// LoadWithPath is Load, additionally returning the resolved file path
// (needed by callers that rewrite the config, e.g. scripts sync).
func LoadWithPath(nameOrPath string) (*Config, string, error) {
	if nameOrPath == "" {
		return nil, "", ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		resolved, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, "", err
		}
		configPath = resolved
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, "", fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, configPath, nil
}

// Save writes the config back to path as YAML.
func Save(cfg *Config, path string) error {
	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	// #nosec G306 -- config files are meant to be readable
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-svg2png/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-svg2png", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
