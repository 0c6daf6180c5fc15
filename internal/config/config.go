// Package config loads marky's YAML configuration and locates the
// configuration directory.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-marky/internal/fileutil"
	"github.com/alnah/go-marky/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
	ErrNoConfigDir     = errors.New("cannot determine config directory")
)

// Field length limits.
const (
	MaxThemeLength    = 2048 // Theme name, path or URL
	MaxHostLength     = 253  // DNS name
	MaxDurationLength = 20   // "30s", "1m30s"
)

// AppName names the configuration directory.
const AppName = "marky"

// EnvConfigDir overrides the configuration directory.
const EnvConfigDir = "MARKY_CONFIG_DIR"

// Defaults.
const (
	DefaultTheme        = "github"
	DefaultHost         = "127.0.0.1"
	DefaultPort         = 8080
	DefaultPDFTimeout   = "30s"
	DefaultDebounce     = "50ms"
	DefaultImageInclude = "none"
)

// Config holds all configuration for rendering and previewing.
type Config struct {
	Theme    string         `yaml:"theme"`
	Features FeaturesConfig `yaml:"features"`
	Images   ImagesConfig   `yaml:"images"`
	Live     LiveConfig     `yaml:"live"`
	PDF      PDFConfig      `yaml:"pdf"`
	Watch    WatchConfig    `yaml:"watch"`
}

// FeaturesConfig toggles optional Markdown features.
type FeaturesConfig struct {
	Highlight bool `yaml:"highlight"`
	Math      bool `yaml:"math"`
	Diagrams  bool `yaml:"diagrams"`
}

// ImagesConfig selects which images are embedded.
type ImagesConfig struct {
	Include  string `yaml:"include"` // "none", "local", "remote", "all"
	Optimize bool   `yaml:"optimize"`
}

// LiveConfig defines the preview server.
type LiveConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	OpenBrowser bool   `yaml:"openBrowser"`
}

// PDFConfig defines PDF export options.
type PDFConfig struct {
	Timeout string `yaml:"timeout"` // Go duration, e.g. "30s"
}

// WatchConfig defines the file watcher.
type WatchConfig struct {
	Debounce string `yaml:"debounce"` // Go duration, "0" disables
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Theme:    DefaultTheme,
		Features: FeaturesConfig{Highlight: true},
		Images:   ImagesConfig{Include: DefaultImageInclude},
		Live:     LiveConfig{Host: DefaultHost, Port: DefaultPort, OpenBrowser: true},
		PDF:      PDFConfig{Timeout: DefaultPDFTimeout},
		Watch:    WatchConfig{Debounce: DefaultDebounce},
	}
}

// Validate checks field lengths and values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("theme", c.Theme, MaxThemeLength); err != nil {
		return err
	}

	switch strings.ToLower(c.Images.Include) {
	case "", "none", "local", "remote", "all":
	default:
		return fmt.Errorf("%w: images.include %q (must be none, local, remote or all)", ErrInvalidValue, c.Images.Include)
	}

	if err := validateFieldLength("live.host", c.Live.Host, MaxHostLength); err != nil {
		return err
	}
	if c.Live.Port < 0 || c.Live.Port > 65535 {
		return fmt.Errorf("%w: live.port must be between 0 and 65535, got %d", ErrInvalidValue, c.Live.Port)
	}

	if _, err := parseDuration("pdf.timeout", c.PDF.Timeout); err != nil {
		return err
	}
	if _, err := parseDuration("watch.debounce", c.Watch.Debounce); err != nil {
		return err
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// parseDuration parses a non-negative duration. Empty is zero.
func parseDuration(fieldName, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	if err := validateFieldLength(fieldName, value, MaxDurationLength); err != nil {
		return 0, err
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidValue, fieldName, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative, got %s", ErrInvalidValue, fieldName, value)
	}
	return d, nil
}

// Addr returns the preview listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Live.Host, strconv.Itoa(c.Live.Port))
}

// PDFTimeout returns pdf.timeout, or zero when unset or invalid.
func (c *Config) PDFTimeout() time.Duration {
	d, _ := parseDuration("pdf.timeout", c.PDF.Timeout)
	return d
}

// WatchDebounce returns watch.debounce, or zero when unset or invalid.
func (c *Config) WatchDebounce() time.Duration {
	d, _ := parseDuration("watch.debounce", c.Watch.Debounce)
	return d
}

// YAML returns the configuration as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	return yamlutil.Marshal(c)
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in the current
// directory, then in Dir(). Keys absent from the file keep their
// DefaultConfig value. Returns error if the file is not found (no silent
// fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Dir returns the configuration directory: $MARKY_CONFIG_DIR when set,
// else <user config dir>/marky. The directory may not exist.
func Dir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoConfigDir, err)
	}
	return filepath.Join(base, AppName), nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, Dir()
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	if configDir, err := Dir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(configDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
