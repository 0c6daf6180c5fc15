package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-marky/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // MARKY_CONFIG: config file name or path
	Theme      string // MARKY_THEME: theme name, CSS path or URL
	Images     string // MARKY_IMAGES: none, local, remote, all
	Host       string // MARKY_HOST: live server host
	Port       int    // MARKY_PORT: live server port
	PDFTimeout string // MARKY_PDF_TIMEOUT: e.g. 30s
}

// knownEnvVars lists valid MARKY_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MARKY_CONFIG":      true,
	"MARKY_THEME":       true,
	"MARKY_IMAGES":      true,
	"MARKY_HOST":        true,
	"MARKY_PORT":        true,
	"MARKY_PDF_TIMEOUT": true,
	config.EnvConfigDir: true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MARKY_CONFIG"),
		Theme:      os.Getenv("MARKY_THEME"),
		Images:     os.Getenv("MARKY_IMAGES"),
		Host:       os.Getenv("MARKY_HOST"),
		PDFTimeout: os.Getenv("MARKY_PDF_TIMEOUT"),
	}

	if port := os.Getenv("MARKY_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p >= 0 {
			cfg.Port = p
		}
	}

	return cfg
}

// warnUnknownEnvVars prints warnings for unrecognized MARKY_* variables.
// Helps catch typos like MARKY_THEMES instead of MARKY_THEME.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MARKY_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values over the config file.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Theme != "" {
		cfg.Theme = env.Theme
	}
	if env.Images != "" {
		cfg.Images.Include = env.Images
	}
	if env.Host != "" {
		cfg.Live.Host = env.Host
	}
	if env.Port != 0 {
		cfg.Live.Port = env.Port
	}
	if env.PDFTimeout != "" {
		cfg.PDF.Timeout = env.PDFTimeout
	}
}
