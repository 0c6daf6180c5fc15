package main

// Notes:
// - Tests use t.Setenv() which prevents t.Parallel().
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alnah/go-marky/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		t.Setenv("MARKY_CONFIG", "/path/to/config.yaml")
		t.Setenv("MARKY_THEME", "nord")
		t.Setenv("MARKY_IMAGES", "local")
		t.Setenv("MARKY_HOST", "0.0.0.0")
		t.Setenv("MARKY_PORT", "9000")
		t.Setenv("MARKY_PDF_TIMEOUT", "1m")

		cfg := loadEnvConfig()

		want := envConfig{
			ConfigPath: "/path/to/config.yaml",
			Theme:      "nord",
			Images:     "local",
			Host:       "0.0.0.0",
			Port:       9000,
			PDFTimeout: "1m",
		}
		if *cfg != want {
			t.Errorf("loadEnvConfig() = %+v, want %+v", *cfg, want)
		}
	})

	t.Run("invalid port is ignored", func(t *testing.T) {
		for _, port := range []string{"http", "-1"} {
			t.Setenv("MARKY_PORT", port)
			if cfg := loadEnvConfig(); cfg.Port != 0 {
				t.Errorf("MARKY_PORT=%s: Port = %d, want 0", port, cfg.Port)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("MARKY_THEMES", "nord")
	t.Setenv("MARKY_THEME", "nord")
	t.Setenv(config.EnvConfigDir, t.TempDir())

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "MARKY_THEMES") {
		t.Errorf("expected warning for MARKY_THEMES, got %q", out)
	}
	if strings.Contains(out, "MARKY_THEME ") || strings.Contains(out, config.EnvConfigDir) {
		t.Errorf("known variables should not warn, got %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env over config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty env keeps config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{}, cfg)
		if *cfg != *config.DefaultConfig() {
			t.Errorf("config changed: %+v", cfg)
		}
	})

	t.Run("env overrides config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Theme = "nord"
		applyEnvConfig(&envConfig{Theme: "dracula", Images: "all", Host: "::1", Port: 9000, PDFTimeout: "5s"}, cfg)

		if cfg.Theme != "dracula" {
			t.Errorf("Theme = %q, want dracula", cfg.Theme)
		}
		if cfg.Images.Include != "all" {
			t.Errorf("Images.Include = %q, want all", cfg.Images.Include)
		}
		if cfg.Addr() != "[::1]:9000" {
			t.Errorf("Addr() = %q, want [::1]:9000", cfg.Addr())
		}
		if cfg.PDF.Timeout != "5s" {
			t.Errorf("PDF.Timeout = %q, want 5s", cfg.PDF.Timeout)
		}
	})
}
