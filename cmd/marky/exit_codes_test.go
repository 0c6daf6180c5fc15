package main

// Notes:
// - exitCodeFor: we test the CLI sentinels, the config sentinels and every
//   kind of the root error taxonomy, plus wrapped errors to verify the
//   errors.Is() chain works correctly.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/alnah/go-marky"
	"github.com/alnah/go-marky/internal/config"
	"github.com/alnah/go-marky/internal/server"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// Browser errors (exit 4)
		{"browser connect", marky.ErrBrowserConnect, ExitBrowser},
		{"page create", marky.ErrPageCreate, ExitBrowser},
		{"page load", marky.ErrPageLoad, ExitBrowser},
		{"pdf generation", marky.ErrPDFGeneration, ExitBrowser},
		{"export", marky.ErrExport, ExitBrowser},
		{"wrapped browser connect", fmt.Errorf("failed: %w", marky.ErrBrowserConnect), ExitBrowser},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"read input", ErrReadInput, ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"io kind", marky.ErrIO, ExitIO},
		{"fetch kind", marky.ErrFetch, ExitIO},
		{"bind", fmt.Errorf("%w: %w: in use", marky.ErrIO, server.ErrBind), ExitIO},
		{"hinted write", withHint(ErrWriteOutput, "\n  hint: x"), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"usage", usagef("bad"), ExitUsage},
		{"no input", ErrNoInput, ExitUsage},
		{"config kind", marky.ErrConfig, ExitUsage},
		{"unsupported kind", marky.ErrUnsupported, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"empty config name", config.ErrEmptyConfigName, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid value", fmt.Errorf("%w: live.port", config.ErrInvalidValue), ExitUsage},

		// General errors (exit 1)
		{"format kind", marky.ErrFormat, ExitGeneral},
		{"encoding kind", marky.ErrEncoding, ExitGeneral},
		{"unknown", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix conventions
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Error("exit codes 0, 1 and 2 must follow Unix conventions")
	}
	for _, code := range []int{ExitIO, ExitBrowser} {
		if code >= 126 {
			t.Errorf("custom exit code %d must be below 126", code)
		}
	}
}
