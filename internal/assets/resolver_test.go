package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewAssetResolver(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses embedded only", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver(\"\") error = %v", err)
		}
		if resolver.HasCustomLoader() {
			t.Error("expected no custom loader for empty path")
		}
	})

	t.Run("valid custom path", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		if !resolver.HasCustomLoader() {
			t.Error("expected custom loader for valid path")
		}
	})

	t.Run("invalid custom path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewAssetResolver("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewAssetResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestNewConfigDirResolver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      func(t *testing.T) string
		wantCustom bool
	}{
		{
			name:       "empty config dir",
			setup:      func(t *testing.T) string { return "" },
			wantCustom: false,
		},
		{
			name:       "missing config dir",
			setup:      func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent") },
			wantCustom: false,
		},
		{
			name:       "config dir without overrides",
			setup:      func(t *testing.T) string { return t.TempDir() },
			wantCustom: false,
		},
		{
			name: "config dir with templates",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				if err := os.Mkdir(filepath.Join(dir, "templates"), 0755); err != nil {
					t.Fatal(err)
				}
				return dir
			},
			wantCustom: true,
		},
		{
			name: "config dir with scripts",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				if err := os.Mkdir(filepath.Join(dir, "scripts"), 0755); err != nil {
					t.Fatal(err)
				}
				return dir
			},
			wantCustom: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resolver, err := NewConfigDirResolver(tt.setup(t))
			if err != nil {
				t.Fatalf("NewConfigDirResolver() error = %v", err)
			}
			if got := resolver.HasCustomLoader(); got != tt.wantCustom {
				t.Errorf("HasCustomLoader() = %v, want %v", got, tt.wantCustom)
			}
		})
	}
}

func TestAssetResolver_Fallback(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	custom := "<p>{{{body}}}</p>"
	writeAsset(t, tmpDir, "templates", "page.hbs", custom)

	resolver, err := NewAssetResolver(tmpDir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	t.Run("custom template takes precedence", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.LoadTemplate(PageTemplateName)
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		if got != custom {
			t.Errorf("LoadTemplate() = %q, want %q", got, custom)
		}
	})

	t.Run("missing custom script falls back to embedded", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.LoadScript(ScriptName)
		if err != nil {
			t.Fatalf("LoadScript() error = %v", err)
		}
		want, _ := NewEmbeddedLoader().LoadScript(ScriptName)
		if got != want {
			t.Error("LoadScript() did not return the embedded script")
		}
	})

	t.Run("invalid name is not masked by fallback", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.LoadScript("../script")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadScript() error = %v, want ErrInvalidAssetName", err)
		}
	})
}
