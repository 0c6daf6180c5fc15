package theme

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinCatalog(t *testing.T) {
	t.Parallel()

	catalog := BuiltinCatalog()
	if len(catalog) < 2 {
		t.Fatalf("BuiltinCatalog() has %d themes, want at least 2", len(catalog))
	}
	if catalog[0].Name != DefaultName {
		t.Errorf("BuiltinCatalog()[0] = %q, want %q", catalog[0].Name, DefaultName)
	}
	if Default().Name != DefaultName {
		t.Errorf("Default() = %q, want %q", Default().Name, DefaultName)
	}
	for _, th := range catalog {
		if th.Source.IsZero() {
			t.Errorf("built-in %q has no source", th.Name)
		}
	}

	// Mutating the copy must not leak into later calls.
	catalog[0] = Theme{Name: "mutated"}
	if BuiltinCatalog()[0].Name != DefaultName {
		t.Error("BuiltinCatalog() returned shared storage")
	}
}

func TestCatalog_Lookup(t *testing.T) {
	t.Parallel()

	catalog := Catalog{
		{Name: "a", Source: Inline("first")},
		{Name: "b", Source: Inline("b")},
		{Name: "a", Source: Inline("second")},
	}

	tests := []struct {
		name     string
		input    string
		wantOK   bool
		wantText string
	}{
		{name: "first match wins", input: "a", wantOK: true, wantText: "first"},
		{name: "exact match", input: "b", wantOK: true, wantText: "b"},
		{name: "case-sensitive", input: "A", wantOK: false},
		{name: "missing", input: "zzz", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := catalog.Lookup(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got.Source.value != tt.wantText {
				t.Errorf("Lookup(%q) source = %q, want %q", tt.input, got.Source.value, tt.wantText)
			}
		})
	}
}

func TestCatalog_Find(t *testing.T) {
	t.Parallel()

	_, err := BuiltinCatalog().Find("nope")
	if !errors.Is(err, ErrUnknownTheme) {
		t.Errorf("Find() error = %v, want ErrUnknownTheme", err)
	}

	got, err := BuiltinCatalog().Find("gruvbox")
	if err != nil {
		t.Fatalf("Find(gruvbox) error = %v", err)
	}
	if got.Name != "gruvbox" {
		t.Errorf("Find(gruvbox) = %q", got.Name)
	}
}

func TestCatalog_ClosestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		catalog Catalog
		input   string
		want    string
		wantOK  bool
	}{
		{
			name:    "typo",
			catalog: Catalog{{Name: "github"}, {Name: "gruvbox"}},
			input:   "gruvbx",
			want:    "gruvbox",
			wantOK:  true,
		},
		{
			name:    "exact name",
			catalog: Catalog{{Name: "github"}, {Name: "gruvbox"}},
			input:   "github",
			want:    "github",
			wantOK:  true,
		},
		{
			name:    "ties go to catalog order",
			catalog: Catalog{{Name: "ab"}, {Name: "ba"}},
			input:   "aa",
			want:    "ab",
			wantOK:  true,
		},
		{
			name:    "empty catalog",
			catalog: nil,
			input:   "github",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := tt.catalog.ClosestMatch(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ClosestMatch(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got.Name != tt.want {
				t.Errorf("ClosestMatch(%q) = %q, want %q", tt.input, got.Name, tt.want)
			}
		})
	}
}

func TestParseManifest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		data      string
		wantNames []string
		wantErr   error
	}{
		{
			name: "all source kinds",
			data: `themes:
  - name: mine
    path: mine.css
  - name: dark
    inline: "body{background:#000}"
  - name: remote
    url: https://example.com/style.css
`,
			wantNames: []string{"mine", "dark", "remote"},
		},
		{
			name:      "empty file",
			data:      "",
			wantNames: nil,
		},
		{
			name:    "missing source",
			data:    "themes:\n  - name: bare\n",
			wantErr: ErrManifest,
		},
		{
			name:    "two sources",
			data:    "themes:\n  - name: both\n    inline: a\n    url: https://x\n",
			wantErr: ErrManifest,
		},
		{
			name:    "missing name",
			data:    "themes:\n  - inline: a\n",
			wantErr: ErrManifest,
		},
		{
			name:    "unknown field",
			data:    "themes:\n  - name: x\n    inline: a\n    color: red\n",
			wantErr: ErrManifest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseManifest([]byte(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseManifest() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseManifest() error = %v", err)
			}
			names := got.Names()
			if len(names) != len(tt.wantNames) {
				t.Fatalf("ParseManifest() names = %v, want %v", names, tt.wantNames)
			}
			for i := range names {
				if names[i] != tt.wantNames[i] {
					t.Errorf("names[%d] = %q, want %q", i, names[i], tt.wantNames[i])
				}
			}
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	t.Run("missing manifest yields built-ins", func(t *testing.T) {
		t.Parallel()

		got, err := LoadCatalog(filepath.Join(t.TempDir(), ManifestFile))
		if err != nil {
			t.Fatalf("LoadCatalog() error = %v", err)
		}
		if len(got) != len(BuiltinCatalog()) {
			t.Errorf("LoadCatalog() len = %d, want %d", len(got), len(BuiltinCatalog()))
		}
	})

	t.Run("user entries shadow built-ins", func(t *testing.T) {
		t.Parallel()

		manifestPath := filepath.Join(t.TempDir(), ManifestFile)
		data := "themes:\n  - name: github\n    inline: \"body{color:red}\"\n"
		if err := os.WriteFile(manifestPath, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}

		got, err := LoadCatalog(manifestPath)
		if err != nil {
			t.Fatalf("LoadCatalog() error = %v", err)
		}
		th, ok := got.Lookup("github")
		if !ok {
			t.Fatal("Lookup(github) not found")
		}
		if th.Source.value != "body{color:red}" {
			t.Errorf("Lookup(github) = %q, want user entry", th.Source.value)
		}
		if len(got) != len(BuiltinCatalog())+1 {
			t.Errorf("LoadCatalog() len = %d, want %d", len(got), len(BuiltinCatalog())+1)
		}
	})

	t.Run("invalid manifest", func(t *testing.T) {
		t.Parallel()

		manifestPath := filepath.Join(t.TempDir(), ManifestFile)
		if err := os.WriteFile(manifestPath, []byte("themes: [{name: x}]"), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadCatalog(manifestPath)
		if !errors.Is(err, ErrManifest) {
			t.Errorf("LoadCatalog() error = %v, want ErrManifest", err)
		}
	})
}

func TestSource_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  Source
		want string
	}{
		{Source{}, "none"},
		{Inline("body{}"), "inline"},
		{Path("a.css"), "path a.css"},
		{URL("https://x/y.css"), "url https://x/y.css"},
	}
	for _, tt := range tests {
		if got := tt.src.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
