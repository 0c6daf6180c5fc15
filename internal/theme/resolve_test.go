package theme

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/style.css":
			w.Header().Set("Content-Type", "text/css")
			_, _ = w.Write([]byte("body {\n  color : blue ;\n}\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	configDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(configDir, "mine.css"), []byte("h1 {  margin : 0 ; }"), 0644); err != nil {
		t.Fatal(err)
	}
	absPath := filepath.Join(t.TempDir(), "abs.css")
	if err := os.WriteFile(absPath, []byte("p { padding : 0 ; }"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(configDir, WithHTTPClient(srv.Client()))

	tests := []struct {
		name    string
		theme   Theme
		want    string
		wantErr error
	}{
		{
			name:  "inline",
			theme: Theme{Name: "x", Source: Inline("body { color : red ; }")},
			want:  "body{color:red}",
		},
		{
			name:  "relative path joined to config dir",
			theme: Theme{Name: "mine", Source: Path("mine.css")},
			want:  "h1{margin:0}",
		},
		{
			name:  "absolute path",
			theme: Theme{Name: "abs", Source: Path(absPath)},
			want:  "p{padding:0}",
		},
		{
			name:  "url",
			theme: Theme{Name: "remote", Source: URL(srv.URL + "/style.css")},
			want:  "body{color:blue}",
		},
		{
			name:    "missing file",
			theme:   Theme{Name: "gone", Source: Path("missing.css")},
			wantErr: ErrRead,
		},
		{
			name:    "http 404",
			theme:   Theme{Name: "404", Source: URL(srv.URL + "/missing.css")},
			wantErr: ErrFetch,
		},
		{
			name:    "ftp url",
			theme:   Theme{Name: "ftp", Source: URL("ftp://example.com/theme.css")},
			wantErr: ErrUnsupportedScheme,
		},
		{
			name:    "scheme-less url",
			theme:   Theme{Name: "bare", Source: URL("example.com/theme.css")},
			wantErr: ErrUnsupportedScheme,
		},
		{
			name:    "no source",
			theme:   Theme{Name: "empty"},
			wantErr: ErrNoSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.Resolve(context.Background(), tt.theme)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolver_CanceledFetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("body{}"))
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewResolver("", WithHTTPClient(srv.Client())).
		Resolve(ctx, Theme{Name: "remote", Source: URL(srv.URL)})
	if !errors.Is(err, ErrFetch) {
		t.Errorf("Resolve() error = %v, want ErrFetch", err)
	}
}

func TestResolve_Builtins(t *testing.T) {
	t.Parallel()

	for _, th := range BuiltinCatalog() {
		css, err := Resolve(context.Background(), th, "")
		if err != nil {
			t.Errorf("Resolve(%q) error = %v", th.Name, err)
			continue
		}
		if strings.Contains(css, "\n") {
			t.Errorf("Resolve(%q) not minified", th.Name)
		}
	}
}
