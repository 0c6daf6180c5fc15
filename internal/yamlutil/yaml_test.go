package yamlutil_test

// Notes:
// - Marshal error branch: not tested, go-yaml only fails on channels and
//   funcs, which no marky type carries.
// - Exact go-yaml messages are not asserted, only the position prefix and the
//   field name, which are stable across releases.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-marky/internal/yamlutil"
)

type liveSection struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type testConfig struct {
	Theme  string      `yaml:"theme"`
	Images string      `yaml:"images"`
	Live   liveSection `yaml:"live"`
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Strict decoding of hand-edited files
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		want    testConfig
		wantErr error
	}{
		{
			name: "known keys",
			data: "theme: nord\nimages: local\nlive:\n  host: 0.0.0.0\n  port: 8080\n",
			want: testConfig{Theme: "nord", Images: "local", Live: liveSection{Host: "0.0.0.0", Port: 8080}},
		},
		{
			name: "partial document keeps zero values",
			data: "live:\n  port: 9000\n",
			want: testConfig{Live: liveSection{Port: 9000}},
		},
		{
			name: "unicode values",
			data: "theme: テーマ\n",
			want: testConfig{Theme: "テーマ"},
		},
		{
			name:    "empty document",
			data:    "",
			wantErr: yamlutil.ErrEmpty,
		},
		{
			name:    "whitespace only",
			data:    "  \n\n",
			wantErr: yamlutil.ErrEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got testConfig
			err := yamlutil.UnmarshalStrict([]byte(tt.data), &got)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("decoded = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUnmarshalStrict_NilDestination(t *testing.T) {
	t.Parallel()

	err := yamlutil.UnmarshalStrict([]byte("theme: nord"), nil)
	if !errors.Is(err, yamlutil.ErrNilDestination) {
		t.Errorf("error = %v, want ErrNilDestination", err)
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict_Errors - Decode errors are one positioned line
// ---------------------------------------------------------------------------

func TestUnmarshalStrict_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		contains string
	}{
		{
			name:     "unknown key",
			data:     "theme: nord\ncolour: red\n",
			contains: "colour",
		},
		{
			name:     "unknown nested key",
			data:     "live:\n  prot: 80\n",
			contains: "prot",
		},
		{
			name: "wrong type",
			data: "live:\n  port: nine\n",
		},
		{
			name: "syntax error",
			data: "theme: [unclosed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got testConfig
			err := yamlutil.UnmarshalStrict([]byte(tt.data), &got)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			msg := err.Error()
			if !strings.HasPrefix(msg, "yamlutil: [") {
				t.Errorf("error = %q, want a yamlutil: [line:col] prefix", msg)
			}
			if strings.Contains(msg, "\n") {
				t.Errorf("error spans several lines: %q", msg)
			}
			if tt.contains != "" && !strings.Contains(msg, tt.contains) {
				t.Errorf("error = %q, want it to mention %q", msg, tt.contains)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMarshal - Encoding for --print-config
// ---------------------------------------------------------------------------

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.Marshal(testConfig{Theme: "github", Live: liveSection{Host: "127.0.0.1", Port: 8000}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := string(out)
	for _, want := range []string{"theme: github", "live:\n  host: 127.0.0.1\n  port: 8000"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q, got:\n%s", want, s)
		}
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	original := testConfig{Theme: "gruvbox", Images: "all", Live: liveSection{Host: "::1", Port: 1}}

	data, err := yamlutil.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded testConfig
	if err := yamlutil.UnmarshalStrict(data, &decoded); err != nil {
		t.Fatalf("UnmarshalStrict: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip = %+v, want %+v", decoded, original)
	}
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - MaxInputSize enforcement
// ---------------------------------------------------------------------------

// Not parallel: modifies the package-level MaxInputSize.
func TestInputSizeLimit(t *testing.T) {
	originalMax := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = originalMax })

	pad := func(n int) []byte {
		data := []byte("theme: x\n")
		return append(data, []byte(strings.Repeat("#", n-len(data)))...)
	}

	t.Run("input at limit succeeds", func(t *testing.T) {
		yamlutil.MaxInputSize = 100
		var cfg testConfig
		if err := yamlutil.UnmarshalStrict(pad(100), &cfg); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("input over limit fails with sizes", func(t *testing.T) {
		yamlutil.MaxInputSize = 50
		var cfg testConfig
		err := yamlutil.UnmarshalStrict(pad(100), &cfg)
		if !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Fatalf("error = %v, want ErrInputTooLarge", err)
		}
		if !strings.Contains(err.Error(), "100 bytes (max 50)") {
			t.Errorf("error = %q, want sizes", err)
		}
	})
}
