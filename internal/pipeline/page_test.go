package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-marky/internal/assets"
)

func newTestAssembler(t *testing.T) *PageAssembler {
	t.Helper()
	reg, err := assets.Default()
	if err != nil {
		t.Fatalf("assets.Default() error = %v", err)
	}
	a, err := NewPageAssembler(reg.PageTemplate)
	if err != nil {
		t.Fatalf("NewPageAssembler() error = %v", err)
	}
	return a
}

func TestPageAssembler_Assemble(t *testing.T) {
	t.Parallel()

	a := newTestAssembler(t)

	tests := []struct {
		name         string
		data         PageData
		wantContains []string
		wantExcludes []string
	}{
		{
			name: "static page",
			data: PageData{
				Title:  "Hello",
				Style:  "body{color:red}",
				Body:   "<h1>Hello</h1>",
				Script: "setup()",
			},
			wantContains: []string{
				"<title>Hello</title>",
				"<style>body{color:red}</style>",
				"<h1>Hello</h1>",
				`id="root"`,
				"setup()",
			},
			wantExcludes: []string{"katex", "mermaid", "ReconnectingSocket"},
		},
		{
			name: "title is escaped",
			data: PageData{Title: "a < b", Body: "<p>x</p>"},
			wantContains: []string{
				"<title>a &lt; b</title>",
			},
		},
		{
			name: "feature flags pull client libraries",
			data: PageData{Title: "T", Math: true, Diagrams: true},
			wantContains: []string{
				"katex.min.js",
				"mermaid.min.js",
			},
		},
		{
			name: "live page includes websocket client",
			data: PageData{Title: "T", Live: true, WebSocket: "class ReconnectingSocket{}"},
			wantContains: []string{
				"class ReconnectingSocket{}",
			},
		},
		{
			name:         "websocket client omitted when not live",
			data:         PageData{Title: "T", WebSocket: "class ReconnectingSocket{}"},
			wantExcludes: []string{"ReconnectingSocket"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := a.Assemble(tt.data)
			if err != nil {
				t.Fatalf("Assemble() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Assemble() missing %q", want)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("Assemble() should not contain %q", exclude)
				}
			}
		})
	}
}

func TestNewPageAssembler_InvalidTemplate(t *testing.T) {
	t.Parallel()

	_, err := NewPageAssembler("{{#if x}}unclosed")
	if !errors.Is(err, ErrTemplate) {
		t.Errorf("NewPageAssembler() error = %v, want ErrTemplate", err)
	}
}
