package pipeline

import "testing"

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "atx heading", input: "# Hello", want: "Hello", wantOK: true},
		{name: "inline markup flattened", input: "# Hello *World*", want: "Hello World", wantOK: true},
		{name: "code span", input: "## Use `go test`", want: "Use go test", wantOK: true},
		{name: "link text", input: "# [Docs](https://x.y) index", want: "Docs index", wantOK: true},
		{name: "setext heading", input: "Title\n=====\n", want: "Title", wantOK: true},
		{name: "first heading wins", input: "intro\n\n## Second\n\n# First\n", want: "Second", wantOK: true},
		{name: "heading nested in blockquote", input: "para\n\n> # Quoted\n", want: "Quoted", wantOK: true},
		{name: "heading after list", input: "- a\n- b\n\n### After", want: "After", wantOK: true},
		{name: "angle autolink", input: "# See <https://example.com>", want: "See https://example.com", wantOK: true},
		{name: "bare www autolink", input: "# Visit www.example.com today", want: "Visit www.example.com today", wantOK: true},
		{name: "bare url autolink", input: "# Docs at https://go.dev/doc", want: "Docs at https://go.dev/doc", wantOK: true},
		{name: "heading three levels deep", input: "> - > # Deep\n", want: "Deep", wantOK: true},
		{name: "later sibling holds nested heading", input: "plain intro\n\n- item\n\n  > ## Inner\n\n# Top\n", want: "Inner", wantOK: true},
		{name: "no heading", input: "just text", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ExtractTitle(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractTitle(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTitleOrDefault(t *testing.T) {
	t.Parallel()

	if got := TitleOrDefault("no heading here"); got != DefaultTitle {
		t.Errorf("TitleOrDefault() = %q, want %q", got, DefaultTitle)
	}
	if got := TitleOrDefault("# Named"); got != "Named" {
		t.Errorf("TitleOrDefault() = %q, want %q", got, "Named")
	}
}
