package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// HighlightStyle is the chroma style used for server-side highlighting.
const HighlightStyle = "github"

// Features selects the optional Markdown constructs.
type Features struct {
	Math      bool
	Highlight bool
}

// Compiler converts Markdown to HTML fragments. One goldmark instance is
// built per feature set on first use.
type Compiler struct {
	mu      sync.Mutex
	engines map[Features]goldmark.Markdown
}

// NewCompiler creates a Compiler.
func NewCompiler() *Compiler {
	return &Compiler{engines: make(map[Features]goldmark.Markdown)}
}

func (c *Compiler) engine(f Features) goldmark.Markdown {
	c.mu.Lock()
	defer c.mu.Unlock()

	if md, ok := c.engines[f]; ok {
		return md
	}
	md := newMarkdown(f)
	c.engines[f] = md
	return md
}

func newMarkdown(f Features) goldmark.Markdown {
	extensions := []goldmark.Extender{
		extension.GFM,      // Tables, strikethrough, autolinks, task lists
		extension.Footnote, // [^1] footnotes
	}
	if f.Math {
		extensions = append(extensions, Math)
	}
	if f.Highlight {
		// Languages without a lexer (mermaid) keep the plain
		// <pre><code class="language-x"> form.
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithStyle(HighlightStyle),
			highlighting.WithFormatOptions(html.WithClasses(true)),
		))
	}

	return goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (c *Compiler) ToHTML(ctx context.Context, content string, f Features) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)
	md := c.engine(f)

	go func() {
		var buf bytes.Buffer
		if err := md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

var highlightCSS = sync.OnceValue(func() string {
	var sb strings.Builder
	formatter := html.New(html.WithClasses(true))
	if err := formatter.WriteCSS(&sb, styles.Get(HighlightStyle)); err != nil {
		return ""
	}
	return sb.String()
})

// HighlightCSS returns the stylesheet for highlighted code blocks.
func HighlightCSS() string {
	return highlightCSS()
}
