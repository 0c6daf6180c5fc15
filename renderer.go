package marky

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/alnah/go-marky/internal/assets"
	"github.com/alnah/go-marky/internal/pipeline"
	"github.com/alnah/go-marky/internal/theme"
)

// DefaultTitle is the title of documents without a heading.
const DefaultTitle = pipeline.DefaultTitle

// Renderer turns Documents into HTML pages or PDF files. It is safe for
// concurrent use. Close releases the headless browser started by PDF
// exports.
type Renderer struct {
	logger     *slog.Logger
	configDir  string
	httpClient *http.Client
	pdfTimeout time.Duration

	compiler *pipeline.Compiler
	themes   *theme.Resolver
	inliner  *pipeline.ImageInliner
	page     *pipeline.PageAssembler
	registry *assets.Registry

	pdfMu  sync.Mutex
	pdf    pdfConverter
	newPDF func(timeout time.Duration) pdfConverter
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithConfigDir sets the directory that holds themes.yaml, theme files and
// template or script overrides.
func WithConfigDir(dir string) Option {
	return func(r *Renderer) {
		r.configDir = dir
	}
}

// WithHTTPClient sets the client used to download URL themes and remote
// images.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Renderer) {
		r.httpClient = c
	}
}

// WithPDFTimeout bounds page load and printing of PDF exports.
func WithPDFTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.pdfTimeout = d
		}
	}
}

// withPDFConverter replaces the headless browser, for tests.
func withPDFConverter(c pdfConverter) Option {
	return func(r *Renderer) {
		r.newPDF = func(time.Duration) pdfConverter { return c }
	}
}

// NewRenderer creates a Renderer. It fails if the page template or scripts
// cannot be loaded.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		logger:     slog.Default(),
		pdfTimeout: DefaultPDFTimeout,
		compiler:   pipeline.NewCompiler(),
		newPDF: func(timeout time.Duration) pdfConverter {
			return newRodConverter(timeout)
		},
	}
	for _, opt := range opts {
		opt(r)
	}

	registry, err := loadRegistry(r.configDir)
	if err != nil {
		return nil, convertError(err)
	}
	page, err := pipeline.NewPageAssembler(registry.PageTemplate)
	if err != nil {
		return nil, convertError(err)
	}

	var fetcher pipeline.Fetcher
	var themeOpts []theme.ResolverOption
	if r.httpClient != nil {
		fetcher = &pipeline.HTTPFetcher{Client: r.httpClient}
		themeOpts = append(themeOpts, theme.WithHTTPClient(r.httpClient))
	}

	r.registry = registry
	r.page = page
	r.themes = theme.NewResolver(r.configDir, themeOpts...)
	r.inliner = pipeline.NewImageInliner(fetcher, r.logger)
	return r, nil
}

func loadRegistry(configDir string) (*assets.Registry, error) {
	resolver, err := assets.NewConfigDirResolver(configDir)
	if err != nil {
		return nil, err
	}
	if !resolver.HasCustomLoader() {
		return assets.Default()
	}
	return assets.NewRegistry(resolver)
}

// Compile converts Markdown to an HTML fragment. It fails only for text
// that is not valid UTF-8.
func (r *Renderer) Compile(text string, opts RenderOptions) (string, error) {
	return r.compile(context.Background(), text, opts)
}

func (r *Renderer) compile(ctx context.Context, text string, opts RenderOptions) (string, error) {
	if !utf8.ValidString(text) {
		return "", fmt.Errorf("%w: input is not valid UTF-8", ErrEncoding)
	}
	body, err := r.compiler.ToHTML(ctx, text, pipeline.Features{
		Math:      opts.Math,
		Highlight: opts.Highlight,
	})
	if err != nil {
		return "", convertError(err)
	}
	return body, nil
}

// Title returns the plain text of the first heading of text.
func (r *Renderer) Title(text string) (string, bool) {
	return pipeline.ExtractTitle(text)
}

// TitleOrDefault returns Title, or DefaultTitle when text has no heading.
func (r *Renderer) TitleOrDefault(text string) string {
	return pipeline.TitleOrDefault(text)
}

// Style returns the page stylesheet: the resolved theme, followed by the
// highlighting rules when highlighting is on.
func (r *Renderer) Style(ctx context.Context, opts RenderOptions) (string, error) {
	css, err := r.themes.Resolve(ctx, opts.Theme)
	if err != nil {
		return "", convertError(err)
	}
	if !opts.Highlight {
		return css, nil
	}
	highlight, err := theme.MinifyCSS(pipeline.HighlightCSS())
	if err != nil {
		return "", convertError(err)
	}
	return css + highlight, nil
}

// Assemble wraps body in the page template. The title is taken from doc's
// text and the feature flags from its options. PDF pages never carry the
// live client.
func (r *Renderer) Assemble(doc Document, body, style string) ([]byte, error) {
	opts := doc.Options()
	page, err := r.page.Assemble(pipeline.PageData{
		Title:     r.TitleOrDefault(doc.Text()),
		Style:     style,
		Body:      body,
		Script:    r.registry.Script,
		WebSocket: r.registry.WebSocket,
		Highlight: opts.Highlight,
		Math:      opts.Math,
		Diagrams:  opts.Diagrams,
		Live:      opts.Live && !opts.PDF,
	})
	if err != nil {
		return nil, convertError(err)
	}
	return []byte(page), nil
}

// RenderBody compiles doc and embeds its images. Live previews push this
// fragment to connected browsers.
func (r *Renderer) RenderBody(ctx context.Context, doc Document) (string, error) {
	opts := doc.Options()
	body, err := r.compile(ctx, doc.Text(), opts)
	if err != nil {
		return "", err
	}

	body, err = r.inliner.Inline(ctx, body, doc.SourceDir(), opts.Images.policy(), opts.OptimizeImages)
	if err != nil {
		return "", convertError(err)
	}
	return body, nil
}

// Render runs the whole pipeline and returns an HTML page, or a PDF when
// doc's options ask for one.
func (r *Renderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	start := time.Now()
	opts := doc.Options()

	style, err := r.Style(ctx, opts)
	if err != nil {
		return nil, err
	}

	body, err := r.RenderBody(ctx, doc)
	if err != nil {
		return nil, err
	}

	page, err := r.Assemble(doc, body, style)
	if err != nil {
		return nil, err
	}

	if !opts.PDF {
		r.logger.Debug("rendered page", "theme", opts.Theme.Name, "bytes", len(page), "duration", time.Since(start))
		return page, nil
	}

	out, err := r.exportPDF(ctx, string(page), doc.SourceDir())
	if err != nil {
		return nil, err
	}
	r.logger.Debug("rendered pdf", "theme", opts.Theme.Name, "bytes", len(out), "duration", time.Since(start))
	return out, nil
}

func (r *Renderer) exportPDF(ctx context.Context, page, sourceDir string) ([]byte, error) {
	page, err := pipeline.RewriteRelativePaths(page, sourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: rewriting paths: %v", ErrFormat, err)
	}

	out, err := r.converter().ToPDF(ctx, page)
	if err != nil {
		if KindOf(err) == KindUnknown && ctx.Err() == nil {
			return nil, wrapError(ErrExport, err)
		}
		return nil, err
	}
	return out, nil
}

func (r *Renderer) converter() pdfConverter {
	r.pdfMu.Lock()
	defer r.pdfMu.Unlock()
	if r.pdf == nil {
		r.pdf = r.newPDF(r.pdfTimeout)
	}
	return r.pdf
}

// Close releases the headless browser, if one was started.
func (r *Renderer) Close() error {
	r.pdfMu.Lock()
	defer r.pdfMu.Unlock()
	if r.pdf == nil {
		return nil
	}
	err := r.pdf.Close()
	r.pdf = nil
	if err != nil {
		return fmt.Errorf("%w: closing browser: %v", ErrExport, err)
	}
	return nil
}

// Placeholder is the text of the page served before the first render.
const Placeholder = "# 😴 Waiting for changes"

// PlaceholderDocument returns the document served before the first live
// update.
func PlaceholderDocument(opts RenderOptions) Document {
	return NewDocument(Placeholder, opts)
}

// String implements fmt.Stringer for log fields.
func (o RenderOptions) String() string {
	var flags []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{o.Highlight, "highlight"},
		{o.Math, "math"},
		{o.Diagrams, "diagrams"},
		{o.Live, "live"},
		{o.OptimizeImages, "optimize"},
		{o.PDF, "pdf"},
	} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	return fmt.Sprintf("theme=%s images=%s flags=[%s]", o.Theme.Name, o.Images, strings.Join(flags, ","))
}
