package theme

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
)

const (
	// maxRemoteSize limits downloaded stylesheets.
	maxRemoteSize = 4 << 20

	defaultFetchTimeout = 30 * time.Second
)

// Resolver turns a Theme into minified CSS text.
type Resolver struct {
	configDir string
	client    *http.Client
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithHTTPClient sets the client used for URL sources.
func WithHTTPClient(c *http.Client) ResolverOption {
	return func(r *Resolver) {
		if c != nil {
			r.client = c
		}
	}
}

// NewResolver creates a Resolver that resolves relative paths against
// configDir.
func NewResolver(configDir string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		configDir: configDir,
		client:    &http.Client{Timeout: defaultFetchTimeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve is a shorthand for NewResolver(configDir).Resolve(ctx, t).
func Resolve(ctx context.Context, t Theme, configDir string) (string, error) {
	return NewResolver(configDir).Resolve(ctx, t)
}

// Resolve returns the minified stylesheet of t.
func (r *Resolver) Resolve(ctx context.Context, t Theme) (string, error) {
	var (
		raw string
		err error
	)

	switch t.Source.kind {
	case sourceInline:
		raw = t.Source.value
	case sourcePath:
		raw, err = r.readFile(t.Source.value)
	case sourceURL:
		raw, err = r.fetch(ctx, t.Source.value)
	default:
		return "", fmt.Errorf("%w: %q", ErrNoSource, t.Name)
	}
	if err != nil {
		return "", fmt.Errorf("theme %q: %w", t.Name, err)
	}

	return MinifyCSS(raw)
}

func (r *Resolver) readFile(p string) (string, error) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.configDir, p)
	}
	data, err := os.ReadFile(p) // #nosec G304 -- user-selected theme file
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, err)
	}
	return string(data), nil
}

func (r *Resolver) fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "text/css,*/*;q=0.1")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s: %s", ErrFetch, rawURL, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return string(data), nil
}

var cssMinifier = sync.OnceValue(func() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	return m
})

// MinifyCSS minifies a stylesheet.
func MinifyCSS(source string) (string, error) {
	out, err := cssMinifier().String("text/css", source)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMinify, err)
	}
	return out, nil
}
