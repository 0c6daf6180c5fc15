package pipeline

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif" // register decoders
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/sync/errgroup"
)

const (
	// maxImageSize limits images read from disk or network.
	maxImageSize = 32 << 20

	// maxConcurrentLoads bounds parallel image reads and downloads.
	maxConcurrentLoads = 4

	defaultFetchTimeout = 30 * time.Second
)

// InlinePolicy selects which image references are embedded.
type InlinePolicy struct {
	Local  bool
	Remote bool
}

// Enabled reports whether any reference class is embedded.
func (p InlinePolicy) Enabled() bool {
	return p.Local || p.Remote
}

// Fetcher downloads remote images.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches images with an http.Client.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with a request timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: defaultFetchTimeout}}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %s", rawURL, resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
}

// ImageInliner replaces img sources with base64 data URIs.
type ImageInliner struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewImageInliner creates an ImageInliner. A nil fetcher uses an
// HTTPFetcher; a nil logger uses slog.Default().
func NewImageInliner(fetcher Fetcher, logger *slog.Logger) *ImageInliner {
	if fetcher == nil {
		fetcher = NewHTTPFetcher()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageInliner{fetcher: fetcher, logger: logger}
}

type imageRef struct {
	attr   *html.Attribute
	src    string
	remote bool
}

// Inline embeds every img reference selected by policy. Local paths are
// resolved against baseDir. SVG images are embedded as is; raster images
// are re-encoded as PNG, with maximum compression when optimize is set.
// data: URIs are never touched. Any failure aborts the whole call.
func (i *ImageInliner) Inline(ctx context.Context, body, baseDir string, policy InlinePolicy, optimize bool) (string, error) {
	if !policy.Enabled() {
		return body, nil
	}

	doc, isFragment, err := parseHTML(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	var refs []imageRef
	elementAttrs(doc, atom.Img, "src", func(attr *html.Attribute) {
		src := strings.TrimSpace(attr.Val)
		if src == "" || strings.HasPrefix(strings.ToLower(src), "data:") {
			return
		}
		remote := isRemoteRef(src)
		if remote && !policy.Remote || !remote && !policy.Local {
			i.logger.Debug("image skipped by policy", "src", src, "remote", remote)
			return
		}
		refs = append(refs, imageRef{attr: attr, src: src, remote: remote})
	})
	if len(refs) == 0 {
		return body, nil
	}

	uris := make([]string, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for idx, ref := range refs {
		g.Go(func() error {
			uri, err := i.dataURI(gctx, ref, baseDir, optimize)
			if err != nil {
				return err
			}
			uris[idx] = uri
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	for idx, ref := range refs {
		ref.attr.Val = uris[idx]
	}

	out, err := renderHTML(doc, isFragment)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return out, nil
}

func (i *ImageInliner) dataURI(ctx context.Context, ref imageRef, baseDir string, optimize bool) (string, error) {
	var (
		data []byte
		err  error
	)
	if ref.remote {
		data, err = i.fetcher.Fetch(ctx, absoluteURL(ref.src))
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrImageFetch, ref.src, err)
		}
	} else {
		data, err = readLocalImage(localImagePath(ref.src, baseDir))
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrImageRead, ref.src, err)
		}
	}

	if isSVG(ref.src, data) {
		i.logger.Debug("image inlined", "src", ref.src, "format", "svg", "bytes", len(data))
		return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(data), nil
	}

	encoded, format, err := reencodePNG(data, optimize)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrImageDecode, ref.src, err)
	}
	i.logger.Debug("image inlined", "src", ref.src, "format", format, "bytes", len(encoded))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(encoded), nil
}

// isRemoteRef reports whether src names a network resource: a URI scheme
// other than file, or a protocol-relative reference.
func isRemoteRef(src string) bool {
	if strings.HasPrefix(src, "//") {
		return true
	}
	if !hasScheme(src) {
		return false
	}
	return !strings.HasPrefix(strings.ToLower(src), "file:")
}

func absoluteURL(src string) string {
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}

// localImagePath resolves src against baseDir. Percent-encoded names and
// file: URLs are decoded; query and fragment are dropped.
func localImagePath(src, baseDir string) string {
	p := src
	if u, err := url.Parse(src); err == nil {
		if u.Scheme == "file" || (u.Scheme == "" && u.Opaque == "") {
			p = u.Path
		}
	}
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}

func readLocalImage(path string) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 -- images referenced by the document
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(io.LimitReader(f, maxImageSize))
}

func isSVG(src string, data []byte) bool {
	if u, err := url.Parse(src); err == nil && strings.EqualFold(filepath.Ext(u.Path), ".svg") {
		return true
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

func reencodePNG(data []byte, optimize bool) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}

	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if optimize {
		enc.CompressionLevel = png.BestCompression
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, img); err != nil {
		return nil, format, err
	}
	return buf.Bytes(), format, nil
}
