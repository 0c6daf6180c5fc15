package marky

import (
	"errors"

	"github.com/alnah/go-marky/internal/assets"
	"github.com/alnah/go-marky/internal/pipeline"
	"github.com/alnah/go-marky/internal/theme"
)

// Error taxonomy. Every error returned by this package wraps exactly one.
var (
	// ErrConfig: unknown theme, theme without source, invalid manifest.
	ErrConfig = errors.New("configuration error")

	// ErrIO: unreadable input, theme file or image, failed write.
	ErrIO = errors.New("I/O error")

	// ErrFormat: template, minifier or image codec failure.
	ErrFormat = errors.New("format error")

	// ErrFetch: remote theme or image download failure.
	ErrFetch = errors.New("fetch error")

	// ErrEncoding: input text is not valid UTF-8.
	ErrEncoding = errors.New("encoding error")

	// ErrUnsupported: a resolution path marky does not implement, such as a
	// theme URL whose scheme is not http or https.
	ErrUnsupported = errors.New("unsupported")

	// ErrExport: headless browser or PDF generation failure.
	ErrExport = errors.New("PDF export failed")
)

// Export failures, each wrapping ErrExport.
var (
	ErrBrowserConnect = wrapError(ErrExport, errors.New("failed to connect to browser"))
	ErrPageCreate     = wrapError(ErrExport, errors.New("failed to create browser page"))
	ErrPageLoad       = wrapError(ErrExport, errors.New("failed to load page"))
	ErrPDFGeneration  = wrapError(ErrExport, errors.New("PDF generation failed"))
)

// Kind classifies errors for exit codes and log fields.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindIO
	KindFormat
	KindFetch
	KindEncoding
	KindUnsupported
	KindExport
)

var kindNames = [...]string{
	KindUnknown:     "unknown",
	KindConfig:      "config",
	KindIO:          "io",
	KindFormat:      "format",
	KindFetch:       "fetch",
	KindEncoding:    "encoding",
	KindUnsupported: "unsupported",
	KindExport:      "export",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// KindOf returns the taxonomy kind of err, or KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrConfig):
		return KindConfig
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, ErrFormat):
		return KindFormat
	case errors.Is(err, ErrFetch):
		return KindFetch
	case errors.Is(err, ErrEncoding):
		return KindEncoding
	case errors.Is(err, ErrUnsupported):
		return KindUnsupported
	case errors.Is(err, ErrExport):
		return KindExport
	default:
		return KindUnknown
	}
}

// convertError maps internal errors to the public taxonomy. Errors already
// classified, and context errors, pass through.
func convertError(err error) error {
	if err == nil || KindOf(err) != KindUnknown {
		return err
	}
	switch {
	case errors.Is(err, theme.ErrNoSource),
		errors.Is(err, theme.ErrUnknownTheme),
		errors.Is(err, theme.ErrManifest),
		errors.Is(err, assets.ErrInvalidBasePath),
		errors.Is(err, assets.ErrInvalidAssetName),
		errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrConfig, err)
	case errors.Is(err, theme.ErrRead),
		errors.Is(err, pipeline.ErrImageRead),
		errors.Is(err, assets.ErrAssetRead),
		errors.Is(err, assets.ErrTemplateNotFound),
		errors.Is(err, assets.ErrScriptNotFound):
		return wrapError(ErrIO, err)
	case errors.Is(err, theme.ErrFetch),
		errors.Is(err, pipeline.ErrImageFetch):
		return wrapError(ErrFetch, err)
	case errors.Is(err, theme.ErrUnsupportedScheme):
		return wrapError(ErrUnsupported, err)
	case errors.Is(err, theme.ErrMinify),
		errors.Is(err, assets.ErrMinify),
		errors.Is(err, pipeline.ErrTemplate),
		errors.Is(err, pipeline.ErrImageDecode),
		errors.Is(err, pipeline.ErrHTMLConversion):
		return wrapError(ErrFormat, err)
	default:
		return err
	}
}

// wrapError creates a new error that wraps the original with a public sentinel.
// The resulting error preserves the original message via Error() and matches
// both the sentinel and the original chain with errors.Is().
func wrapError(sentinel, original error) error {
	return &wrappedError{sentinel: sentinel, original: original}
}

type wrappedError struct {
	sentinel error
	original error
}

func (e *wrappedError) Error() string {
	return e.original.Error()
}

func (e *wrappedError) Unwrap() []error {
	return []error{e.sentinel, e.original}
}
