package theme

import "errors"

// Sentinel errors for theme operations.
var (
	// ErrNoSource indicates a theme without inline text, path or URL.
	ErrNoSource = errors.New("theme has no source")

	// ErrUnknownTheme indicates a name not present in the catalog.
	ErrUnknownTheme = errors.New("unknown theme")

	// ErrManifest indicates an invalid theme manifest.
	ErrManifest = errors.New("invalid theme manifest")

	// ErrRead indicates a theme file could not be read.
	ErrRead = errors.New("failed to read theme")

	// ErrFetch indicates a remote theme could not be downloaded.
	ErrFetch = errors.New("failed to fetch theme")

	// ErrUnsupportedScheme indicates a URL source that is not http or https.
	ErrUnsupportedScheme = errors.New("unsupported theme URL scheme")

	// ErrMinify indicates the stylesheet could not be minified.
	ErrMinify = errors.New("failed to minify theme")
)
