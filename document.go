package marky

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-marky/internal/pipeline"
	"github.com/alnah/go-marky/internal/theme"
)

// Theme is a named stylesheet with exactly one source.
type Theme = theme.Theme

// ThemeSource tells where a theme's CSS comes from.
type ThemeSource = theme.Source

// ThemeCatalog is the ordered list of available themes.
type ThemeCatalog = theme.Catalog

// InlineTheme returns a theme whose CSS is css.
func InlineTheme(name, css string) Theme {
	return Theme{Name: name, Source: theme.Inline(css)}
}

// PathTheme returns a theme read from a file. Relative paths are resolved
// against the configuration directory.
func PathTheme(name, path string) Theme {
	return Theme{Name: name, Source: theme.Path(path)}
}

// URLTheme returns a theme downloaded over HTTP.
func URLTheme(name, url string) Theme {
	return Theme{Name: name, Source: theme.URL(url)}
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return theme.Default()
}

// LoadThemes returns the catalog: entries of {configDir}/themes.yaml first,
// then the built-in themes. A missing manifest is not an error.
func LoadThemes(configDir string) (ThemeCatalog, error) {
	manifest := ""
	if configDir != "" {
		manifest = filepath.Join(configDir, theme.ManifestFile)
	}
	catalog, err := theme.LoadCatalog(manifest)
	if err != nil {
		return nil, convertError(err)
	}
	return catalog, nil
}

// ImageInclusion selects which images are embedded as data URIs.
type ImageInclusion int

const (
	// IncludeNone leaves every image reference as is.
	IncludeNone ImageInclusion = iota
	// IncludeLocal embeds images read from disk.
	IncludeLocal
	// IncludeRemote embeds images downloaded over the network.
	IncludeRemote
	// IncludeAll embeds both.
	IncludeAll
)

var imageInclusionNames = map[ImageInclusion]string{
	IncludeNone:   "none",
	IncludeLocal:  "local",
	IncludeRemote: "remote",
	IncludeAll:    "all",
}

func (i ImageInclusion) String() string {
	if name, ok := imageInclusionNames[i]; ok {
		return name
	}
	return fmt.Sprintf("ImageInclusion(%d)", int(i))
}

// ParseImageInclusion parses "none", "local", "remote" or "all". The empty
// string is "none".
func ParseImageInclusion(s string) (ImageInclusion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return IncludeNone, nil
	case "local":
		return IncludeLocal, nil
	case "remote":
		return IncludeRemote, nil
	case "all":
		return IncludeAll, nil
	default:
		return IncludeNone, fmt.Errorf("%w: image inclusion %q (want none, local, remote or all)", ErrConfig, s)
	}
}

func (i ImageInclusion) policy() pipeline.InlinePolicy {
	return pipeline.InlinePolicy{
		Local:  i == IncludeLocal || i == IncludeAll,
		Remote: i == IncludeRemote || i == IncludeAll,
	}
}

// RenderOptions controls how a document is rendered. The zero value renders
// with no theme source, which fails; set Theme.
type RenderOptions struct {
	Theme Theme

	// Highlight enables server-side syntax highlighting of fenced code.
	Highlight bool

	// Math enables $...$ and $$ math, typeset in the browser by KaTeX.
	Math bool

	// Diagrams loads mermaid for ```mermaid blocks.
	Diagrams bool

	// Live includes the WebSocket client that receives body updates.
	Live bool

	// Images selects which img references are embedded.
	Images ImageInclusion

	// OptimizeImages re-encodes embedded raster images with maximum
	// compression.
	OptimizeImages bool

	// PDF exports the assembled page with headless Chrome.
	PDF bool
}

// Document is an immutable Markdown text with its render options.
type Document struct {
	text      string
	options   RenderOptions
	sourceDir string
}

// NewDocument creates a Document.
func NewDocument(text string, opts RenderOptions) Document {
	return Document{text: text, options: opts}
}

// WithSourceDir returns a copy of d whose relative image and link paths
// resolve against dir.
func (d Document) WithSourceDir(dir string) Document {
	d.sourceDir = dir
	return d
}

// Text returns the Markdown source.
func (d Document) Text() string { return d.text }

// Options returns the render options.
func (d Document) Options() RenderOptions { return d.options }

// SourceDir returns the directory relative paths resolve against.
func (d Document) SourceDir() string { return d.sourceDir }
