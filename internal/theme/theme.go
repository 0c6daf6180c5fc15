package theme

import "fmt"

type sourceKind int

const (
	sourceNone sourceKind = iota
	sourceInline
	sourcePath
	sourceURL
)

// Source tells where a theme's CSS comes from. The zero value has no source.
type Source struct {
	kind  sourceKind
	value string
}

// Inline returns a Source holding the stylesheet text itself.
func Inline(css string) Source {
	return Source{kind: sourceInline, value: css}
}

// Path returns a Source reading the stylesheet from a file.
func Path(p string) Source {
	return Source{kind: sourcePath, value: p}
}

// URL returns a Source downloading the stylesheet over HTTP.
func URL(u string) Source {
	return Source{kind: sourceURL, value: u}
}

// IsZero reports whether s has no source.
func (s Source) IsZero() bool {
	return s.kind == sourceNone
}

// String describes the source for listings and logs. Inline text is elided.
func (s Source) String() string {
	switch s.kind {
	case sourceInline:
		return "inline"
	case sourcePath:
		return "path " + s.value
	case sourceURL:
		return "url " + s.value
	default:
		return "none"
	}
}

// Theme is a named stylesheet.
type Theme struct {
	Name   string
	Source Source
}

// String returns "name (source)".
func (t Theme) String() string {
	return fmt.Sprintf("%s (%s)", t.Name, t.Source)
}
