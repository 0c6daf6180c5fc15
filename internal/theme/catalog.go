package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/alnah/go-marky/internal/assets"
	"github.com/alnah/go-marky/internal/yamlutil"
)

// DefaultName is the built-in theme used when none is requested.
const DefaultName = "github"

// ManifestFile is the name of the user manifest in the configuration directory.
const ManifestFile = "themes.yaml"

// Catalog is an ordered list of themes. Lookups return the first match.
type Catalog []Theme

var builtinCatalog = sync.OnceValue(func() Catalog {
	loader := assets.NewEmbeddedLoader()
	names := loader.ThemeNames()

	catalog := make(Catalog, 0, len(names))
	for _, name := range names {
		css, err := loader.LoadTheme(name)
		if err != nil {
			continue
		}
		t := Theme{Name: name, Source: Inline(css)}
		if name == DefaultName {
			catalog = append(Catalog{t}, catalog...)
			continue
		}
		catalog = append(catalog, t)
	}
	return catalog
})

// BuiltinCatalog returns the embedded themes, default first. The returned
// slice is a copy.
func BuiltinCatalog() Catalog {
	builtins := builtinCatalog()
	out := make(Catalog, len(builtins))
	copy(out, builtins)
	return out
}

// Default returns the first built-in theme.
func Default() Theme {
	return builtinCatalog()[0]
}

// LoadCatalog returns the user manifest entries followed by the built-in
// themes. A missing manifest yields the built-ins only.
func LoadCatalog(manifestPath string) (Catalog, error) {
	builtins := BuiltinCatalog()
	if manifestPath == "" {
		return builtins, nil
	}

	data, err := os.ReadFile(manifestPath) // #nosec G304 -- user-controlled path is intended
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return builtins, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	user, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", manifestPath, err)
	}

	return append(user, builtins...), nil
}

type manifest struct {
	Themes []manifestEntry `yaml:"themes"`
}

type manifestEntry struct {
	Name   string `yaml:"name"`
	Inline string `yaml:"inline"`
	Path   string `yaml:"path"`
	URL    string `yaml:"url"`
}

// ParseManifest parses a YAML manifest. Each entry needs a name and exactly
// one of inline, path or url.
func ParseManifest(data []byte) (Catalog, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var m manifest
	if err := yamlutil.UnmarshalStrict(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}

	catalog := make(Catalog, 0, len(m.Themes))
	for i, entry := range m.Themes {
		t, err := entry.theme()
		if err != nil {
			return nil, fmt.Errorf("%w: themes[%d]: %v", ErrManifest, i, err)
		}
		catalog = append(catalog, t)
	}
	return catalog, nil
}

func (e manifestEntry) theme() (Theme, error) {
	if strings.TrimSpace(e.Name) == "" {
		return Theme{}, errors.New("name is required")
	}

	var sources []Source
	if e.Inline != "" {
		sources = append(sources, Inline(e.Inline))
	}
	if e.Path != "" {
		sources = append(sources, Path(e.Path))
	}
	if e.URL != "" {
		sources = append(sources, URL(e.URL))
	}

	switch len(sources) {
	case 0:
		return Theme{}, fmt.Errorf("%q: one of inline, path or url is required", e.Name)
	case 1:
		return Theme{Name: e.Name, Source: sources[0]}, nil
	default:
		return Theme{}, fmt.Errorf("%q: inline, path and url are mutually exclusive", e.Name)
	}
}

// Lookup returns the first theme named name. Matching is case-sensitive.
func (c Catalog) Lookup(name string) (Theme, bool) {
	for _, t := range c {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// Find is Lookup returning ErrUnknownTheme for a missing name.
func (c Catalog) Find(name string) (Theme, error) {
	if t, ok := c.Lookup(name); ok {
		return t, nil
	}
	return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
}

// ClosestMatch returns the theme whose name has the smallest edit distance
// to name. Ties go to the earlier entry. It reports false for an empty
// catalog.
func (c Catalog) ClosestMatch(name string) (Theme, bool) {
	best := -1
	var match Theme
	for _, t := range c {
		d := levenshtein.ComputeDistance(name, t.Name)
		if best < 0 || d < best {
			best = d
			match = t
		}
	}
	return match, best >= 0
}

// Names returns the theme names in catalog order, keeping duplicates.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, t := range c {
		names[i] = t.Name
	}
	return names
}
