package assets

import (
	"fmt"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
)

// Registry holds the assets needed to assemble a page. It is built once and
// never modified, so it can be shared by concurrent renders.
type Registry struct {
	// PageTemplate is the Handlebars source of the page.
	PageTemplate string

	// Script is the minified client bootstrap.
	Script string

	// WebSocket is the minified reconnecting WebSocket client, included
	// only in live pages.
	WebSocket string
}

// NewRegistry loads the page template and scripts from loader and minifies
// the scripts.
func NewRegistry(loader AssetLoader) (*Registry, error) {
	page, err := loader.LoadTemplate(PageTemplateName)
	if err != nil {
		return nil, err
	}

	script, err := loadMinifiedScript(loader, ScriptName)
	if err != nil {
		return nil, err
	}

	websocket, err := loadMinifiedScript(loader, WebSocketName)
	if err != nil {
		return nil, err
	}

	return &Registry{
		PageTemplate: page,
		Script:       script,
		WebSocket:    websocket,
	}, nil
}

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	return NewRegistry(NewEmbeddedLoader())
})

// Default returns the registry built from embedded assets.
func Default() (*Registry, error) {
	return defaultRegistry()
}

func loadMinifiedScript(loader AssetLoader, name string) (string, error) {
	source, err := loader.LoadScript(name)
	if err != nil {
		return "", err
	}
	return MinifyJS(source)
}

var jsMinifier = sync.OnceValue(func() *minify.M {
	m := minify.New()
	m.AddFunc("application/javascript", js.Minify)
	return m
})

// MinifyJS minifies JavaScript source.
func MinifyJS(source string) (string, error) {
	out, err := jsMinifier().String("application/javascript", source)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMinify, err)
	}
	return out, nil
}
