package pipeline

import (
	"fmt"

	"github.com/aymerick/raymond"
)

// PageData is the template context of an assembled page.
type PageData struct {
	Title     string
	Style     string
	Body      string
	Script    string
	WebSocket string
	Highlight bool
	Math      bool
	Diagrams  bool
	Live      bool
}

// PageAssembler renders PageData with a parsed Handlebars template.
// It is safe for concurrent use.
type PageAssembler struct {
	tpl *raymond.Template
}

// NewPageAssembler parses the page template.
func NewPageAssembler(source string) (*PageAssembler, error) {
	tpl, err := raymond.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return &PageAssembler{tpl: tpl}, nil
}

// Assemble renders a complete HTML page. The reconnecting client is only
// included in live pages.
func (a *PageAssembler) Assemble(data PageData) (string, error) {
	ctx := map[string]any{
		"title":     data.Title,
		"style":     raymond.SafeString(data.Style),
		"body":      raymond.SafeString(data.Body),
		"script":    raymond.SafeString(data.Script),
		"highlight": data.Highlight,
		"math":      data.Math,
		"diagrams":  data.Diagrams,
		"live":      data.Live,
	}
	if data.Live {
		ctx["websocket"] = raymond.SafeString(data.WebSocket)
	}

	out, err := a.tpl.Exec(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return out, nil
}
