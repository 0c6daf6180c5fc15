package pipeline

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// DefaultTitle is used for documents without a heading.
const DefaultTitle = "Document"

// Titles are read with plain GFM: math delimiters stay in the text.
var titleParser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// ExtractTitle returns the plain text of the first heading, in document
// order, at any depth.
func ExtractTitle(source string) (string, bool) {
	src := []byte(source)
	doc := titleParser.Parse(text.NewReader(src))

	var heading ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n.Kind() == ast.KindHeading {
			heading = n
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if heading == nil {
		return "", false
	}

	var sb strings.Builder
	writePlainText(&sb, heading, src)
	return strings.TrimSpace(sb.String()), true
}

// TitleOrDefault returns ExtractTitle or DefaultTitle.
func TitleOrDefault(source string) string {
	if title, ok := ExtractTitle(source); ok {
		return title
	}
	return DefaultTitle
}

func writePlainText(sb *strings.Builder, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		case *ast.AutoLink:
			sb.Write(v.Label(source))
		case *ast.RawHTML:
			continue
		default:
			writePlainText(sb, c, source)
		}
	}
}
