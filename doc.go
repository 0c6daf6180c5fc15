// Package marky renders Markdown documents to standalone HTML pages or PDF.
//
// # Quick Start
//
// Create a renderer, build a document and render it:
//
//	r, err := marky.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	doc := marky.NewDocument("# Hello\n\nWorld", marky.RenderOptions{
//	    Theme:     marky.DefaultTheme(),
//	    Highlight: true,
//	})
//	page, err := r.Render(ctx, doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("hello.html", page, 0644)
//
// # Rendering Pipeline
//
// Render runs these stages:
//
//  1. Theme resolution (inline CSS, file, or URL; always minified)
//  2. Markdown to HTML via goldmark (GFM, footnotes, raw HTML, optional
//     math and chroma highlighting)
//  3. Optional image inlining as base64 data URIs
//  4. Page assembly from a Handlebars template
//  5. Optional PDF export via headless Chrome (go-rod)
//
// RenderBody stops after stage 3 and is used by live preview, which only
// replaces the page body.
//
// # Themes
//
// Themes come from the catalog: entries of {configDir}/themes.yaml first,
// then the built-in themes. Use LoadThemes to read it and Lookup or
// ClosestMatch to pick one.
//
// # Errors
//
// Every error returned by this package wraps one of ErrConfig, ErrIO,
// ErrFormat, ErrFetch, ErrEncoding, ErrUnsupported or ErrExport. KindOf
// classifies an error.
package marky
