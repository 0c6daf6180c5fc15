// Package pipeline implements the Markdown-to-page rendering stages:
//   - Markdown to HTML fragment compilation via goldmark (GFM, footnotes,
//     raw HTML, optional math and server-side highlighting)
//   - Title extraction from the first heading
//   - Page assembly from a Handlebars template
//   - Image inlining as base64 data URIs
//   - Relative path rewriting for fixed-layout export
//
// PDF generation is handled separately by the root marky package using
// headless Chrome (go-rod).
package pipeline
