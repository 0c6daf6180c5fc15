// Package theme resolves named stylesheets for rendered pages.
//
// A Theme pairs a name with exactly one Source: inline CSS text, a file path
// (relative paths are resolved against the configuration directory) or a
// URL fetched over HTTP. Resolved CSS is always minified.
//
// The Catalog lists themes in lookup order: entries of the user manifest
// ({configDir}/themes.yaml) first, then the built-in themes embedded in the
// binary with "github" first. A user entry therefore shadows a built-in
// theme of the same name.
package theme
