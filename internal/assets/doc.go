// Package assets provides the page template, client scripts and built-in
// themes used to assemble standalone HTML pages.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (defaults)
//	    ├── FilesystemLoader  - loads from a directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// Registry is built once from a loader: it holds the parsed page template
// and the minified client scripts, and is read-only afterwards.
//
// # Directory Structure
//
// Overrides live in the configuration directory:
//
//	{basePath}/
//	├── templates/
//	│   └── page.hbs      # Handlebars page template
//	└── scripts/
//	    ├── script.js     # Client bootstrap (math, diagrams, live updates)
//	    └── websocket.js  # Reconnecting WebSocket client
//
// Built-in themes are embedded as themes/{name}.css and are not
// overridable here; user themes go through the theme manifest.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
