package assets

// Asset names used by the page assembler.
const (
	PageTemplateName = "page"
	ScriptName       = "script"
	WebSocketName    = "websocket"
)

// AssetLoader defines the contract for loading page templates and scripts.
type AssetLoader interface {
	// LoadTemplate loads a Handlebars template by name (without .hbs extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)

	// LoadScript loads a JavaScript file by name (without .js extension).
	// Returns ErrScriptNotFound if the script doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadScript(name string) (string, error)
}
