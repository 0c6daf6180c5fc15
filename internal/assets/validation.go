package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks a bare asset name such as a theme ("nord"), the
// page template ("page") or a client script ("websocket"). Loaders append
// the extension themselves, so a name holding a dot or a path separator
// could escape themes/, templates/ or scripts/ and is rejected with
// ErrInvalidAssetName.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case strings.ContainsAny(name, `/\.`):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
