// Package profiles registers the built-in spreadsheet import profiles with
// the core registry and loads extra profiles from YAML.
// Import this package to ensure all profiles are registered.
package profiles

import "github.com/JonMunkholm/tcgstock/internal/core"

func init() {
	core.RegisterProfile(Generic)
	registerTCGplayer()
	registerManaBox()
}
