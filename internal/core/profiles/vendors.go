package profiles

import "github.com/JonMunkholm/tcgstock/internal/core"

// registerTCGplayer maps the TCGplayer seller inventory export. "Add to
// Quantity" comes first: sellers fill it in while "Total Quantity" often
// holds 0 for listings they have not stocked yet.
func registerTCGplayer() {
	core.RegisterProfile(core.Profile{
		Key:   "tcgplayer",
		Label: "TCGplayer inventory export",

		Game:      []string{"product line"},
		Set:       []string{"set name"},
		Name:      []string{"product name"},
		Number:    []string{"number"},
		Condition: []string{"condition"},
		Finish:    []string{"printing"},
		Price:     []string{"tcg marketplace price", "tcg market price", "tcg low price"},
		Quantity:  []string{"add to quantity", "total quantity"},
		Image:     []string{"photo url"},
	}.Inherit(Generic))
}

// registerManaBox maps the ManaBox collection export, which is Magic only.
func registerManaBox() {
	core.RegisterProfile(core.Profile{
		Key:         "manabox",
		Label:       "ManaBox collection export",
		DefaultGame: core.GameMagic,

		Set:       []string{"set code", "set name"},
		Name:      []string{"name"},
		Number:    []string{"collector number"},
		Condition: []string{"condition"},
		Finish:    []string{"foil"},
		Price:     []string{"purchase price"},
		Quantity:  []string{"quantity"},
		Location:  []string{"binder name", "binder"},
	}.Inherit(Generic))
}
