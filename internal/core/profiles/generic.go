package profiles

import "github.com/JonMunkholm/tcgstock/internal/core"

// Generic covers hand-made sheets and exports without a dedicated profile.
// Aliases run from most specific to most generic so a sheet carrying both
// "Product Name" and "Name" prefers the former. Vendor profiles and YAML
// profiles inherit any field they leave out from here.
var Generic = core.Profile{
	Key:   core.DefaultProfileKey,
	Label: "Generic spreadsheet",

	Game:      []string{"game", "product line", "category", "tcg"},
	Set:       []string{"set code", "set id", "set", "set name", "edition", "expansion"},
	Name:      []string{"card name", "product name", "name", "card", "title"},
	Number:    []string{"collector number", "card number", "number", "no.", "#"},
	Condition: []string{"condition", "cond", "grade"},
	Finish:    []string{"finish", "printing", "foil", "variant"},
	Price:     []string{"unit price", "tcg market price", "market price", "price", "purchase price", "value"},
	Quantity:  []string{"add to quantity", "quantity", "qty", "total quantity", "count", "amount"},
	Location:  []string{"location", "storage", "binder", "box"},
	Image:     []string{"image url", "image", "photo url", "img"},
}
