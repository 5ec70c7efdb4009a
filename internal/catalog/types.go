package catalog

import "github.com/JonMunkholm/tcgstock/internal/core"

// cardsResponse is the body of GET /cards.
// Data is a pointer so a missing "data" key can be told apart from an
// empty page.
type cardsResponse struct {
	Data       *[]apiCard `json:"data"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	Count      int        `json:"count"`
	TotalCount int        `json:"totalCount"`
}

type apiCard struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Number *string    `json:"number"`
	Set    *apiSet    `json:"set"`
	Images *apiImages `json:"images"`
}

type apiSet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type apiImages struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

// toItem keeps absent nested objects nil so the reconciler can reject them.
func (c apiCard) toItem() core.CatalogItem {
	item := core.CatalogItem{
		ID:     c.ID,
		Name:   c.Name,
		Number: c.Number,
	}
	if c.Set != nil {
		item.Set = &core.CatalogSet{ID: c.Set.ID, Name: c.Set.Name}
	}
	if c.Images != nil {
		item.Images = &core.CatalogImages{Small: c.Images.Small, Large: c.Images.Large}
	}
	return item
}
