package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/tcgstock/internal/logging"
)

// CatalogItem is one card as delivered by the reference catalog.
// Nested objects stay nil when the payload omits them.
type CatalogItem struct {
	ID     string
	Name   string
	Number *string
	Set    *CatalogSet
	Images *CatalogImages
}

// CatalogSet identifies the expansion a catalog card belongs to.
type CatalogSet struct {
	ID   string
	Name string
}

// CatalogImages holds the catalog's image links.
type CatalogImages struct {
	Small string
	Large string
}

// CardReference is a canonical catalog card stored for lookups.
type CardReference struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SetName  string `json:"set_name"`
	SetID    string `json:"set_id"`
	Number   string `json:"number"`
	ImageURL string `json:"image_url,omitempty"`
}

// CatalogStore is the persistence side of reference-data sync.
// Implementations are bound to the caller's transaction.
type CatalogStore interface {
	Exists(ctx context.Context, id string) (bool, error)
	Insert(ctx context.Context, card CardReference) error
}

// NewCardReference builds a reference from a catalog item. The id, name,
// number and set are required; the image is optional.
func NewCardReference(item CatalogItem) (CardReference, error) {
	id := strings.TrimSpace(item.ID)
	switch {
	case id == "":
		return CardReference{}, fmt.Errorf("%w: id", ErrMissingCatalogField)
	case strings.TrimSpace(item.Name) == "":
		return CardReference{}, fmt.Errorf("%w: name (%s)", ErrMissingCatalogField, id)
	case item.Number == nil:
		return CardReference{}, fmt.Errorf("%w: number (%s)", ErrMissingCatalogField, id)
	case item.Set == nil:
		return CardReference{}, fmt.Errorf("%w: set (%s)", ErrMissingCatalogField, id)
	}

	ref := CardReference{
		ID:      id,
		Name:    strings.TrimSpace(item.Name),
		SetName: item.Set.Name,
		SetID:   item.Set.ID,
		Number:  *item.Number,
	}
	if item.Images != nil {
		ref.ImageURL = item.Images.Small
	}
	return ref, nil
}

// ItemFailure names a catalog item that was skipped.
type ItemFailure struct {
	ID  string
	Err error
}

// ReconcileResult counts what happened to each catalog item.
type ReconcileResult struct {
	Staged   int // new references handed to the store
	Existing int // already present, left untouched
	Failures []ItemFailure
}

// Reconcile stages a CardReference for every item whose ID is not yet in the
// store and skips the rest. Existing references are never modified. A lookup,
// construction or insert failure skips that item only. Cancelling ctx stops
// the batch and returns ctx.Err() with the counts so far.
func Reconcile(ctx context.Context, store CatalogStore, items []CatalogItem) (ReconcileResult, error) {
	var result ReconcileResult
	log := logging.FromContext(ctx)

	// IDs staged earlier in this batch, so duplicates inside one payload
	// are counted as existing even before the store sees them.
	staged := make(map[string]bool)

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		ref, err := NewCardReference(item)
		if err != nil {
			result.fail(log, item.ID, err)
			continue
		}
		if staged[ref.ID] {
			result.Existing++
			continue
		}

		exists, err := store.Exists(ctx, ref.ID)
		if err != nil {
			result.fail(log, ref.ID, fmt.Errorf("lookup: %w", err))
			continue
		}
		if exists {
			result.Existing++
			continue
		}

		if err := store.Insert(ctx, ref); err != nil {
			result.fail(log, ref.ID, fmt.Errorf("insert: %w", err))
			continue
		}
		staged[ref.ID] = true
		result.Staged++
	}
	return result, nil
}

func (r *ReconcileResult) fail(log *slog.Logger, id string, err error) {
	log.Debug("catalog item skipped", "catalog_id", id, "reason", err)
	r.Failures = append(r.Failures, ItemFailure{ID: id, Err: err})
}
