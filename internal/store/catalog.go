package store

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/tcgstock/internal/core"
)

// CatalogStore reads and writes card references inside one transaction.
// Every statement runs under its own savepoint so one failed lookup or
// insert does not abort the surrounding sync.
type CatalogStore struct {
	db         DBTX
	savepoints int
}

// NewCatalogStore binds a CatalogStore to db, normally a pgx.Tx.
func NewCatalogStore(db DBTX) *CatalogStore {
	return &CatalogStore{db: db}
}

// Exists reports whether a reference with the catalog id is stored.
func (c *CatalogStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := c.savepoint(ctx, func() error {
		return c.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM card_references WHERE id = $1)`, id,
		).Scan(&exists)
	})
	if err != nil {
		return false, fmt.Errorf("query card reference %s: %w", id, err)
	}
	return exists, nil
}

// Insert stores a new reference. Existing rows are never updated.
func (c *CatalogStore) Insert(ctx context.Context, card core.CardReference) error {
	err := c.savepoint(ctx, func() error {
		_, err := c.db.Exec(ctx,
			`INSERT INTO card_references (id, name, set_name, set_id, number, image_url)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			card.ID, card.Name, card.SetName, card.SetID, card.Number, core.ToPgText(card.ImageURL),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert card reference %s: %w", card.ID, err)
	}
	return nil
}

// savepoint runs fn between SAVEPOINT and RELEASE, rolling back to the
// savepoint when fn fails.
func (c *CatalogStore) savepoint(ctx context.Context, fn func() error) error {
	c.savepoints++
	name := fmt.Sprintf("sp_%d", c.savepoints)
	if _, err := c.db.Exec(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("create savepoint: %w", err)
	}

	if err := fn(); err != nil {
		_, _ = c.db.Exec(ctx, "ROLLBACK TO SAVEPOINT "+name)
		return err
	}

	_, _ = c.db.Exec(ctx, "RELEASE SAVEPOINT "+name)
	return nil
}

var _ core.CatalogStore = (*CatalogStore)(nil)
