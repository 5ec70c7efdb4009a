package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/tcgstock/internal/core"
)

var inventoryColumns = []string{
	"id", "owner_id", "import_id", "game", "set_identifier", "name", "number",
	"condition", "finish", "unit_price", "quantity", "location", "image_url",
}

// InsertRecords writes every record for owner in one transaction using COPY.
// Either all records are stored or none are.
func (s *Store) InsertRecords(ctx context.Context, owner, importID uuid.UUID, records []core.NormalizedRecord) error {
	if owner == uuid.Nil {
		return core.ErrNilOwner
	}
	if len(records) == 0 {
		return nil
	}

	rows := inventoryRows(owner, importID, records, uuid.New)
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"inventory_items"}, inventoryColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("copy inventory rows: %w", err)
		}
		if int(n) != len(rows) {
			return fmt.Errorf("copy inventory rows: wrote %d of %d", n, len(rows))
		}
		return nil
	})
}

// inventoryRows converts records to COPY rows in inventoryColumns order.
func inventoryRows(owner, importID uuid.UUID, records []core.NormalizedRecord, newID func() uuid.UUID) [][]any {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{
			core.ToPgUUID(newID()),
			core.ToPgUUID(owner),
			core.ToPgUUID(importID),
			core.ToPgText(r.Game),
			core.ToPgText(r.SetIdentifier),
			r.Name,
			core.ToPgText(r.Number),
			r.Condition,
			r.Finish,
			core.ToPgNumeric(r.UnitPrice.Round(2)),
			int32(r.Quantity),
			core.ToPgText(r.Location),
			core.ToPgText(r.ImageURL),
		})
	}
	return rows
}
