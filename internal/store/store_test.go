package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/tcgstock/internal/core"
)

// ---- inventoryRows Tests ----

func TestInventoryRows(t *testing.T) {
	owner := uuid.New()
	importID := uuid.New()
	rowID := uuid.New()

	records := []core.NormalizedRecord{{
		Game:          core.GamePokemon,
		SetIdentifier: "Base Set",
		Name:          "Charizard",
		Number:        "004",
		Condition:     "LP",
		Finish:        "Holo",
		UnitPrice:     decimal.RequireFromString("199.999"),
		Quantity:      2,
	}}

	rows := inventoryRows(owner, importID, records, func() uuid.UUID { return rowID })
	require.Len(t, rows, 1)
	row := rows[0]
	require.Len(t, row, len(inventoryColumns))

	assert.Equal(t, core.ToPgUUID(rowID), row[0])
	assert.Equal(t, core.ToPgUUID(owner), row[1])
	assert.Equal(t, core.ToPgUUID(importID), row[2])
	assert.Equal(t, "Charizard", row[5])
	assert.Equal(t, pgtype.Text{String: "004", Valid: true}, row[6])
	assert.Equal(t, int32(2), row[10])
	assert.False(t, row[11].(pgtype.Text).Valid, "empty location is NULL")

	price := row[9].(pgtype.Numeric)
	require.True(t, price.Valid)
	f, err := price.Float64Value()
	require.NoError(t, err)
	assert.Equal(t, 200.0, f.Float64)
}

func TestInsertRecords_NilOwner(t *testing.T) {
	s := &Store{}
	err := s.InsertRecords(context.Background(), uuid.Nil, uuid.New(), []core.NormalizedRecord{{Name: "x", Quantity: 1}})
	assert.ErrorIs(t, err, core.ErrNilOwner)
}

func TestInsertRecords_EmptyIsNoop(t *testing.T) {
	s := &Store{} // no pool; must not be touched
	assert.NoError(t, s.InsertRecords(context.Background(), uuid.New(), uuid.New(), nil))
}

// ---- CatalogStore Tests ----

// recordingDB captures statements and fails those containing failOn.
// SELECT EXISTS lookups answer exists.
type recordingDB struct {
	stmts  []string
	failOn string
	exists bool
}

func (d *recordingDB) record(sql string) error {
	d.stmts = append(d.stmts, strings.Join(strings.Fields(sql), " "))
	if d.failOn != "" && strings.Contains(sql, d.failOn) {
		return errors.New("duplicate key value violates unique constraint")
	}
	return nil
}

func (d *recordingDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if err := d.record(sql); err != nil {
		return pgconn.CommandTag{}, err
	}
	return pgconn.NewCommandTag("OK"), nil
}

func (d *recordingDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (d *recordingDB) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	return existsRow{exists: d.exists, err: d.record(sql)}
}

type existsRow struct {
	exists bool
	err    error
}

func (r existsRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*bool) = r.exists
	return nil
}

func TestCatalogStore_InsertUsesSavepoint(t *testing.T) {
	db := &recordingDB{}
	cs := NewCatalogStore(db)

	err := cs.Insert(context.Background(), core.CardReference{ID: "base1-4", Name: "Charizard", SetName: "Base", SetID: "base1", Number: "4"})
	require.NoError(t, err)
	require.Len(t, db.stmts, 3)
	assert.Equal(t, "SAVEPOINT sp_1", db.stmts[0])
	assert.True(t, strings.HasPrefix(db.stmts[1], "INSERT INTO card_references"))
	assert.Equal(t, "RELEASE SAVEPOINT sp_1", db.stmts[2])
}

func TestCatalogStore_InsertFailureRollsBackSavepoint(t *testing.T) {
	db := &recordingDB{failOn: "INSERT"}
	cs := NewCatalogStore(db)

	err := cs.Insert(context.Background(), core.CardReference{ID: "base1-4"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base1-4")
	assert.Equal(t, "ROLLBACK TO SAVEPOINT sp_1", db.stmts[len(db.stmts)-1])

	// The next insert gets a fresh savepoint name.
	db.failOn = ""
	require.NoError(t, cs.Insert(context.Background(), core.CardReference{ID: "base1-5"}))
	assert.Contains(t, db.stmts, "SAVEPOINT sp_2")
}

func TestCatalogStore_ExistsUsesSavepoint(t *testing.T) {
	db := &recordingDB{exists: true}
	cs := NewCatalogStore(db)

	exists, err := cs.Exists(context.Background(), "base1-4")
	require.NoError(t, err)
	assert.True(t, exists)
	require.Len(t, db.stmts, 3)
	assert.Equal(t, "SAVEPOINT sp_1", db.stmts[0])
	assert.True(t, strings.HasPrefix(db.stmts[1], "SELECT EXISTS"))
	assert.Equal(t, "RELEASE SAVEPOINT sp_1", db.stmts[2])
}

func TestCatalogStore_ExistsFailureRollsBackSavepoint(t *testing.T) {
	db := &recordingDB{failOn: "SELECT EXISTS"}
	cs := NewCatalogStore(db)

	_, err := cs.Exists(context.Background(), "base1-4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query card reference base1-4")
	assert.Equal(t, "ROLLBACK TO SAVEPOINT sp_1", db.stmts[len(db.stmts)-1])

	// The sync carries on with the next item.
	db.failOn = ""
	_, err = cs.Exists(context.Background(), "base1-5")
	require.NoError(t, err)
	require.NoError(t, cs.Insert(context.Background(), core.CardReference{ID: "base1-5"}))
	assert.Contains(t, db.stmts, "SAVEPOINT sp_3")
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS inventory_items")
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS card_references")
}
