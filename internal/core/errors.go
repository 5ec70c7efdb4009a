package core

import (
	"errors"
	"fmt"
)

// Unit-level errors. These never escape a batch; they are recorded on the
// UnitOutcome of the line or row that produced them.
var (
	ErrNoPattern       = errors.New("line does not match the card pattern")
	ErrTooFewTokens    = errors.New("line has fewer than 3 tokens")
	ErrBadQuantity     = errors.New("invalid quantity")
	ErrEmptyRow        = errors.New("row is empty")
	ErrMalformedRow    = errors.New("malformed row")
	ErrUnsupportedCell = errors.New("unsupported cell value")
	ErrLineTooLong     = errors.New("line too long")
	ErrPriceOutOfRange = errors.New("price out of range")
)

// Request-level errors returned to callers.
var (
	ErrUnknownGameMode     = errors.New("unknown game mode")
	ErrUnknownProfile      = errors.New("unknown import profile")
	ErrMissingCatalogField = errors.New("catalog item missing required field")
	ErrNilOwner            = errors.New("owner id is required")
	ErrPasteTooLarge       = errors.New("paste too large")
	ErrNoDecoder           = errors.New("no table decoder configured")
	ErrNoCatalog           = errors.New("catalog sync is not configured")
	ErrCatalogUnavailable  = errors.New("catalog unavailable")
)

// UnitError describes why a single line or row was skipped.
type UnitError struct {
	Unit  int    // 1-based line or row number
	Field string // logical field, empty when the whole unit failed
	Value string // offending value, if any
	Err   error
}

func (e *UnitError) Error() string {
	switch {
	case e.Field != "" && e.Value != "":
		return fmt.Sprintf("unit %d: %s %q: %v", e.Unit, e.Field, e.Value, e.Err)
	case e.Field != "":
		return fmt.Sprintf("unit %d: %s: %v", e.Unit, e.Field, e.Err)
	default:
		return fmt.Sprintf("unit %d: %v", e.Unit, e.Err)
	}
}

func (e *UnitError) Unwrap() error { return e.Err }

func unitErr(unit int, field, value string, err error) *UnitError {
	return &UnitError{Unit: unit, Field: field, Value: value, Err: err}
}
