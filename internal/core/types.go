package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Record defaults applied when a field cannot be resolved.
const (
	DefaultName      = "Unknown"
	DefaultCondition = "NM"
	DefaultFinish    = "Normal"
	DefaultQuantity  = 1
)

// MaxUnitPrice is the largest price magnitude the inventory table can hold
// (NUMERIC(12,2)). Rows priced beyond it are skipped.
var MaxUnitPrice = decimal.RequireFromString("9999999999.99")

// Game labels written by the paste importer.
const (
	GameMagic   = "Magic: The Gathering"
	GamePokemon = "Pokemon TCG"
)

// GameMode selects the grammar used for pasted card lists.
// There is no auto-detection; callers always pass one explicitly.
type GameMode string

const (
	ModeMagic   GameMode = "magic"   // bracketed set code: "4x Lightning Bolt [LEA] 1"
	ModePokemon GameMode = "pokemon" // positional tokens: "2x Pikachu BS 58"
)

// ParseGameMode converts a user-supplied mode string to a GameMode.
func ParseGameMode(s string) (GameMode, error) {
	switch GameMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeMagic:
		return ModeMagic, nil
	case ModePokemon:
		return ModePokemon, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGameMode, s)
	}
}

// Game returns the category label stored on records parsed in this mode.
func (m GameMode) Game() string {
	switch m {
	case ModeMagic:
		return GameMagic
	case ModePokemon:
		return GamePokemon
	default:
		return ""
	}
}

// NormalizedRecord is one inventory line produced by any import path.
// Records carry no owner; the owner is supplied separately when persisting.
type NormalizedRecord struct {
	Game          string          `json:"game"`
	SetIdentifier string          `json:"set_identifier"`
	Name          string          `json:"name"`
	Number        string          `json:"number"`
	Condition     string          `json:"condition"`
	Finish        string          `json:"finish"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	Location      string          `json:"location"`
	ImageURL      string          `json:"image_url"`
}

// withDefaults returns a copy of r with the record invariants applied:
// a non-empty name, condition and finish, and a quantity of at least one.
func (r NormalizedRecord) withDefaults() NormalizedRecord {
	r.Game = strings.TrimSpace(r.Game)
	r.SetIdentifier = strings.TrimSpace(r.SetIdentifier)
	r.Number = strings.TrimSpace(r.Number)
	r.Location = strings.TrimSpace(r.Location)
	r.ImageURL = strings.TrimSpace(r.ImageURL)

	if r.Name = strings.TrimSpace(r.Name); r.Name == "" {
		r.Name = DefaultName
	}
	if r.Condition = strings.TrimSpace(r.Condition); r.Condition == "" {
		r.Condition = DefaultCondition
	}
	if r.Finish = strings.TrimSpace(r.Finish); r.Finish == "" {
		r.Finish = DefaultFinish
	}
	if r.Quantity < 1 {
		r.Quantity = DefaultQuantity
	}
	return r
}

// LineValue returns UnitPrice * Quantity.
func (r NormalizedRecord) LineValue() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
}

// TotalValue sums LineValue over records, rounded to cents.
func TotalValue(records []NormalizedRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.LineValue())
	}
	return total.Round(2)
}

// Row is one spreadsheet data row keyed by the sheet's original header text.
// Cells hold strings, numbers, or nil for missing values.
type Row map[string]any

// Table is a decoded spreadsheet: ordered headers plus data rows.
type Table struct {
	Headers []string
	Rows    []Row
}

// UnitOutcome records what happened to one input unit (a pasted line or a
// spreadsheet row). Exactly one of Record or Err is set.
type UnitOutcome struct {
	Unit   int    // 1-based line or row number
	Raw    string // original line text; empty for spreadsheet rows
	Record *NormalizedRecord
	Err    error
}

// OK reports whether the unit produced a record.
func (o UnitOutcome) OK() bool {
	return o.Err == nil && o.Record != nil
}

// FailureReport is the serializable form of a failed unit.
type FailureReport struct {
	Unit   int    `json:"unit"`
	Raw    string `json:"raw,omitempty"`
	Reason string `json:"reason"`
}

// PasteResult is the output of ParsePaste.
type PasteResult struct {
	Mode     GameMode
	Records  []NormalizedRecord
	Imported int // number of lines that produced a record
	Outcomes []UnitOutcome
}

// Failures returns the outcomes of lines that were skipped.
func (r PasteResult) Failures() []UnitOutcome {
	return failedOutcomes(r.Outcomes)
}

// SheetResult is the output of ImportTable.
type SheetResult struct {
	Profile       string
	Records       []NormalizedRecord
	QuantityTotal int // sum of record quantities, not a row count
	Outcomes      []UnitOutcome
}

// Failures returns the outcomes of rows that were skipped.
func (r SheetResult) Failures() []UnitOutcome {
	return failedOutcomes(r.Outcomes)
}

func failedOutcomes(outcomes []UnitOutcome) []UnitOutcome {
	var failed []UnitOutcome
	for _, o := range outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Reports converts failed outcomes to their serializable form.
func Reports(outcomes []UnitOutcome) []FailureReport {
	reports := make([]FailureReport, 0, len(outcomes))
	for _, o := range outcomes {
		if o.OK() {
			continue
		}
		reason := "no record produced"
		if o.Err != nil {
			reason = o.Err.Error()
		}
		reports = append(reports, FailureReport{Unit: o.Unit, Raw: o.Raw, Reason: reason})
	}
	return reports
}
