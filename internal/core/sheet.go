package core

import (
	"fmt"
)

// ImportTable converts decoded spreadsheet rows into records using the
// profile's alias table. Rows that fail are skipped and recorded in the
// result's outcomes; a row either produces a complete record or nothing.
func ImportTable(table Table, profile Profile, opts Options) SheetResult {
	log := opts.logger()
	lookup := NewHeaderLookup(table.Headers)

	game := profile.DefaultGame
	if game == "" {
		game = opts.DefaultGame
	}

	result := SheetResult{Profile: profile.Key}
	for i, row := range table.Rows {
		unit := i + 1
		rec, err := importRow(lookup, profile, game, row, unit)
		if err != nil {
			log.Debug("sheet row skipped", "row", unit, "profile", profile.Key, "reason", err)
			result.Outcomes = append(result.Outcomes, UnitOutcome{Unit: unit, Err: err})
			continue
		}
		result.Records = append(result.Records, rec)
		result.Outcomes = append(result.Outcomes, UnitOutcome{Unit: unit})
		result.QuantityTotal += rec.Quantity
	}

	relinkOutcomes(result.Outcomes, result.Records)
	return result
}

func importRow(lookup HeaderLookup, p Profile, game string, row Row, unit int) (rec NormalizedRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = unitErr(unit, "", "", fmt.Errorf("%w: %v", ErrMalformedRow, r))
		}
	}()

	if row == nil {
		return rec, unitErr(unit, "", "", ErrMalformedRow)
	}
	if rowIsBlank(row) {
		return rec, unitErr(unit, "", "", ErrEmptyRow)
	}

	text := func(field string, aliases []string, def string) (string, error) {
		raw, ok := lookup.Lookup(row, aliases)
		if !ok {
			return def, nil
		}
		s, err := cellText(raw)
		if err != nil {
			return "", unitErr(unit, field, "", err)
		}
		return s, nil
	}

	fields := []struct {
		name    string
		aliases []string
		def     string
		dst     *string
	}{
		{"game", p.Game, game, &rec.Game},
		{"set", p.Set, "", &rec.SetIdentifier},
		{"name", p.Name, DefaultName, &rec.Name},
		{"number", p.Number, "", &rec.Number},
		{"condition", p.Condition, DefaultCondition, &rec.Condition},
		{"finish", p.Finish, DefaultFinish, &rec.Finish},
		{"location", p.Location, "", &rec.Location},
		{"image", p.Image, "", &rec.ImageURL},
	}
	for _, f := range fields {
		if *f.dst, err = text(f.name, f.aliases, f.def); err != nil {
			return NormalizedRecord{}, err
		}
	}

	if raw, ok := lookup.Lookup(row, p.Price); ok {
		if _, err := cellText(raw); err != nil {
			return NormalizedRecord{}, unitErr(unit, "price", "", err)
		}
		rec.UnitPrice = CoercePrice(raw, rec.UnitPrice)
		if rec.UnitPrice.Round(2).Abs().GreaterThan(MaxUnitPrice) {
			return NormalizedRecord{}, unitErr(unit, "price", rec.UnitPrice.String(), ErrPriceOutOfRange)
		}
	}

	qty, err := lookup.resolveQuantity(row, p.Quantity, DefaultQuantity)
	if err != nil {
		return NormalizedRecord{}, unitErr(unit, "quantity", "", err)
	}
	rec.Quantity = qty

	return rec.withDefaults(), nil
}

func rowIsBlank(row Row) bool {
	for _, v := range row {
		if !isBlank(v) {
			return false
		}
	}
	return true
}
