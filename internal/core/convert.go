package core

// convert.go turns raw cells and tokens into typed record values.
//
// Cells arrive in whatever shape the decoder produced: strings from CSV,
// numbers from spreadsheets or JSON, nil when a column is missing. The
// exported Coerce* functions never fail; they fall back to the supplied
// default. The unexported helpers return errors so the pipeline can record
// why a unit was skipped.

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// numericRegex validates a price string after currency cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// CoerceQuantity converts a raw cell to a positive quantity.
// Numbers are truncated. Strings have every non-digit removed first, so
// "4x", "4 units" and "Qty: 4" all yield 4. Absent, unparsable and
// non-positive values return def.
func CoerceQuantity(raw any, def int) int {
	n, err := parseQuantity(raw)
	if err != nil {
		return def
	}
	return n
}

// parseQuantity is CoerceQuantity with the failure reason.
func parseQuantity(raw any) (int, error) {
	var n int64
	switch v := raw.(type) {
	case nil:
		return 0, ErrBadQuantity
	case string:
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, v)
		if digits == "" {
			return 0, ErrBadQuantity
		}
		parsed, err := strconv.ParseInt(digits, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBadQuantity, err)
		}
		n = parsed
	case float64:
		f, err := truncFloat(v)
		if err != nil {
			return 0, err
		}
		n = f
	case float32:
		f, err := truncFloat(float64(v))
		if err != nil {
			return 0, err
		}
		n = f
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint32:
		n = int64(v)
	case json.Number:
		return parseQuantity(v.String())
	case decimal.Decimal:
		n = v.IntPart()
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedCell, raw)
	}

	if n <= 0 {
		return 0, fmt.Errorf("%w: %d is not positive", ErrBadQuantity, n)
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d is out of range", ErrBadQuantity, n)
	}
	return int(n), nil
}

func truncFloat(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, ErrBadQuantity
	}
	return int64(math.Trunc(f)), nil
}

// CoercePrice converts a raw cell to a decimal price.
// "$" and "," are stripped before parsing, as are the euro and pound signs.
// Accounting negatives like "(12.50)" are honored; negative values are kept.
// Any failure returns def.
func CoercePrice(raw any, def decimal.Decimal) decimal.Decimal {
	d, err := parsePrice(raw)
	if err != nil {
		return def
	}
	return d
}

func parsePrice(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero, fmt.Errorf("invalid number: empty")
	case decimal.Decimal:
		return v, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, fmt.Errorf("invalid number: %v", v)
		}
		return decimal.NewFromFloat(v), nil
	case float32:
		return parsePrice(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case json.Number:
		return parsePrice(v.String())
	case string:
		s := cleanNumber(v)
		if !numericRegex.MatchString(s) {
			return decimal.Zero, fmt.Errorf("invalid number: %q", v)
		}
		return decimal.NewFromString(s)
	default:
		return decimal.Zero, fmt.Errorf("%w: %T", ErrUnsupportedCell, raw)
	}
}

// cleanNumber removes currency symbols and thousands separators and turns the
// accounting format "(123.45)" into "-123.45".
func cleanNumber(s string) string {
	s = strings.TrimSpace(CleanCell(s))

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}
	return s
}

// CoerceString returns the trimmed text of raw, or def when raw is absent.
// An empty string is returned as-is; the column resolver is what skips blanks.
func CoerceString(raw any, def string) string {
	if raw == nil {
		return def
	}
	s, err := cellText(raw)
	if err != nil {
		return strings.TrimSpace(fmt.Sprint(raw))
	}
	return s
}

// cellText renders a cell as trimmed text. Integral floats print without a
// fractional part so a spreadsheet number 58 becomes "58".
func cellText(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return CleanCell(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case json.Number:
		return v.String(), nil
	case decimal.Decimal:
		return v.String(), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedCell, raw)
	}
}

// isBlank reports whether a cell counts as empty for column resolution.
func isBlank(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return CleanCell(v) == ""
	default:
		return false
	}
}

// CleanCell removes spreadsheet artifacts from a cell value:
// surrounding whitespace and the Excel text-formula wrapper ="...".
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = strings.TrimSpace(s[2 : len(s)-1])
	}
	return s
}

// CleanHeader normalizes a header or alias for lookup: Excel wrappers and
// quotes removed, lowercased, inner whitespace collapsed to single spaces.
func CleanHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = CleanCell(s)
	if strings.HasPrefix(s, "=") {
		s = s[1:]
	}
	s = strings.Trim(s, `"'`)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return unicode.ToLower(r)
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgNumeric converts a decimal to pgtype.Numeric.
func ToPgNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	if err := n.Scan(d.String()); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}

// ToPgUUID converts a uuid.UUID to pgtype.UUID. The nil UUID is invalid.
func ToPgUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: id, Valid: true}
}
