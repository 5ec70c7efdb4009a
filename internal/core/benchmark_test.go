package core

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// ============================================================================
// Coercion Benchmarks
// ============================================================================

// BenchmarkCoercePrice covers the price formats seen in vendor exports.
func BenchmarkCoercePrice(b *testing.B) {
	testCases := []any{
		"123",
		"$1,234.56",
		"(12.50)",
		"€4.10",
		`="0.25"`,
		19.99,
		"N/A",
	}
	def := decimal.Zero

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			CoercePrice(tc, def)
		}
	}
}

// BenchmarkCoerceQuantity covers numeric cells and decorated strings.
func BenchmarkCoerceQuantity(b *testing.B) {
	testCases := []any{"4", "4x", "Qty: 12", 3.0, 7, "", nil}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			CoerceQuantity(tc, DefaultQuantity)
		}
	}
}

// BenchmarkCleanHeader benchmarks header normalization, run once per column.
func BenchmarkCleanHeader(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CleanHeader("\ufeff  TCG   Market Price ")
	}
}

// ============================================================================
// Parser Benchmarks
// ============================================================================

// BenchmarkParsePaste_Magic benchmarks the bracketed grammar on a deck-sized list.
func BenchmarkParsePaste_Magic(b *testing.B) {
	text := generatePaste(100, "%dx Lightning Bolt [LEA] %d")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParsePaste(text, ModeMagic, Options{}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParsePaste_Pokemon benchmarks the positional grammar.
func BenchmarkParsePaste_Pokemon(b *testing.B) {
	text := generatePaste(100, "%dx Pikachu Base Set %d")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParsePaste(text, ModePokemon, Options{}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkImportTable_Large benchmarks the spreadsheet pipeline on 10k rows.
func BenchmarkImportTable_Large(b *testing.B) {
	table := generateTable(10000)
	profile := testProfile()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ImportTable(table, profile, Options{})
	}
}

// BenchmarkNewHeaderLookup benchmarks lookup construction for a wide sheet.
func BenchmarkNewHeaderLookup(b *testing.B) {
	headers := make([]string, 60)
	for i := range headers {
		headers[i] = fmt.Sprintf("  Column %d ", i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NewHeaderLookup(headers)
	}
}

// ============================================================================
// Parallel Benchmarks
// ============================================================================

// BenchmarkParsePasteParallel checks that concurrent parses share nothing.
func BenchmarkParsePasteParallel(b *testing.B) {
	text := generatePaste(50, "%dx Lightning Bolt [LEA] %d")
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = ParsePaste(text, ModeMagic, Options{})
		}
	})
}

// ============================================================================
// Helper Functions
// ============================================================================

// generatePaste builds n lines from a format taking quantity and number.
func generatePaste(n int, format string) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, format, i%4+1, i+1)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// generateTable builds a table shaped like a vendor export.
func generateTable(rows int) Table {
	t := Table{Headers: []string{"Product Name", "Set Name", "Number", "Condition", "TCG Market Price", "Quantity"}}
	for i := 0; i < rows; i++ {
		t.Rows = append(t.Rows, Row{
			"Product Name":     "Charizard",
			"Set Name":         "Base Set",
			"Number":           fmt.Sprintf("%03d", i%102+1),
			"Condition":        "Near Mint",
			"TCG Market Price": "$1,234.56",
			"Quantity":         float64(i%3 + 1),
		})
	}
	return t
}
