package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParsePaste_Magic(t *testing.T) {
	tests := []struct {
		name string
		line string
		want NormalizedRecord
	}{
		{
			name: "full line",
			line: "4x Lightning Bolt [LEA] 1",
			want: NormalizedRecord{Quantity: 4, Name: "Lightning Bolt", SetIdentifier: "LEA", Number: "1"},
		},
		{
			name: "quantity without x",
			line: "2 Counterspell [7ED] 67",
			want: NormalizedRecord{Quantity: 2, Name: "Counterspell", SetIdentifier: "7ED", Number: "67"},
		},
		{
			name: "parenthesized set",
			line: "1x Sol Ring (C21) 263",
			want: NormalizedRecord{Quantity: 1, Name: "Sol Ring", SetIdentifier: "C21", Number: "263"},
		},
		{
			name: "missing number",
			line: "3x Dark Ritual [LEA]",
			want: NormalizedRecord{Quantity: 3, Name: "Dark Ritual", SetIdentifier: "LEA", Number: ""},
		},
		{
			name: "missing quantity means one copy",
			line: "Black Lotus [LEA] 232",
			want: NormalizedRecord{Quantity: 1, Name: "Black Lotus", SetIdentifier: "LEA", Number: "232"},
		},
		{
			name: "alphanumeric collector number",
			line: "1x Forest [UNH] 140a",
			want: NormalizedRecord{Quantity: 1, Name: "Forest", SetIdentifier: "UNH", Number: "140a"},
		},
		{
			name: "name with punctuation",
			line: "1x Jace, the Mind Sculptor [WWK] 31",
			want: NormalizedRecord{Quantity: 1, Name: "Jace, the Mind Sculptor", SetIdentifier: "WWK", Number: "31"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParsePaste(tt.line, ModeMagic, Options{})
			if err != nil {
				t.Fatalf("ParsePaste() error = %v", err)
			}
			if res.Imported != 1 || len(res.Records) != 1 {
				t.Fatalf("Imported = %d, records = %d, want 1", res.Imported, len(res.Records))
			}
			got := res.Records[0]
			if got.Quantity != tt.want.Quantity || got.Name != tt.want.Name ||
				got.SetIdentifier != tt.want.SetIdentifier || got.Number != tt.want.Number {
				t.Errorf("record = %+v, want %+v", got, tt.want)
			}
			if got.Game != GameMagic {
				t.Errorf("Game = %q, want %q", got.Game, GameMagic)
			}
			if got.Condition != DefaultCondition || got.Finish != DefaultFinish {
				t.Errorf("defaults not applied: %+v", got)
			}
			if !got.UnitPrice.Equal(decimal.Zero) {
				t.Errorf("UnitPrice = %s, want 0", got.UnitPrice)
			}
		})
	}
}

func TestParsePaste_MagicSkipsNonMatching(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"no set code", "4x Lightning Bolt"},
		{"set code too short", "4x Lightning Bolt [LE] 1"},
		{"mismatched brackets", "4x Lightning Bolt [LEA) 1"},
		{"set code only", "[LEA]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParsePaste(tt.line, ModeMagic, Options{})
			if err != nil {
				t.Fatalf("ParsePaste() error = %v", err)
			}
			if res.Imported != 0 || len(res.Records) != 0 {
				t.Fatalf("expected no records, got %+v", res.Records)
			}
			failures := res.Failures()
			if len(failures) != 1 || !errors.Is(failures[0].Err, ErrNoPattern) {
				t.Errorf("failures = %+v, want one ErrNoPattern", failures)
			}
		})
	}
}

func TestParsePaste_Pokemon(t *testing.T) {
	tests := []struct {
		name string
		line string
		want NormalizedRecord
	}{
		{
			name: "quantity with x",
			line: "2x Pikachu BS 58",
			want: NormalizedRecord{Quantity: 2, Name: "Pikachu", SetIdentifier: "BS", Number: "58"},
		},
		{
			name: "bare quantity",
			line: "3 Dark Charizard TR 4",
			want: NormalizedRecord{Quantity: 3, Name: "Dark Charizard", SetIdentifier: "TR", Number: "4"},
		},
		{
			name: "no quantity",
			line: "Mewtwo BS 10",
			want: NormalizedRecord{Quantity: 1, Name: "Mewtwo", SetIdentifier: "BS", Number: "10"},
		},
		{
			// A multi-word set name cannot be told apart from the card name:
			// only the last word is taken as the set.
			name: "multi word set is ambiguous",
			line: "2x Pikachu Base Set 58",
			want: NormalizedRecord{Quantity: 2, Name: "Pikachu Base", SetIdentifier: "Set", Number: "58"},
		},
		{
			name: "two tokens after quantity gives unknown name",
			line: "2x BS 58",
			want: NormalizedRecord{Quantity: 2, Name: DefaultName, SetIdentifier: "BS", Number: "58"},
		},
		{
			name: "extra whitespace collapsed in name",
			line: "  1x   Mr.   Mime   JU   6  ",
			want: NormalizedRecord{Quantity: 1, Name: "Mr. Mime", SetIdentifier: "JU", Number: "6"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParsePaste(tt.line, ModePokemon, Options{})
			if err != nil {
				t.Fatalf("ParsePaste() error = %v", err)
			}
			if len(res.Records) != 1 {
				t.Fatalf("records = %d, want 1 (failures: %+v)", len(res.Records), res.Failures())
			}
			got := res.Records[0]
			if got.Quantity != tt.want.Quantity || got.Name != tt.want.Name ||
				got.SetIdentifier != tt.want.SetIdentifier || got.Number != tt.want.Number {
				t.Errorf("record = %+v, want %+v", got, tt.want)
			}
			if got.Game != GamePokemon {
				t.Errorf("Game = %q, want %q", got.Game, GamePokemon)
			}
		})
	}
}

func TestParsePaste_PokemonSkips(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr error
	}{
		{"too few tokens", "Pikachu 58", ErrTooFewTokens},
		{"single token", "Pikachu", ErrTooFewTokens},
		{"quantity overflow", "99999999999999999999x Pikachu BS 58", ErrBadQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParsePaste(tt.line, ModePokemon, Options{})
			if err != nil {
				t.Fatalf("ParsePaste() error = %v", err)
			}
			if len(res.Records) != 0 {
				t.Fatalf("expected no records, got %+v", res.Records)
			}
			failures := res.Failures()
			if len(failures) != 1 || !errors.Is(failures[0].Err, tt.wantErr) {
				t.Errorf("failures = %+v, want %v", failures, tt.wantErr)
			}
		})
	}
}

func TestParsePaste_MixedBatch(t *testing.T) {
	text := "4x Lightning Bolt [LEA] 1\n" +
		"garbage line\n" +
		"\n" +
		"2 Counterspell (7ED) 67\r\n" +
		"also garbage\n" +
		"Giant Growth [LEA]\n"

	res, err := ParsePaste(text, ModeMagic, Options{})
	if err != nil {
		t.Fatalf("ParsePaste() error = %v", err)
	}
	if res.Imported != 3 {
		t.Errorf("Imported = %d, want 3", res.Imported)
	}
	if len(res.Records) != res.Imported {
		t.Errorf("len(Records) = %d, want Imported %d", len(res.Records), res.Imported)
	}

	failures := res.Failures()
	if len(failures) != 2 {
		t.Fatalf("failures = %d, want 2", len(failures))
	}
	if failures[0].Unit != 2 || failures[1].Unit != 5 {
		t.Errorf("failed lines = %d, %d, want 2, 5", failures[0].Unit, failures[1].Unit)
	}

	var uerr *UnitError
	if !errors.As(failures[0].Err, &uerr) || uerr.Unit != 2 {
		t.Errorf("failure error = %v, want *UnitError for line 2", failures[0].Err)
	}

	for _, o := range res.Outcomes {
		if o.OK() && o.Record == nil {
			t.Errorf("outcome for line %d has no record", o.Unit)
		}
	}
	if res.Outcomes[0].Record.Name != "Lightning Bolt" {
		t.Errorf("first outcome record = %+v", res.Outcomes[0].Record)
	}
}

func TestParsePaste_OversizedLine(t *testing.T) {
	text := "4x Lightning Bolt [LEA] 1\n" +
		strings.Repeat("a", 2<<20) + "\n" +
		"1 Counterspell [LEA] 54\n" +
		"2x Dark Ritual [LEA] 98\n"

	res, err := ParsePaste(text, ModeMagic, Options{})
	if err != nil {
		t.Fatalf("ParsePaste() error = %v", err)
	}
	if res.Imported != 3 || len(res.Records) != 3 {
		t.Errorf("Imported = %d, records = %d, want 3", res.Imported, len(res.Records))
	}

	failures := res.Failures()
	if len(failures) != 1 || failures[0].Unit != 2 {
		t.Fatalf("failures = %+v, want one on line 2", failures)
	}
	if !errors.Is(failures[0].Err, ErrLineTooLong) {
		t.Errorf("failure error = %v, want ErrLineTooLong", failures[0].Err)
	}
	if len(failures[0].Raw) != MaxLineBytes {
		t.Errorf("len(Raw) = %d, want %d", len(failures[0].Raw), MaxLineBytes)
	}
	if res.Records[2].Name != "Dark Ritual" {
		t.Errorf("last record = %+v", res.Records[2])
	}
}

func TestParsePaste_EmptyInput(t *testing.T) {
	for _, mode := range []GameMode{ModeMagic, ModePokemon} {
		res, err := ParsePaste("  \n\n ", mode, Options{})
		if err != nil {
			t.Fatalf("ParsePaste(%s) error = %v", mode, err)
		}
		if res.Imported != 0 || len(res.Records) != 0 || len(res.Outcomes) != 0 {
			t.Errorf("ParsePaste(%s) = %+v, want empty result", mode, res)
		}
	}
}

func TestParsePaste_UnknownMode(t *testing.T) {
	_, err := ParsePaste("4x Lightning Bolt [LEA] 1", GameMode("yugioh"), Options{})
	if !errors.Is(err, ErrUnknownGameMode) {
		t.Errorf("error = %v, want ErrUnknownGameMode", err)
	}
}

func TestParseGameMode(t *testing.T) {
	tests := []struct {
		input   string
		want    GameMode
		wantErr bool
	}{
		{"magic", ModeMagic, false},
		{" Pokemon ", ModePokemon, false},
		{"MAGIC", ModeMagic, false},
		{"", "", true},
		{"auto", "", true},
	}

	for _, tt := range tests {
		got, err := ParseGameMode(tt.input)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseGameMode(%q) = (%q, %v), want %q", tt.input, got, err, tt.want)
		}
	}
}
