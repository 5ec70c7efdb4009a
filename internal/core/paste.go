package core

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Options tunes a single parse or import call.
type Options struct {
	// Logger receives one debug entry per skipped unit. Nil uses slog.Default().
	Logger *slog.Logger

	// DefaultGame is the game written to sheet records when neither a game
	// column nor the profile supplies one.
	DefaultGame string
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// bracketLine matches "[qty[x]] name [SET] [number]" where the set code sits
// in square brackets or parentheses.
var bracketLine = regexp.MustCompile(
	`^(?:(\d+)[xX]?\s+)?(.+?)\s+(?:\[([A-Za-z0-9]{3,})\]|\(([A-Za-z0-9]{3,})\))(?:\s+(\S+))?\s*$`,
)

// MaxLineBytes caps a single pasted line. Longer lines are skipped.
const MaxLineBytes = 4096

// quantityToken matches a leading "4" or "4x" token.
var quantityToken = regexp.MustCompile(`^(\d+)[xX]?$`)

// ParsePaste parses a pasted card list, one card per line, using the grammar
// selected by mode. Blank lines are ignored. Lines that cannot be parsed are
// skipped and recorded in the result's outcomes; they never fail the batch.
func ParsePaste(text string, mode GameMode, opts Options) (PasteResult, error) {
	var parse func(string) (NormalizedRecord, error)
	switch mode {
	case ModeMagic:
		parse = parseBracketLine
	case ModePokemon:
		parse = parsePositionalLine
	default:
		return PasteResult{}, fmt.Errorf("%w: %q", ErrUnknownGameMode, string(mode))
	}

	log := opts.logger()
	result := PasteResult{Mode: mode}

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		raw = strings.TrimSuffix(raw, "\r")
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if len(line) > MaxLineBytes {
			err := fmt.Errorf("%w: %d bytes", ErrLineTooLong, len(line))
			log.Debug("paste line skipped", "line", lineNo, "mode", mode, "reason", err)
			result.Outcomes = append(result.Outcomes, UnitOutcome{
				Unit: lineNo,
				Raw:  raw[:MaxLineBytes],
				Err:  unitErr(lineNo, "", "", err),
			})
			continue
		}

		rec, err := parse(line)
		if err != nil {
			uerr := unitErr(lineNo, "", "", err)
			log.Debug("paste line skipped", "line", lineNo, "mode", mode, "reason", err)
			result.Outcomes = append(result.Outcomes, UnitOutcome{Unit: lineNo, Raw: raw, Err: uerr})
			continue
		}

		rec.Game = mode.Game()
		rec = rec.withDefaults()
		result.Records = append(result.Records, rec)
		result.Outcomes = append(result.Outcomes, UnitOutcome{Unit: lineNo, Raw: raw})
		result.Imported++
	}

	relinkOutcomes(result.Outcomes, result.Records)
	return result, nil
}

// relinkOutcomes points each successful outcome at its record. It runs after
// the records slice has stopped growing.
func relinkOutcomes(outcomes []UnitOutcome, records []NormalizedRecord) {
	i := 0
	for j := range outcomes {
		if outcomes[j].Err != nil {
			continue
		}
		outcomes[j].Record = &records[i]
		i++
	}
}

// parseBracketLine handles "4x Lightning Bolt [LEA] 1".
// A missing quantity means one copy; a missing number leaves it empty.
func parseBracketLine(line string) (NormalizedRecord, error) {
	m := bracketLine.FindStringSubmatch(line)
	if m == nil {
		return NormalizedRecord{}, ErrNoPattern
	}

	qty := DefaultQuantity
	if m[1] != "" {
		n, err := strconv.ParseInt(m[1], 10, 32)
		if err != nil {
			return NormalizedRecord{}, fmt.Errorf("%w: %q", ErrBadQuantity, m[1])
		}
		if n > 0 {
			qty = int(n)
		}
	}

	set := m[3]
	if set == "" {
		set = m[4]
	}

	return NormalizedRecord{
		Quantity:      qty,
		Name:          strings.TrimSpace(m[2]),
		SetIdentifier: set,
		Number:        m[5],
	}, nil
}

// parsePositionalLine handles "2x Pikachu BS 58": an optional quantity token,
// then the name, with the set code and number as the last two tokens.
// A set name made of several words cannot be told apart from the card name,
// so "Pikachu Base Set 58" reads as name "Pikachu Base", set "Set".
func parsePositionalLine(line string) (NormalizedRecord, error) {
	tokens := strings.Fields(line)
	if len(tokens) < 3 {
		return NormalizedRecord{}, ErrTooFewTokens
	}

	qty := DefaultQuantity
	if m := quantityToken.FindStringSubmatch(tokens[0]); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 32)
		if err != nil {
			return NormalizedRecord{}, fmt.Errorf("%w: %q", ErrBadQuantity, tokens[0])
		}
		if n > 0 {
			qty = int(n)
		}
		tokens = tokens[1:]
	}

	n := len(tokens)
	return NormalizedRecord{
		Quantity:      qty,
		Name:          strings.Join(tokens[:n-2], " "),
		SetIdentifier: tokens[n-2],
		Number:        tokens[n-1],
	}, nil
}
