package core

// HeaderLookup maps normalized header text to the header as it appears in the
// sheet. Build it once per import with NewHeaderLookup and reuse it for every
// row.
type HeaderLookup struct {
	index map[string]string
}

// NewHeaderLookup indexes headers case- and whitespace-insensitively.
// When two headers normalize to the same key the first one is kept.
func NewHeaderLookup(headers []string) HeaderLookup {
	index := make(map[string]string, len(headers))
	for _, h := range headers {
		key := CleanHeader(h)
		if key == "" {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = h
		}
	}
	return HeaderLookup{index: index}
}

// Header returns the original header text for an alias.
func (l HeaderLookup) Header(alias string) (string, bool) {
	h, ok := l.index[CleanHeader(alias)]
	return h, ok
}

// Lookup returns the raw cell of the first alias, in priority order, that is
// present in the sheet and non-blank in this row.
func (l HeaderLookup) Lookup(row Row, aliases []string) (any, bool) {
	for _, alias := range aliases {
		h, ok := l.index[CleanHeader(alias)]
		if !ok {
			continue
		}
		v, ok := row[h]
		if !ok || isBlank(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

// Resolve returns the trimmed text of the first non-blank aliased cell, or def.
func (l HeaderLookup) Resolve(row Row, aliases []string, def string) string {
	v, ok := l.Lookup(row, aliases)
	if !ok {
		return def
	}
	return CoerceString(v, def)
}

// ResolveQuantity walks aliases in priority order and returns the first cell
// that yields a positive integer. A column holding 0 or text without digits
// falls through to the next alias. Returns def when nothing qualifies.
func (l HeaderLookup) ResolveQuantity(row Row, aliases []string, def int) int {
	n, err := l.resolveQuantity(row, aliases, def)
	if err != nil {
		return def
	}
	return n
}

// resolveQuantity is ResolveQuantity that reports cells of unsupported types
// instead of silently skipping them.
func (l HeaderLookup) resolveQuantity(row Row, aliases []string, def int) (int, error) {
	for _, alias := range aliases {
		h, ok := l.index[CleanHeader(alias)]
		if !ok {
			continue
		}
		v, ok := row[h]
		if !ok || isBlank(v) {
			continue
		}
		n, err := parseQuantity(v)
		if err == nil {
			return n, nil
		}
		if _, cerr := cellText(v); cerr != nil {
			return 0, cerr
		}
	}
	return def, nil
}
