// Package sheet decodes uploaded spreadsheet files into core.Table values.
//
// CSV, TSV and plain-text files are parsed with encoding/csv after BOM
// removal and UTF-8 cleanup; .xlsx workbooks are read with excelize from the
// first sheet. In both cases the first non-blank row is the header row.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/tcgstock/internal/core"
)

// Decoder errors. They are hard failures shown to the user as-is.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyFile         = errors.New("empty file: no header row found")
	ErrFileTooLarge      = errors.New("file too large")
)

// Extensions lists the file extensions Decode accepts.
var Extensions = []string{".csv", ".tsv", ".txt", ".xlsx"}

// Decode reads an uploaded file, picking the format from its extension.
// Files larger than maxSize bytes are rejected; maxSize <= 0 means no limit.
func Decode(fileName string, r io.Reader, maxSize int64) (core.Table, error) {
	limited := newLimitReader(r, maxSize)

	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".csv", ".txt":
		return decodeDelimited(limited, ',')
	case ".tsv":
		return decodeDelimited(limited, '\t')
	case ".xlsx":
		return decodeXLSX(limited)
	default:
		if ext == "" {
			ext = "(none)"
		}
		return core.Table{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func decodeDelimited(r io.Reader, comma rune) (core.Table, error) {
	cr := csv.NewReader(newTextReader(r))
	cr.Comma = comma
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, ErrFileTooLarge) {
				return core.Table{}, err
			}
			return core.Table{}, fmt.Errorf("invalid csv: %w", err)
		}
		records = append(records, rec)
	}
	return buildTable(records)
}

func decodeXLSX(r io.Reader) (core.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return core.Table{}, err
		}
		return core.Table{}, fmt.Errorf("read xlsx: %w", err)
	}
	if len(data) == 0 {
		return core.Table{}, ErrEmptyFile
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return core.Table{}, fmt.Errorf("invalid xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return core.Table{}, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return core.Table{}, fmt.Errorf("invalid xlsx: %w", err)
	}
	return buildTable(rows)
}

// buildTable turns raw records into a Table. The first non-blank record is
// the header. Blank or repeated header cells are dropped along with their
// column. Short rows simply lack the trailing cells.
func buildTable(records [][]string) (core.Table, error) {
	start := -1
	for i, rec := range records {
		if !recordIsBlank(rec) {
			start = i
			break
		}
	}
	if start < 0 {
		return core.Table{}, ErrEmptyFile
	}

	raw := records[start]
	headers := make([]string, 0, len(raw))
	columns := make([]int, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		headers = append(headers, h)
		columns = append(columns, i)
	}

	table := core.Table{Headers: headers}
	for _, rec := range records[start+1:] {
		row := make(core.Row, len(headers))
		for j, col := range columns {
			if col < len(rec) {
				row[headers[j]] = rec[col]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func recordIsBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
