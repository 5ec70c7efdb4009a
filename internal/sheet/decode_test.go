package sheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/tcgstock/internal/core"
)

func TestDecode_CSV(t *testing.T) {
	data := "\xEF\xBB\xBFProduct Name,Qty,TCG Market Price\n" +
		"Charizard,3,\"$1,199.99\"\n" +
		"Pikachu,2\n" +
		",,\n"

	table, err := Decode("export.csv", strings.NewReader(data), 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"Product Name", "Qty", "TCG Market Price"}, table.Headers)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, core.Row{"Product Name": "Charizard", "Qty": "3", "TCG Market Price": "$1,199.99"}, table.Rows[0])

	_, hasPrice := table.Rows[1]["TCG Market Price"]
	assert.False(t, hasPrice, "short row should not carry the missing cell")
	assert.Equal(t, "", table.Rows[2]["Product Name"])
}

func TestDecode_TSV(t *testing.T) {
	data := "Name\tSet\tNumber\nPikachu\tBase Set\t058\n"

	table, err := Decode("cards.TSV", strings.NewReader(data), 0)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Base Set", table.Rows[0]["Set"])
	assert.Equal(t, "058", table.Rows[0]["Number"])
}

func TestDecode_HeaderHandling(t *testing.T) {
	data := "\n,,\n Name ,,Name,Qty\nMew,x,Dup,1\n"

	table, err := Decode("list.txt", strings.NewReader(data), 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Qty"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, core.Row{"Name": "Mew", "Qty": "1"}, table.Rows[0])
}

func TestDecode_LazyQuotes(t *testing.T) {
	data := "Name,Qty\nBill \"the\" Card,1\n"

	table, err := Decode("x.csv", strings.NewReader(data), 0)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, `Bill "the" Card`, table.Rows[0]["Name"])
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		data     string
		maxSize  int64
		wantErr  error
	}{
		{"unsupported extension", "cards.pdf", "x", 0, ErrUnsupportedFormat},
		{"no extension", "cards", "x", 0, ErrUnsupportedFormat},
		{"empty csv", "cards.csv", "", 0, ErrEmptyFile},
		{"blank csv", "cards.csv", "\n , \n", 0, ErrEmptyFile},
		{"too large", "cards.csv", "Name\n" + strings.Repeat("Mew\n", 100), 50, ErrFileTooLarge},
		{"empty xlsx", "cards.xlsx", "", 0, ErrEmptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.fileName, strings.NewReader(tt.data), tt.maxSize)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecode_InvalidXLSX(t *testing.T) {
	_, err := Decode("cards.xlsx", strings.NewReader("not a zip file"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid xlsx")
}

func TestDecode_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Card Name", "Set Code", "Number", "Quantity", "Price"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Umbreon", "NR", "013", 2, 12.5}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"Espeon", "NR", "020", 1}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := Decode("collection.xlsx", bytes.NewReader(buf.Bytes()), 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"Card Name", "Set Code", "Number", "Quantity", "Price"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Umbreon", table.Rows[0]["Card Name"])
	assert.Equal(t, "013", table.Rows[0]["Number"])
	assert.Equal(t, "2", table.Rows[0]["Quantity"])
	assert.Equal(t, "12.5", table.Rows[0]["Price"])
	assert.Equal(t, "Espeon", table.Rows[1]["Card Name"])
}

func TestDecode_FeedsImportTable(t *testing.T) {
	data := "Product Name,Qty,TCG Market Price\nCharizard,3,$199.99\n"
	table, err := Decode("export.csv", strings.NewReader(data), 1<<20)
	require.NoError(t, err)

	profile := core.Profile{
		Key:      "test",
		Name:     []string{"card name", "product name", "name"},
		Price:    []string{"tcg market price"},
		Quantity: []string{"qty"},
	}
	res := core.ImportTable(table, profile, core.Options{})
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Charizard", res.Records[0].Name)
	assert.Equal(t, 3, res.QuantityTotal)
	assert.Equal(t, "199.99", res.Records[0].UnitPrice.String())
}
