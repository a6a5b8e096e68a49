package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func writeSheet(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}

	path := filepath.Join(t.TempDir(), "menu.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseFile_SpanishHeaders(t *testing.T) {
	path := writeSheet(t, [][]any{
		{"Nombre", "Precio", "Categoría", "Ingredientes", "Descripción", "Disponible"},
		{"Citrus", "$6.50", "Jugos Cold Pressed", "piña, naranja, toronja", "Refrescante", "sí"},
		{"", "", "", "", "", ""},
		{"Flu Shot", "1,50", "Shots", "jengibre; cúrcuma", "", "no"},
		{"Sin Precio", "gratis", "Shots", "", "", ""},
	})

	items, err := NewMenuExcelParser(zap.NewNop()).ParseFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Citrus", items[0].Name)
	assert.InDelta(t, 6.5, items[0].Price, 0.001)
	assert.Equal(t, "Jugos Cold Pressed", items[0].Category)
	assert.Equal(t, []string{"piña", "naranja", "toronja"}, []string(items[0].Ingredients))
	assert.Equal(t, "Refrescante", items[0].Description)
	assert.True(t, items[0].Available)

	assert.Equal(t, "Flu Shot", items[1].Name)
	assert.InDelta(t, 1.5, items[1].Price, 0.001)
	assert.Equal(t, []string{"jengibre", "cúrcuma"}, []string(items[1].Ingredients))
	assert.False(t, items[1].Available)
}

func TestParseBytes_EnglishHeaders(t *testing.T) {
	path := writeSheet(t, [][]any{
		{"Category", "Name", "Price"},
		{"milks", "Milky Way", 8},
	})
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	items, err := NewMenuExcelParser(nil).ParseBytes(context.Background(), data, "menu.xlsx")
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "Milky Way", items[0].Name)
	assert.Equal(t, "milks", items[0].Category)
	assert.InDelta(t, 8.0, items[0].Price, 0.001)
	assert.True(t, items[0].Available)
}

func TestParseFile_MissingColumns(t *testing.T) {
	path := writeSheet(t, [][]any{
		{"Nombre", "Notas"},
		{"Citrus", "rico"},
	})

	_, err := NewMenuExcelParser(nil).ParseFile(context.Background(), path)
	assert.ErrorContains(t, err, "no price column")
}

func TestParseFile_NoRows(t *testing.T) {
	path := writeSheet(t, [][]any{
		{"Nombre", "Precio"},
	})

	_, err := NewMenuExcelParser(nil).ParseFile(context.Background(), path)
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestParsePrice(t *testing.T) {
	cases := map[string]float64{
		"8":        8,
		"$6.50":    6.5,
		"6,5":      6.5,
		"USD 12":   12,
		"1,200.00": 1200,
	}
	for raw, want := range cases {
		got, err := parsePrice(raw)
		require.NoError(t, err, raw)
		assert.InDelta(t, want, got, 0.001, raw)
	}

	_, err := parsePrice("")
	assert.Error(t, err)
	_, err = parsePrice("-3")
	assert.Error(t, err)
}
