package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
	"github.com/yourusername/prana-whatsapp-bot/internal/domain/repository"
)

// ErrNoItems jadvalda yaroqli qator topilmadi
var ErrNoItems = errors.New("spreadsheet has no menu items")

const (
	colName        = "name"
	colPrice       = "price"
	colCategory    = "category"
	colIngredients = "ingredients"
	colDescription = "description"
	colAvailable   = "available"
)

type menuExcelParser struct {
	logger *zap.Logger
}

// NewMenuExcelParser Excel menyu parseri
func NewMenuExcelParser(logger *zap.Logger) repository.MenuParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &menuExcelParser{logger: logger}
}

// ParseFile fayldan o'qish
func (p *menuExcelParser) ParseFile(ctx context.Context, path string) ([]entity.MenuItem, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	return p.parse(ctx, f, path)
}

// ParseBytes yuklangan fayl baytlaridan o'qish
func (p *menuExcelParser) ParseBytes(ctx context.Context, data []byte, filename string) ([]entity.MenuItem, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", filename, err)
	}
	defer f.Close()

	return p.parse(ctx, f, filename)
}

func (p *menuExcelParser) parse(ctx context.Context, f *excelize.File, source string) ([]entity.MenuItem, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: no sheets", source)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%s: read rows: %w", source, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: %w", source, ErrNoItems)
	}

	columns := mapColumns(rows[0])
	if _, ok := columns[colName]; !ok {
		return nil, fmt.Errorf("%s: no name column in header %v", source, rows[0])
	}
	if _, ok := columns[colPrice]; !ok {
		return nil, fmt.Errorf("%s: no price column in header %v", source, rows[0])
	}
	p.logger.Debug("spreadsheet columns mapped", zap.String("source", source), zap.Any("columns", columns))

	var items []entity.MenuItem
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isEmptyRow(row) {
			continue
		}

		name := cell(row, columns, colName)
		if name == "" {
			continue
		}

		price, err := parsePrice(cell(row, columns, colPrice))
		if err != nil {
			p.logger.Warn("skipping row with invalid price",
				zap.String("source", source), zap.Int("row", i+2), zap.String("name", name), zap.Error(err))
			continue
		}

		items = append(items, entity.MenuItem{
			Name:        name,
			Price:       price,
			Category:    cell(row, columns, colCategory),
			Ingredients: splitIngredients(cell(row, columns, colIngredients)),
			Description: cell(row, columns, colDescription),
			Available:   parseAvailable(cell(row, columns, colAvailable)),
		})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrNoItems)
	}
	return items, nil
}

// mapColumns sarlavha qatoridan ustun indekslari (ispan va ingliz nomlari)
func mapColumns(header []string) map[string]int {
	columns := make(map[string]int)
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		var key string
		switch {
		case name == "":
			continue
		case contains(name, "ingrediente", "ingredient"):
			key = colIngredients
		case contains(name, "descripci", "description", "detalle"):
			key = colDescription
		case contains(name, "disponib", "available", "activo", "estado"):
			key = colAvailable
		case contains(name, "categor", "tipo", "type", "seccion", "sección"):
			key = colCategory
		case contains(name, "precio", "price", "costo", "cost", "$", "usd"):
			key = colPrice
		case contains(name, "nombre", "name", "producto", "product", "item"):
			key = colName
		default:
			continue
		}
		if _, taken := columns[key]; !taken {
			columns[key] = i
		}
	}
	return columns
}

func cell(row []string, columns map[string]int, key string) string {
	idx, ok := columns[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func contains(str string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(str, kw) {
			return true
		}
	}
	return false
}

// parsePrice "$8.50", "8,50", "USD 6.5" kabi formatlar
func parsePrice(raw string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("$", "", "usd", "", " ", "").Replace(s)
	if s == "" {
		return 0, errors.New("empty price")
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", raw)
	}
	if price < 0 {
		return 0, fmt.Errorf("negative price %q", raw)
	}
	return price, nil
}

func splitIngredients(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseAvailable bo'sh qiymat mavjud deb olinadi
func parseAvailable(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "no", "false", "0", "❌", "agotado", "n":
		return false
	default:
		return true
	}
}
