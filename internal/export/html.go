// Package export renders the catalog as a standalone HTML document.
package export

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/pricelist/internal/core"
)

// Title is the document title of the exported page.
const Title = "Позиции продуктов"

// Headers are the column captions of the exported table, in column order.
var Headers = []string{"Номер", "Название", "Цена", "Фасовка", "Файл", "Цена за кг."}

// row is one catalog entry formatted for the table.
type row struct {
	Number       string
	Name         string
	Price        string
	Weight       string
	File         string
	PricePerUnit string
}

// CatalogTable renders entries as a complete HTML page with one numbered
// table row per entry. Prices are printed with two decimals.
func CatalogTable(entries []core.Entry) templ.Component {
	rows := make([]row, len(entries))
	for i, e := range entries {
		rows[i] = row{
			Number:       strconv.Itoa(i + 1),
			Name:         e.Name,
			Price:        FormatMoney(e.Price),
			Weight:       FormatWeight(e.Weight),
			File:         e.SourceFile,
			PricePerUnit: FormatMoney(e.PricePerUnit()),
		}
	}
	return catalogPage(Title, Headers, rows)
}

// FormatMoney prints a price with two decimals.
func FormatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatWeight prints a weight with the shortest exact representation.
func FormatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteFile renders entries into path, replacing any existing file.
func WriteFile(ctx context.Context, path string, entries []core.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := CatalogTable(entries).Render(ctx, f); err != nil {
		f.Close()
		return fmt.Errorf("render export: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}
