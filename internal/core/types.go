package core

import "time"

// Entry is one parsed product record.
type Entry struct {
	Name       string  // Product name as written in the source file
	Price      float64 // Price in the source file's monetary unit
	Weight     float64 // Mass in kilograms, always > 0 inside a Catalog
	SourceFile string  // Originating file name
}

// PricePerUnit returns the price per kilogram.
// It is always derived from Price and Weight and never stored on its own.
func (e Entry) PricePerUnit() float64 {
	return e.Price / e.Weight
}

// ColumnRole is the semantic label assigned to a header column.
type ColumnRole string

const (
	RoleProduct ColumnRole = "product"
	RolePrice   ColumnRole = "price"
	RoleWeight  ColumnRole = "weight"
)

// Roles lists every column role in resolution order.
var Roles = []ColumnRole{RoleProduct, RolePrice, RoleWeight}

// Synonyms holds the header names accepted for each column role.
// Matching is exact and case-sensitive.
type Synonyms struct {
	Product []string
	Price   []string
	Weight  []string
}

// DefaultSynonyms returns the built-in header vocabulary (English and Russian).
func DefaultSynonyms() Synonyms {
	return Synonyms{
		Product: []string{"name", "product", "item", "designation", "название", "продукт", "товар", "наименование"},
		Price:   []string{"price", "retail", "цена", "розница"},
		Weight:  []string{"weight", "mass", "packaging", "вес", "масса", "фасовка"},
	}
}

// forRole returns the synonym list for a role.
func (s Synonyms) forRole(role ColumnRole) []string {
	switch role {
	case RoleProduct:
		return s.Product
	case RolePrice:
		return s.Price
	case RoleWeight:
		return s.Weight
	}
	return nil
}

// ColumnMapping is the per-file result of column resolution.
// A negative index means the role could not be resolved.
type ColumnMapping struct {
	Product int
	Price   int
	Weight  int
}

// Index returns the column index for a role and whether it was resolved.
func (m ColumnMapping) Index(role ColumnRole) (int, bool) {
	var idx int
	switch role {
	case RoleProduct:
		idx = m.Product
	case RolePrice:
		idx = m.Price
	case RoleWeight:
		idx = m.Weight
	default:
		return 0, false
	}
	return idx, idx >= 0
}

// Missing returns the roles that have no resolved column.
func (m ColumnMapping) Missing() []ColumnRole {
	var missing []ColumnRole
	for _, role := range Roles {
		if _, ok := m.Index(role); !ok {
			missing = append(missing, role)
		}
	}
	return missing
}

// Complete reports whether every role was resolved.
func (m ColumnMapping) Complete() bool {
	return len(m.Missing()) == 0
}

// maxIndex returns the largest resolved column index.
func (m ColumnMapping) maxIndex() int {
	return max(m.Product, m.Price, m.Weight)
}

// FailedRow contains information about a row that was not admitted.
type FailedRow struct {
	FileName   string
	LineNumber int
	Reason     string
	Data       []string
}

// FileResult summarizes ingestion of a single source file.
type FileResult struct {
	FileName   string
	Admitted   int
	Skipped    int
	FailedRows []FailedRow
	Error      string // Non-empty if the whole file was skipped
}

// LoadResult contains the final result of a directory load.
type LoadResult struct {
	RunID    string
	Dir      string
	Admitted int
	Skipped  int
	Files    []FileResult
	Duration time.Duration
}
