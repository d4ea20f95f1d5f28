package core

import "slices"

// Catalog is the ordered collection of admitted entries for one load.
//
// A Catalog is filled by a single writer and then sealed. Once sealed it is
// never mutated again and may be shared freely between goroutines.
type Catalog struct {
	entries []Entry
	sealed  bool
}

// NewCatalog creates an empty, writable catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Append adds an entry at the end of the catalog.
// Entries with a non-positive weight are rejected with ErrInvalidWeight.
func (c *Catalog) Append(e Entry) error {
	if c.sealed {
		return ErrCatalogSealed
	}
	if !(e.Weight > 0) {
		return ErrInvalidWeight
	}
	c.entries = append(c.entries, e)
	return nil
}

// Seal makes the catalog read-only.
func (c *Catalog) Seal() {
	c.sealed = true
}

// Sealed reports whether the catalog is read-only.
func (c *Catalog) Sealed() bool {
	return c.sealed
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of the entries in insertion order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return slices.Clone(c.entries)
}
