package core

import (
	"errors"
	"fmt"
	"strings"
)

// Row-level and file-level failure causes. Messages double as the patterns
// MapError matches on, so keep them stable.
var (
	ErrInvalidNumber  = errors.New("invalid number")
	ErrInvalidWeight  = errors.New("invalid weight")
	ErrShortRow       = errors.New("short row")
	ErrMissingColumns = errors.New("missing required column")
	ErrEmptyFile      = errors.New("empty file")
	ErrCatalogSealed  = errors.New("catalog sealed")
	ErrNotLoaded      = errors.New("catalog not loaded")
)

// RowError describes a single row that was skipped during ingestion.
// Row errors are recoverable: the row is dropped and the file continues.
type RowError struct {
	File  string
	Line  int    // 1-based line number in the source file
	Field string // Column role of the offending cell, if any
	Value string // Offending cell value, if any
	Err   error
}

func (e *RowError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d", e.File, e.Line)
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s %q", e.Field, e.Value)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// FileError describes a source file whose rows were all skipped.
type FileError struct {
	File    string
	Missing []ColumnRole // Set when the header could not be resolved
	Err     error
}

func (e *FileError) Error() string {
	if len(e.Missing) > 0 {
		roles := make([]string, len(e.Missing))
		for i, r := range e.Missing {
			roles[i] = string(r)
		}
		return fmt.Sprintf("%s: %v: %s", e.File, e.Err, strings.Join(roles, ", "))
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
