package core

// ingest.go loads price files from a directory into a Catalog.
//
// For every file whose name contains the marker and ends with an accepted
// extension:
//  1. Read the raw bytes, strip a BOM and replace invalid UTF-8
//  2. Normalize delimiters on the read path (delimited files only)
//  3. Resolve the header row to product/price/weight columns
//  4. Parse each data row, skip bad rows with a diagnostic, append the rest
//
// A missing directory fails the call. Problems inside a file never do: they
// are reported through Diagnostics and recorded on the FileResult.

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// workbookExt selects the spreadsheet reader instead of the delimited one.
const workbookExt = ".xlsx"

// Options controls file discovery and header resolution.
type Options struct {
	Marker     string   // Substring a file name must contain (case-sensitive)
	Extensions []string // Accepted file name suffixes (case-sensitive)
	Synonyms   Synonyms // Header names accepted for each column role
}

// DefaultOptions returns the stock discovery rules: "*price*.csv".
func DefaultOptions() Options {
	return Options{
		Marker:     "price",
		Extensions: []string{".csv"},
		Synonyms:   DefaultSynonyms(),
	}
}

// record is one parsed row with its 1-based line number in the source.
type record struct {
	line  int
	cells []string
}

// Loader discovers and parses price files.
type Loader struct {
	opts Options
	diag Diagnostics
}

// NewLoader creates a loader. A nil diag discards diagnostics.
func NewLoader(opts Options, diag Diagnostics) *Loader {
	return &Loader{opts: opts, diag: orDiscard(diag)}
}

// Matches reports whether a file name passes the discovery filter.
func (l *Loader) Matches(name string) bool {
	if !strings.Contains(name, l.opts.Marker) {
		return false
	}
	for _, ext := range l.opts.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Load scans dir (non-recursively, in name order) and appends every valid row
// to catalog. The returned result counts only entries admitted by this call.
//
// An error is returned only when the directory cannot be read, the context is
// cancelled, or the catalog refuses an append. Partial results are returned
// alongside a cancellation error.
func (l *Loader) Load(ctx context.Context, dir string, catalog *Catalog) (*LoadResult, error) {
	startTime := time.Now()

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		l.diag.Error("read prices directory", "dir", dir, "error", err)
		return nil, fmt.Errorf("read directory: %w", err)
	}

	result := &LoadResult{
		RunID: uuid.NewString(),
		Dir:   dir,
	}
	l.diag.Info("loading prices", "run_id", result.RunID, "dir", dir)

	for _, de := range dirEntries {
		if de.IsDir() || !l.Matches(de.Name()) {
			continue
		}

		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(startTime)
			l.diag.Warn("load cancelled", "run_id", result.RunID, "admitted", result.Admitted)
			return result, err
		}

		fr, err := l.loadFile(filepath.Join(dir, de.Name()), catalog)
		result.Files = append(result.Files, fr)
		result.Admitted += fr.Admitted
		result.Skipped += fr.Skipped
		if err != nil {
			result.Duration = time.Since(startTime)
			return result, err
		}
	}

	result.Duration = time.Since(startTime)
	l.diag.Info("prices loaded",
		"run_id", result.RunID,
		"files", len(result.Files),
		"admitted", result.Admitted,
		"skipped", result.Skipped,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// loadFile ingests one file. The error is non-nil only when the catalog
// rejects an append; everything else is recorded on the FileResult.
func (l *Loader) loadFile(path string, catalog *Catalog) (FileResult, error) {
	fileName := filepath.Base(path)
	fr := FileResult{FileName: fileName}

	records, err := l.readRecords(path)
	if err != nil {
		l.diag.Error("file skipped", "file", fileName, "error", err, "code", MapError(err).Code)
		fr.Error = err.Error()
		return fr, nil
	}
	if len(records) == 0 {
		ferr := &FileError{File: fileName, Err: ErrEmptyFile}
		l.diag.Warn("file skipped", "file", fileName, "error", ferr, "code", MapError(ferr).Code)
		fr.Error = ferr.Error()
		return fr, nil
	}

	header := records[0].cells
	mapping := ResolveColumns(header, l.opts.Synonyms)
	if !mapping.Complete() {
		ferr := &FileError{File: fileName, Missing: mapping.Missing(), Err: ErrMissingColumns}
		l.diag.Warn("file skipped: unresolved header columns",
			"file", fileName,
			"missing", mapping.Missing(),
			"header", header,
			"code", MapError(ferr).Code,
		)
		fr.Error = ferr.Error()
		for _, rec := range records[1:] {
			if !isEmptyRow(rec.cells) {
				fr.Skipped++
			}
		}
		return fr, nil
	}
	l.diag.Debug("header resolved",
		"file", fileName,
		"product", mapping.Product,
		"price", mapping.Price,
		"weight", mapping.Weight,
	)

	for _, rec := range records[1:] {
		if isEmptyRow(rec.cells) {
			l.diag.Debug("blank row skipped", "file", fileName, "line", rec.line)
			continue
		}

		entry, err := parseRow(fileName, rec, mapping)
		if err != nil {
			l.reportRow(err, rec, mapping)
			fr.Skipped++
			fr.FailedRows = append(fr.FailedRows, FailedRow{
				FileName:   fileName,
				LineNumber: rec.line,
				Reason:     err.Error(),
				Data:       rec.cells,
			})
			continue
		}

		if err := catalog.Append(entry); err != nil {
			return fr, fmt.Errorf("append %s:%d: %w", fileName, rec.line, err)
		}
		fr.Admitted++
	}

	l.diag.Info("file loaded", "file", fileName, "admitted", fr.Admitted, "skipped", fr.Skipped)
	return fr, nil
}

// reportRow emits the diagnostic for a skipped row. Non-positive weights are
// warnings; everything else is an error.
func (l *Loader) reportRow(err *RowError, rec record, m ColumnMapping) {
	args := []any{"file", err.File, "line", err.Line, "error", err, "code", MapError(err).Code}
	if err.Field != "" {
		args = append(args, err.Field, err.Value)
	}

	if errors.Is(err, ErrInvalidWeight) {
		var product string
		if m.Product < len(rec.cells) {
			product = rec.cells[m.Product]
		}
		l.diag.Warn("row skipped: non-positive weight", append(args, "product", product)...)
		return
	}
	l.diag.Error("row skipped", append(args, "row", rec.cells)...)
}

// parseRow converts one data row into an Entry.
func parseRow(fileName string, rec record, m ColumnMapping) (Entry, *RowError) {
	if m.maxIndex() >= len(rec.cells) {
		return Entry{}, &RowError{File: fileName, Line: rec.line, Err: ErrShortRow}
	}

	name := rec.cells[m.Product]
	rawPrice := rec.cells[m.Price]
	rawWeight := rec.cells[m.Weight]

	price, err := ParseDecimal(rawPrice)
	if err != nil {
		return Entry{}, &RowError{File: fileName, Line: rec.line, Field: string(RolePrice), Value: rawPrice, Err: ErrInvalidNumber}
	}
	weight, err := ParseDecimal(rawWeight)
	if err != nil {
		return Entry{}, &RowError{File: fileName, Line: rec.line, Field: string(RoleWeight), Value: rawWeight, Err: ErrInvalidNumber}
	}
	if weight <= 0 {
		return Entry{}, &RowError{File: fileName, Line: rec.line, Field: string(RoleWeight), Value: rawWeight, Err: ErrInvalidWeight}
	}

	return Entry{
		Name:       name,
		Price:      price,
		Weight:     weight,
		SourceFile: fileName,
	}, nil
}

// readRecords reads a file into records, picking the reader by extension.
func (l *Loader) readRecords(path string) ([]record, error) {
	if strings.HasSuffix(path, workbookExt) {
		return l.readWorkbook(path)
	}
	return l.readDelimited(path)
}

// readDelimited parses a delimited text file. Delimiters are normalized while
// reading; the file on disk is left untouched.
func (l *Loader) readDelimited(path string) ([]record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	data, changed := cleanSource(data)
	if changed {
		l.diag.Warn("invalid UTF-8 replaced", "file", filepath.Base(path))
	}

	dr := NewDelimiterReader(bytes.NewReader(data))
	r := csv.NewReader(dr)
	r.Comma = FieldDelimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records []record
	for {
		cells, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		line, _ := r.FieldPos(0)
		records = append(records, record{line: line, cells: cells})
	}

	if dr.Replaced > 0 {
		l.diag.Debug("delimiters normalized", "file", filepath.Base(path), "replaced", dr.Replaced)
	}
	return records, nil
}

// readWorkbook reads the first sheet of an .xlsx workbook using raw cell
// values, so number formats never leak grouping separators into prices.
func (l *Loader) readWorkbook(path string) ([]record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	records := make([]record, 0, len(rows))
	for i, row := range rows {
		if len(records) == 0 && isEmptyRow(row) {
			continue
		}
		records = append(records, record{line: i + 1, cells: row})
	}
	return records, nil
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
