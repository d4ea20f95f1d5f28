package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/pricelist/internal/core"
	"github.com/JonMunkholm/pricelist/internal/export"
	"github.com/JonMunkholm/pricelist/internal/logging"
)

// EntryResponse is the JSON form of a catalog entry.
type EntryResponse struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Weight       float64 `json:"weight"`
	SourceFile   string  `json:"source_file"`
	PricePerUnit float64 `json:"price_per_unit"`
}

// EntriesResponse wraps a list of entries.
type EntriesResponse struct {
	Query string          `json:"query,omitempty"`
	Count int             `json:"count"`
	Items []EntryResponse `json:"items"`
}

// FileSummary reports the outcome for one source file.
type FileSummary struct {
	File     string `json:"file"`
	Admitted int    `json:"admitted"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

// LoadSummary reports the outcome of a catalog load.
type LoadSummary struct {
	RunID      string        `json:"run_id"`
	Dir        string        `json:"dir"`
	Admitted   int           `json:"admitted"`
	Skipped    int           `json:"skipped"`
	DurationMS int64         `json:"duration_ms"`
	Files      []FileSummary `json:"files"`
}

// HealthResponse reports catalog size and load state.
type HealthResponse struct {
	Status   string                 `json:"status"`
	Entries  int                    `json:"entries"`
	Load     core.LoadLimiterStatus `json:"load"`
	LastLoad *LoadSummary           `json:"last_load,omitempty"`
}

func toEntries(entries []core.Entry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = EntryResponse{
			Name:         e.Name,
			Price:        e.Price,
			Weight:       e.Weight,
			SourceFile:   e.SourceFile,
			PricePerUnit: e.PricePerUnit(),
		}
	}
	return out
}

func toSummary(r *core.LoadResult) *LoadSummary {
	if r == nil {
		return nil
	}
	files := make([]FileSummary, len(r.Files))
	for i, f := range r.Files {
		files[i] = FileSummary{File: f.FileName, Admitted: f.Admitted, Skipped: f.Skipped, Error: f.Error}
	}
	return &LoadSummary{
		RunID:      r.RunID,
		Dir:        r.Dir,
		Admitted:   r.Admitted,
		Skipped:    r.Skipped,
		DurationMS: r.Duration.Milliseconds(),
		Files:      files,
	}
}

// handleHealth returns catalog size and load status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Entries:  s.service.Len(),
		Load:     s.service.LoadStatus(),
		LastLoad: toSummary(s.service.LastLoad()),
	})
}

// handleSearch runs a fuzzy search. An empty query lists the whole catalog.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	start := time.Now()
	found := s.service.Search(query)

	logging.FromContext(r.Context()).Info("search served",
		"query", strings.TrimSpace(query),
		"matches", len(found),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	writeJSON(w, http.StatusOK, EntriesResponse{
		Query: query,
		Count: len(found),
		Items: toEntries(found),
	})
}

// handleEntries returns the whole catalog in load order.
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	entries := s.service.Entries()
	writeJSON(w, http.StatusOK, EntriesResponse{
		Count: len(entries),
		Items: toEntries(entries),
	})
}

// handleLastLoad returns the summary of the latest successful load.
func (s *Server) handleLastLoad(w http.ResponseWriter, r *http.Request) {
	summary := toSummary(s.service.LastLoad())
	if summary == nil {
		respondErrorJSON(w, core.MapError(core.ErrNotLoaded), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleReload rebuilds the catalog from the configured directory.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	ctx := core.ContextWithTrigger(r.Context(), core.TriggerAPI)
	logging.WithFields(ctx, "dir", s.service.Dir()).Info("reload requested")

	result, err := s.service.Load(ctx)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, toSummary(result))
}

// handleExport renders the catalog as an HTML table.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := export.CatalogTable(s.service.Entries()).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("export render failed", "error", err)
	}
}
