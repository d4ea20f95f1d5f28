package core

import (
	"context"
	"sync"
	"sync/atomic"
)

// PublishFunc is called with the new catalog contents after a load is
// published. Errors are reported as diagnostics and do not undo the load.
type PublishFunc func(ctx context.Context, entries []Entry) error

// Service owns the current catalog snapshot and answers searches against it.
//
// Loads build a fresh catalog, seal it and swap it in atomically, so searches
// never observe a partially filled catalog. Loads are serialized through a
// LoadLimiter.
type Service struct {
	dir      string
	loader   *Loader
	searcher *Searcher
	diag     Diagnostics

	limiter *LoadLimiter
	catalog atomic.Pointer[Catalog]
	last    atomic.Pointer[LoadResult]

	mu        sync.Mutex
	onPublish []PublishFunc
}

// NewService creates a Service for dir. The catalog starts empty and sealed
// until the first Load. A nil scorer selects RatioScorer.
func NewService(dir string, opts Options, scorer Scorer, diag Diagnostics) *Service {
	diag = orDiscard(diag)
	s := &Service{
		dir:      dir,
		loader:   NewLoader(opts, diag),
		searcher: NewSearcher(scorer, diag),
		diag:     diag,
		limiter:  NewLoadLimiter(1, DefaultLoadWait),
	}
	empty := NewCatalog()
	empty.Seal()
	s.catalog.Store(empty)
	return s
}

// Dir returns the directory the service loads from.
func (s *Service) Dir() string {
	return s.dir
}

// Matches reports whether a file name passes the discovery filter.
func (s *Service) Matches(name string) bool {
	return s.loader.Matches(name)
}

// OnPublish registers fn to run after every successful load.
func (s *Service) OnPublish(fn PublishFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPublish = append(s.onPublish, fn)
}

// Load reads the service directory into a new catalog and publishes it.
// On error the previous catalog stays in place.
func (s *Service) Load(ctx context.Context) (*LoadResult, error) {
	trigger := TriggerFromContext(ctx)
	if trigger == "" {
		trigger = TriggerStartup
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		s.diag.Warn("catalog load rejected", "trigger", trigger, "error", err)
		return nil, err
	}
	defer s.limiter.Release()

	next := NewCatalog()
	result, err := s.loader.Load(ctx, s.dir, next)
	if err != nil {
		s.diag.Error("catalog load failed", "trigger", trigger, "dir", s.dir, "error", err)
		return result, err
	}
	next.Seal()

	prev := s.catalog.Swap(next)
	s.last.Store(result)
	s.diag.Info("catalog published",
		"trigger", trigger,
		"run_id", result.RunID,
		"entries", next.Len(),
		"previous_entries", prev.Len(),
	)

	s.mu.Lock()
	hooks := s.onPublish
	s.mu.Unlock()
	for _, fn := range hooks {
		if err := fn(ctx, next.Entries()); err != nil {
			s.diag.Error("publish hook failed", "trigger", trigger, "run_id", result.RunID, "error", err)
		}
	}
	return result, nil
}

// Search runs a query against the current catalog snapshot.
func (s *Service) Search(query string) []Entry {
	return s.searcher.Search(s.catalog.Load(), query)
}

// Entries returns the current catalog contents in insertion order.
func (s *Service) Entries() []Entry {
	return s.catalog.Load().Entries()
}

// Len returns the number of entries in the current catalog.
func (s *Service) Len() int {
	return s.catalog.Load().Len()
}

// LoadStatus reports whether a load is running.
func (s *Service) LoadStatus() LoadLimiterStatus {
	return s.limiter.Status()
}

// WaitForLoads blocks until any in-flight load finishes or ctx ends.
func (s *Service) WaitForLoads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// LastLoad returns the result of the most recent successful load, or nil.
func (s *Service) LastLoad() *LoadResult {
	return s.last.Load()
}
