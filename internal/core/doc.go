// Package core provides the business logic for price-list ingestion and search.
//
// This package contains all domain logic independent of any UI or transport
// layer. The HTTP API, the interactive prompt, the HTML export and the
// directory watcher all go through [Service].
//
// # Architecture
//
//   - Column Resolver: [ResolveColumns] maps a header row to product, price
//     and weight columns using configurable [Synonyms].
//   - Row Normalizer: [DelimiterReader] and [NormalizeDelimiters] rewrite bare
//     commas to semicolons on the read path, leaving quoted text alone.
//   - Ingestion: [Loader] discovers price files, parses rows and appends
//     valid entries to a [Catalog].
//   - Catalog: an append-only list of [Entry] values, sealed after loading.
//   - Search: [Searcher] unions a whole-word match with a fuzzy [Scorer] match
//     and ranks hits by price per kilogram.
//
// # Loading
//
//	svc := core.NewService("Prices", core.DefaultOptions(), nil, logger)
//	result, err := svc.Load(ctx)
//	// result.Admitted entries are now searchable
//	hits := svc.Search("apple")
//
// Each load builds a fresh catalog and swaps it in atomically, so searches
// running during a reload see either the old or the new snapshot.
//
// # Diagnostics
//
// Every skipped row or file is reported through [Diagnostics], which a
// *slog.Logger satisfies. Rows with a non-positive weight are warnings;
// unparseable numbers and short rows are errors; unresolved headers are
// warnings naming the missing roles. Errors carry [RowError] or [FileError]
// values that [MapError] turns into user-facing messages with codes.
package core
