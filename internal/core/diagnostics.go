package core

import "log/slog"

// Diagnostics receives structured events from ingestion and search.
// Arguments follow the slog key/value convention, so a *slog.Logger
// satisfies the interface directly.
type Diagnostics interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// discard is used when a caller passes a nil Diagnostics.
var discard Diagnostics = slog.New(slog.DiscardHandler)

func orDiscard(d Diagnostics) Diagnostics {
	if d == nil {
		return discard
	}
	return d
}
