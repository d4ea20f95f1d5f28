package core

import "context"

type contextKey string

const ctxKeyTrigger contextKey = "load_trigger"

// Load triggers recorded in diagnostics.
const (
	TriggerStartup = "startup"
	TriggerWatch   = "watch"
	TriggerAPI     = "api"
)

// ContextWithTrigger records what caused a catalog load.
func ContextWithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, ctxKeyTrigger, trigger)
}

// TriggerFromContext extracts the load trigger from context.
func TriggerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyTrigger).(string); ok {
		return v
	}
	return ""
}
