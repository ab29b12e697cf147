package settings

import (
	"context"
)

type contextKey string

const (
	settingsContextKey contextKey = "settings"
)

// IntoContext stores the per-run settings in the context so commands and
// UI models can read flags without package globals.
func IntoContext(ctx context.Context, s *Run) context.Context {
	return context.WithValue(ctx, settingsContextKey, s)
}

// FromContext retrieves the per-run settings from the context.
func FromContext(ctx context.Context) (*Run, bool) {
	s, ok := ctx.Value(settingsContextKey).(*Run)
	return s, ok && s != nil
}
