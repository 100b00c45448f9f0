// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ActorKey is the context key for the actor ID (admin user or CLI operator).
// Exported so it can be used consistently across packages.
type ActorKey struct{}

// LocaleKey is the context key for the request locale.
type LocaleKey struct{}

// WithActorID returns a context with the actor ID embedded.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actorID)
}

// ActorFromContext returns the actor ID from context, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ActorKey{}).(string); ok {
		return v
	}
	return ""
}

// WithLocale returns a context carrying the locale used for messages.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, LocaleKey{}, locale)
}

// LocaleFromContext returns the locale from context, or fallback if not set.
func LocaleFromContext(ctx context.Context, fallback string) string {
	if v, ok := ctx.Value(LocaleKey{}).(string); ok && v != "" {
		return v
	}
	return fallback
}
