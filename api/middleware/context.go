package middleware

import (
	"context"

	pkgauth "github.com/ratedesk/ratedesk-backend/pkg/auth"
)

type contextKey string

const (
	ctxActor        contextKey = "actor"
	ctxCapabilities contextKey = "capabilities"
)

// ActorFromContext returns the token subject seeded by the auth middleware.
func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActor).(string); ok {
		return v
	}
	return ""
}

// CapabilitiesFromContext returns the capability grants seeded by the auth
// middleware.
func CapabilitiesFromContext(ctx context.Context) []pkgauth.Capability {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxCapabilities).([]pkgauth.Capability); ok {
		return v
	}
	return nil
}

// WithActor injects the actor and its capability grants into the context.
func WithActor(ctx context.Context, actor string, caps []pkgauth.Capability) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxActor, actor)
	return context.WithValue(ctx, ctxCapabilities, caps)
}
