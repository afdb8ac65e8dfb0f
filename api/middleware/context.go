package middleware

import (
	"context"

	"github.com/skeldnet/cosmetics-backend/pkg/accounts"
)

type contextKey string

const ctxUser contextKey = "user"

// UserFromContext returns the verified profile seeded by Auth, or nil.
func UserFromContext(ctx context.Context) *accounts.Profile {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxUser).(*accounts.Profile); ok {
		return v
	}
	return nil
}

// WithUser injects a verified profile into the context.
func WithUser(ctx context.Context, user *accounts.Profile) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUser, user)
}
