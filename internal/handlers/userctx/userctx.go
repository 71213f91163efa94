package userctx

import (
	"context"

	"github.com/teoyou881/hc-fullstack-app/internal/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// New returns a context carrying the authenticated identity.
// Only the auth middleware should call this.
func New(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// FromContext extracts the authenticated identity from the context
func FromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}
