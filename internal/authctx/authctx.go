// Package authctx carries the authenticated identity through the request
// context as an explicit typed value.
package authctx

import (
	"context"

	"github.com/mkalykov/startup-benefits/internal/domain"
)

type ctxKey struct{}

// WithIdentity returns a copy of ctx with the identity attached.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the identity from ctx. ok is false on routes that
// did not pass through the auth middleware.
func FromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(domain.Identity)
	return id, ok
}
