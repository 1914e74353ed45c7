// Package auth carries the identity of the authenticated caller. The service
// never authenticates; it trusts the upstream gateway that terminates auth and
// forwards the caller's identity in request headers.
package auth

import "context"

// Principal identifies the authenticated caller of a request.
type Principal struct {
	UserID int64
	Email  string
}

type contextKey struct{}

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext extracts the principal from the context.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
