package auth

import "context"

// Identity is the authenticated caller resolved from a verified access
// token. It lives only as long as the request context that carries it.
type Identity struct {
	UserID int64
	Email  string
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by the authorization
// gate. The boolean is false on routes the gate does not protect.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
