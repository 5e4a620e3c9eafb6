package httpx

import "context"

// Identity is the acting identity resolved from a request's bearer token.
// It is resolved once per request by Authn and memoized in the request
// context; role checks downstream are pure predicates over this value.
type Identity struct {
	UserID string
	Role   string
}

type identityKey struct{}

func contextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the resolved identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
