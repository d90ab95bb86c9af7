package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyEmail  ctxKey = "email"

	// CtxKeyClientIP holds the address resolved by ClientIPMiddleware.
	CtxKeyClientIP ctxKey = "client_ip"
)

// Identity is the authenticated caller as asserted by a verified access token.
type Identity struct {
	UserID string
	Email  string
}

// ContextWithIdentity stores the caller identity on ctx.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, id.UserID)
	ctx = context.WithValue(ctx, CtxKeyEmail, id.Email)
	return ctx
}

// IdentityFromContext returns the caller identity set by AuthnMiddleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	userID, ok := ctx.Value(CtxKeyUserID).(string)
	if !ok || userID == "" {
		return Identity{}, false
	}
	email, _ := ctx.Value(CtxKeyEmail).(string)
	return Identity{UserID: userID, Email: email}, true
}
