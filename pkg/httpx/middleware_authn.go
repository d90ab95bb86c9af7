package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/inkwell/pkg/jwtx"
	"github.com/aussiebroadwan/inkwell/pkg/slogx"
)

// Claim names read from access tokens.
const (
	claimSubject = "sub"
	claimEmail   = "email"
	claimPurpose = "purpose"
)

// AuthnMiddleware requires a valid bearer access token. Tokens carrying a
// purpose claim (for example password reset tokens) are not access tokens and
// are rejected. On success the caller identity is put on the request context
// and the request logger gains user_id.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := bearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims := v.Verify(raw)
			if claims == nil {
				log.Debug("access token rejected")
				writeBearerError(w, "token invalid or expired")
				return
			}

			sub := claims.String(claimSubject)
			if sub == "" || claims.Has(claimPurpose) {
				log.Warn("token is not an access token")
				writeBearerError(w, "token invalid or expired")
				return
			}

			ctx = ContextWithIdentity(ctx, Identity{
				UserID: sub,
				Email:  claims.String(claimEmail),
			})
			ctx = slogx.With(ctx, "user_id", sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized")
}
