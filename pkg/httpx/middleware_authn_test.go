package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/inkwell/pkg/httpx"
	"github.com/aussiebroadwan/inkwell/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestAuthnMiddleware(t *testing.T) {
	codec, err := jwtx.NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	var seen httpx.Identity
	protected := httpx.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := httpx.IdentityFromContext(r.Context())
			require.True(t, ok)
			seen = id
			w.WriteHeader(http.StatusNoContent)
		}),
		httpx.AuthnMiddleware(codec),
	)

	mint := func(claims jwtx.Claims) string {
		tok, err := codec.Generate(claims, time.Minute)
		require.NoError(t, err)
		return tok
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"reset token", "Bearer " + mint(jwtx.Claims{"sub": "u1", "purpose": "reset"}), http.StatusUnauthorized},
		{"missing subject", "Bearer " + mint(jwtx.Claims{"email": "a@x.com"}), http.StatusUnauthorized},
		{"valid token", "Bearer " + mint(jwtx.Claims{"sub": "u1", "email": "a@x.com"}), http.StatusNoContent},
		{"lowercase scheme", "bearer " + mint(jwtx.Claims{"sub": "u1", "email": "a@x.com"}), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				require.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
				require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
			}
		})
	}

	require.Equal(t, httpx.Identity{UserID: "u1", Email: "a@x.com"}, seen)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestIdentityFromContextEmpty(t *testing.T) {
	_, ok := httpx.IdentityFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	require.False(t, ok)
}
