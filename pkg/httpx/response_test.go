package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/inkwell/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteError(rec, http.StatusConflict, "email_already_registered")

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"error":"email_already_registered"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Login string `json:"login"`
	}

	tests := []struct {
		name       string
		body       string
		allowEmpty bool
		wantErr    bool
		want       string
	}{
		{"valid", `{"login":"alice"}`, false, false, "alice"},
		{"unknown fields ignored", `{"login":"alice","extra":1}`, false, false, "alice"},
		{"empty body rejected", ``, false, true, ""},
		{"empty body allowed", ``, true, false, ""},
		{"malformed", `{"login":`, false, true, ""},
		{"wrong type", `{"login":5}`, false, true, ""},
		{"trailing data", `{"login":"a"}{"login":"b"}`, false, true, ""},
		{"oversized", `{"login":"` + strings.Repeat("a", httpx.MaxBodyBytes) + `"}`, false, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload
			err := httpx.DecodeJSON(httptest.NewRecorder(), req, &p, tt.allowEmpty)
			if tt.wantErr {
				require.ErrorIs(t, err, httpx.ErrInvalidBody)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, p.Login)
		})
	}
}
