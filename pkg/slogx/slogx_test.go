package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/inkwell/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestFromContextFallsBackToDefault(t *testing.T) {
	require.Same(t, slog.Default(), slogx.FromContext(context.Background()))
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slogx.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set(slogx.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "req-123", rec.Header().Get(slogx.RequestIDHeader))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inner, access map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	require.NoError(t, json.Unmarshal(lines[1], &access))

	require.Equal(t, "req-123", inner["req_id"])
	require.Equal(t, "http_request", access["msg"])
	require.Equal(t, "WARN", access["level"])
	require.Equal(t, float64(http.StatusTeapot), access["status"])
	require.Equal(t, float64(len("short and stout")), access["bytes"])
	require.Equal(t, "/auth/me", access["path"])
}

func TestHTTPMiddlewareGeneratesRequestID(t *testing.T) {
	base := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.Len(t, rec.Header().Get(slogx.RequestIDHeader), 26)
}

func TestNewRedactsSecrets(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{
		Service: "auth-service",
		Version: "test",
		Env:     "test",
		Level:   "debug",
		Output:  &buf,
	})

	logger.Info("login",
		slog.String("password", "hunter2"),
		slog.String("refresh_token", "opaque"),
		slog.String("email", "al***@example.com"),
	)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, slogx.Redacted, line["password"])
	require.Equal(t, slogx.Redacted, line["refresh_token"])
	require.Equal(t, "al***@example.com", line["email"])
	require.Equal(t, "auth-service", line["service"])
	require.NotContains(t, line, "source", "source is only added in dev")
	require.Same(t, logger, slog.Default())
}

func TestWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	ctx := slogx.WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx = slogx.With(ctx, "user_id", "u-1")
	slogx.FromContext(ctx).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "u-1", line["user_id"])
}
