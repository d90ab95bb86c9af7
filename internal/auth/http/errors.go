package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	"github.com/aussiebroadwan/inkwell/internal/auth/service"
	"github.com/aussiebroadwan/inkwell/pkg/authsdk"
	"github.com/aussiebroadwan/inkwell/pkg/httpx"
	"github.com/aussiebroadwan/inkwell/pkg/slogx"
)

// errorStatus maps client-facing errors to their status. The error text is
// the code written to the body.
var errorStatus = []struct {
	err    error
	status int
}{
	{httpx.ErrInvalidBody, http.StatusBadRequest},

	{domain.ErrInvalidUsername, http.StatusBadRequest},
	{domain.ErrInvalidEmail, http.StatusBadRequest},
	{domain.ErrPasswordTooShort, http.StatusBadRequest},
	{domain.ErrPasswordTooLong, http.StatusBadRequest},
	{domain.ErrPasswordMissingLetter, http.StatusBadRequest},
	{domain.ErrPasswordMissingNumber, http.StatusBadRequest},

	{service.ErrInvalidVerificationToken, http.StatusBadRequest},
	{service.ErrInvalidCode, http.StatusBadRequest},
	{service.ErrCodeExpired, http.StatusBadRequest},
	{service.ErrInvalidResetToken, http.StatusBadRequest},
	{service.ErrNothingToUpdate, http.StatusBadRequest},

	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrInvalidRefresh, http.StatusUnauthorized},
	{service.ErrIncorrectCurrentPassword, http.StatusUnauthorized},

	{service.ErrInvalidInviteCode, http.StatusForbidden},
	{service.ErrUserNotFound, http.StatusNotFound},

	{service.ErrEmailAlreadyRegistered, http.StatusConflict},
	{service.ErrUsernameAlreadyTaken, http.StatusConflict},

	{service.ErrTooManyLoginAttempts, http.StatusTooManyRequests},
	{service.ErrVerificationRateLimited, http.StatusTooManyRequests},
}

// writeError answers err with its mapped status and code. Anything unmapped
// is logged and answered 500 server_error.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			httpx.WriteError(w, e.status, e.err.Error())
			return
		}
	}

	slogx.FromContext(r.Context()).Error(msg, slog.Any("err", err))
	httpx.WriteError(w, http.StatusInternalServerError, authsdk.ErrorCodeServerError)
}

// writeMissingFields answers 400 missing_fields.
func writeMissingFields(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusBadRequest, authsdk.ErrorCodeMissingFields)
}

// identity returns the caller set by AuthnMiddleware. Handlers behind the
// middleware can rely on it; a missing identity is answered 401.
func identity(w http.ResponseWriter, r *http.Request) (httpx.Identity, bool) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized)
		return httpx.Identity{}, false
	}
	return id, true
}

// requestLang prefers the body's lang and falls back to Accept-Language.
func requestLang(r *http.Request, lang string) string {
	if lang != "" {
		return lang
	}
	return r.Header.Get("Accept-Language")
}
