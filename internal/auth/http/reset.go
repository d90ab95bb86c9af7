package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/inkwell/internal/auth/service"
	"github.com/aussiebroadwan/inkwell/pkg/authsdk"
	"github.com/aussiebroadwan/inkwell/pkg/httpx"
)

type PasswordResetHandler struct {
	Resets *service.PasswordResetService
}

// HandleRequest godoc
//
//	@Summary		Password Reset Request Endpoint
//	@Description	Mail a password reset link to the account behind login. The answer is the same whether or not the account exists, apart from maskedEmail. The mail is sent in the background.
//	@Tags			Password Reset
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.PasswordResetRequest			true	"login, lang"
//	@Success		200		{object}	authsdk.PasswordResetRequestResponse	"sent, maskedEmail"
//	@Failure		400		{object}	authsdk.ErrorResponse					"missing_fields"
//	@Failure		429		{object}	authsdk.ErrorResponse					"rate_limit_exceeded"
//	@Router			/auth/reset-password-request [post].
func (h *PasswordResetHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	var req authsdk.PasswordResetRequest
	if err := httpx.DecodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err, "decode reset request")
		return
	}
	if strings.TrimSpace(req.Login) == "" {
		writeMissingFields(w)
		return
	}

	masked, err := h.Resets.Request(r.Context(), req.Login, requestLang(r, req.Lang))
	if err != nil {
		writeError(w, r, err, "password reset request failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.PasswordResetRequestResponse{
		Sent:        true,
		MaskedEmail: masked,
	})
}

// HandleReset godoc
//
//	@Summary		Password Reset Endpoint
//	@Description	Set a new password with a mailed reset token. Every session of the user is revoked.
//	@Tags			Password Reset
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.ResetPasswordRequest	true	"token, new_password"
//	@Success		200		{object}	authsdk.SuccessResponse			"success"
//	@Failure		400		{object}	authsdk.ErrorResponse			"invalid_or_expired_token, password_*, missing_fields"
//	@Router			/auth/reset-password [post].
func (h *PasswordResetHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ResetPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err, "decode reset password")
		return
	}
	if strings.TrimSpace(req.Token) == "" || req.NewPassword == "" {
		writeMissingFields(w)
		return
	}

	if err := h.Resets.Reset(r.Context(), req.Token, req.NewPassword); err != nil {
		writeError(w, r, err, "password reset failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SuccessResponse{Success: true})
}
