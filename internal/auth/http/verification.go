package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/inkwell/internal/auth/service"
	"github.com/aussiebroadwan/inkwell/pkg/authsdk"
	"github.com/aussiebroadwan/inkwell/pkg/httpx"
)

type VerificationHandler struct {
	Verifications *service.EmailVerificationService
}

// HandleSendCode godoc
//
//	@Summary		Send Verification Code Endpoint
//	@Description	Mail a six digit code to an email address that is not registered yet. Limited to three codes per email and ten per client IP in ten minutes.
//	@Tags			Email Verification
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.SendVerificationCodeRequest		true	"email, lang"
//	@Success		200		{object}	authsdk.SendVerificationCodeResponse	"sent"
//	@Failure		400		{object}	authsdk.ErrorResponse					"invalid_email, missing_fields"
//	@Failure		409		{object}	authsdk.ErrorResponse					"email_already_registered"
//	@Failure		429		{object}	authsdk.ErrorResponse					"rate_limit"
//	@Failure		500		{object}	authsdk.ErrorResponse					"server_error"
//	@Router			/auth/send-verification-code [post].
func (h *VerificationHandler) HandleSendCode(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SendVerificationCodeRequest
	if err := httpx.DecodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err, "decode send verification code")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeMissingFields(w)
		return
	}

	_, err := h.Verifications.RequestCode(r.Context(), req.Email, httpx.IPKeyExtractor(r), requestLang(r, req.Lang))
	if err != nil {
		writeError(w, r, err, "send verification code failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SendVerificationCodeResponse{Sent: true})
}

// HandleVerifyCode godoc
//
//	@Summary		Verify Email Code Endpoint
//	@Description	Exchange a mailed code for a verification token to pass to signup. A code can be exchanged once, and five wrong guesses retire the pending codes of the email.
//	@Tags			Email Verification
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.VerifyEmailCodeRequest	true	"email, code"
//	@Success		200		{object}	authsdk.VerifyEmailCodeResponse	"verified, verification_token"
//	@Failure		400		{object}	authsdk.ErrorResponse			"invalid_code, expired, missing_fields"
//	@Router			/auth/verify-email-code [post].
func (h *VerificationHandler) HandleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req authsdk.VerifyEmailCodeRequest
	if err := httpx.DecodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err, "decode verify email code")
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Code) == "" {
		writeMissingFields(w)
		return
	}

	v, err := h.Verifications.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		writeError(w, r, err, "verify email code failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.VerifyEmailCodeResponse{
		Verified:          true,
		VerificationToken: v.Token,
	})
}

// HandleValidateToken godoc
//
//	@Summary		Validate Email Token Endpoint
//	@Description	Report whether signup would accept a verification token for an email. The token is not consumed.
//	@Tags			Email Verification
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.ValidateEmailTokenRequest	true	"email, verification_token"
//	@Success		200		{object}	authsdk.ValidateEmailTokenResponse	"valid"
//	@Failure		400		{object}	authsdk.ErrorResponse				"missing_fields"
//	@Router			/auth/validate-email-token [post].
func (h *VerificationHandler) HandleValidateToken(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ValidateEmailTokenRequest
	if err := httpx.DecodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err, "decode validate email token")
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.VerificationToken) == "" {
		writeMissingFields(w)
		return
	}

	valid, err := h.Verifications.ValidateToken(r.Context(), req.Email, req.VerificationToken)
	if err != nil {
		writeError(w, r, err, "validate email token failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.ValidateEmailTokenResponse{Valid: valid})
}
