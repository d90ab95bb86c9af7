package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/inkwell/internal/auth/service"
	"github.com/aussiebroadwan/inkwell/pkg/authsdk"
	"github.com/aussiebroadwan/inkwell/pkg/httpx"
)

type SessionHandler struct {
	Sessions *service.SessionService
}

// HandleSignup godoc
//
//	@Summary		Signup Endpoint
//	@Description	Create an account and sign in. verification_token is required when the server enforces email verification; invite_code when invite codes are configured.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.SignupRequest	true	"username, email, password"
//	@Success		201		{object}	authsdk.AuthResponse	"user, accessToken, refreshToken, expiresIn"
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid_username_format, invalid_email, password_*, invalid_verification_token, missing_fields"
//	@Failure		403		{object}	authsdk.ErrorResponse	"invalid_invite_code"
//	@Failure		409		{object}	authsdk.ErrorResponse	"email_already_registered, username_already_taken"
//	@Failure		429		{object}	authsdk.ErrorResponse	"rate_limit_exceeded"
//	@Failure		500		{object}	authsdk.ErrorResponse	"server_error"
//	@Router			/auth/signup [post].
func (h *SessionHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SignupRequest
	if err := httpx.DecodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err, "decode signup")
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeMissingFields(w)
		return
	}

	sess, err := h.Sessions.Signup(r.Context(), service.SignupInput{
		Username:          req.Username,
		Email:             req.Email,
		Password:          req.Password,
		Phone:             req.Phone,
		VerificationToken: req.VerificationToken,
		InviteCode:        req.InviteCode,
	})
	if err != nil {
		writeError(w, r, err, "signup failed")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toAuthResponse(sess))
}

// HandleLogin godoc
//
//	@Summary		Login Endpoint
//	@Description	Sign in with an email or username. Five failures within fifteen minutes block the identifier until the window slides past them.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.LoginRequest	true	"login, password"
//	@Success		200		{object}	authsdk.AuthResponse	"user, accessToken, refreshToken, expiresIn"
//	@Failure		400		{object}	authsdk.ErrorResponse	"missing_fields, invalid_request"
//	@Failure		401		{object}	authsdk.ErrorResponse	"invalid_credentials"
//	@Failure		429		{object}	authsdk.ErrorResponse	"too_many_login_attempts, rate_limit_exceeded"
//	@Failure		500		{object}	authsdk.ErrorResponse	"server_error"
//	@Router			/auth/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err, "decode login")
		return
	}
	if strings.TrimSpace(req.Login) == "" || req.Password == "" {
		writeMissingFields(w)
		return
	}

	sess, err := h.Sessions.Login(r.Context(), req.Login, req.Password, httpx.IPKeyExtractor(r))
	if err != nil {
		writeError(w, r, err, "login failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAuthResponse(sess))
}

// HandleRefresh godoc
//
//	@Summary		Refresh Endpoint
//	@Description	Exchange a refresh token for a new access and refresh token. The presented refresh token is consumed.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RefreshRequest	true	"refresh_token"
//	@Success		200		{object}	authsdk.AuthResponse	"user, accessToken, refreshToken, expiresIn"
//	@Failure		400		{object}	authsdk.ErrorResponse	"missing_fields, invalid_request"
//	@Failure		401		{object}	authsdk.ErrorResponse	"invalid_refresh_token"
//	@Failure		500		{object}	authsdk.ErrorResponse	"server_error"
//	@Router			/auth/refresh [post].
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if err := httpx.DecodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err, "decode refresh")
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		writeMissingFields(w)
		return
	}

	sess, err := h.Sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err, "refresh failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAuthResponse(sess))
}

// HandleLogout godoc
//
//	@Summary		Logout Endpoint
//	@Description	Revoke one refresh token of the caller, or all of them when refresh_token is omitted.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		authsdk.LogoutRequest	false	"refresh_token"
//	@Success		200		{object}	authsdk.SuccessResponse	"success"
//	@Failure		401		{object}	authsdk.ErrorResponse	"unauthorized"
//	@Failure		500		{object}	authsdk.ErrorResponse	"server_error"
//	@Router			/auth/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req authsdk.LogoutRequest
	if err := httpx.DecodeJSON(w, r, &req, true); err != nil {
		writeError(w, r, err, "decode logout")
		return
	}

	if err := h.Sessions.Logout(r.Context(), id.UserID, req.RefreshToken); err != nil {
		writeError(w, r, err, "logout failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SuccessResponse{Success: true})
}
