package http

import (
	"net/http"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	"github.com/aussiebroadwan/inkwell/internal/auth/service"
	"github.com/aussiebroadwan/inkwell/pkg/authsdk"
	"github.com/aussiebroadwan/inkwell/pkg/httpx"
)

type AccountHandler struct {
	Accounts *service.AccountService
}

// HandleMe godoc
//
//	@Summary		Current User Endpoint
//	@Description	Return the profile of the user behind the access token
//	@Tags			Account
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.User			"id, email, username, phone, data, created_at"
//	@Failure		401	{object}	authsdk.ErrorResponse	"unauthorized"
//	@Failure		404	{object}	authsdk.ErrorResponse	"user_not_found"
//	@Router			/auth/me [get].
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	user, err := h.Accounts.Me(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, err, "get current user")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}

// HandleUpdate godoc
//
//	@Summary		Update User Endpoint
//	@Description	Partially update the profile. data is merged into the stored metadata key by key; a null value removes the key.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		authsdk.UpdateUserRequest	true	"data, email, phone"
//	@Success		200		{object}	authsdk.User				"updated user"
//	@Failure		400		{object}	authsdk.ErrorResponse		"nothing_to_update, invalid_email"
//	@Failure		401		{object}	authsdk.ErrorResponse		"unauthorized"
//	@Failure		404		{object}	authsdk.ErrorResponse		"user_not_found"
//	@Failure		409		{object}	authsdk.ErrorResponse		"email_already_registered"
//	@Router			/auth/user [put].
func (h *AccountHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req authsdk.UpdateUserRequest
	if err := httpx.DecodeJSON(w, r, &req, true); err != nil {
		writeError(w, r, err, "decode update user")
		return
	}

	user, err := h.Accounts.UpdateUser(r.Context(), id.UserID, domain.UserUpdate{
		Email:    req.Email,
		Phone:    req.Phone,
		Metadata: req.Data,
	})
	if err != nil {
		writeError(w, r, err, "update user failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}

// HandleChangePassword godoc
//
//	@Summary		Change Password Endpoint
//	@Description	Replace the password after checking the current one. Existing sessions stay valid.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		authsdk.ChangePasswordRequest	true	"current_password, new_password"
//	@Success		200		{object}	authsdk.SuccessResponse			"success"
//	@Failure		400		{object}	authsdk.ErrorResponse			"password_*, missing_fields"
//	@Failure		401		{object}	authsdk.ErrorResponse			"incorrect_current_password, unauthorized"
//	@Failure		404		{object}	authsdk.ErrorResponse			"user_not_found"
//	@Router			/auth/change-password [post].
func (h *AccountHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req authsdk.ChangePasswordRequest
	if err := httpx.DecodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err, "decode change password")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeMissingFields(w)
		return
	}

	if err := h.Accounts.ChangePassword(r.Context(), id.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, err, "change password failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SuccessResponse{Success: true})
}

// HandleDelete godoc
//
//	@Summary		Delete Account Endpoint
//	@Description	Delete the caller's account together with its sessions, verification codes and login failures
//	@Tags			Account
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.SuccessResponse	"success"
//	@Failure		401	{object}	authsdk.ErrorResponse	"unauthorized"
//	@Failure		404	{object}	authsdk.ErrorResponse	"user_not_found"
//	@Router			/auth/account [delete].
func (h *AccountHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.Accounts.DeleteAccount(r.Context(), id.UserID); err != nil {
		writeError(w, r, err, "delete account failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SuccessResponse{Success: true})
}
