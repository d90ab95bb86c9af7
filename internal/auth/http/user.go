package http

import (
	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	"github.com/aussiebroadwan/inkwell/internal/auth/service"
	"github.com/aussiebroadwan/inkwell/pkg/authsdk"
)

func toUser(u domain.User) authsdk.User {
	data := u.Metadata
	if data == nil {
		data = map[string]any{}
	}
	return authsdk.User{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Phone:     u.Phone,
		Data:      data,
		CreatedAt: u.CreatedAt,
	}
}

func toAuthResponse(s service.Session) authsdk.AuthResponse {
	return authsdk.AuthResponse{
		User:         toUser(s.User),
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    int(s.ExpiresIn.Seconds()),
	}
}
