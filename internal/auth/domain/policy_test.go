package domain_test

import (
	"strings"
	"testing"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"simple", "alice", false},
		{"underscore and digits", "al_ice_99", false},
		{"min length", "abc", false},
		{"max length", strings.Repeat("a", 20), false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 21), true},
		{"dash", "al-ice", true},
		{"space", "al ice", true},
		{"at sign", "al@ice", true},
		{"unicode", "alicé", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateUsername(tt.username)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidUsername)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     error
	}{
		{"accepted", "Passw0rd", nil},
		{"long accepted", strings.Repeat("a", 127) + "1", nil},
		{"too short", "Pass0", domain.ErrPasswordTooShort},
		{"too long", strings.Repeat("a", 128) + "1", domain.ErrPasswordTooLong},
		{"no letter", "12345678", domain.ErrPasswordMissingLetter},
		{"no digit", "Password", domain.ErrPasswordMissingNumber},
		{"unicode letters count", "пароль12", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidatePassword(tt.password)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	require.NoError(t, domain.ValidateEmail("a@x.com"))
	require.NoError(t, domain.ValidateEmail("first.last+tag@sub.example.org"))
	require.ErrorIs(t, domain.ValidateEmail("no-at-sign"), domain.ErrInvalidEmail)
	require.ErrorIs(t, domain.ValidateEmail("a@b"), domain.ErrInvalidEmail)
	require.ErrorIs(t, domain.ValidateEmail(""), domain.ErrInvalidEmail)
}

func TestNormalizeIdentifier(t *testing.T) {
	require.Equal(t, "alice", domain.NormalizeIdentifier("  Alice "))
	require.Equal(t, "a@x.com", domain.NormalizeEmail("A@X.COM"))

	// Fullwidth forms fold to ASCII under NFKC.
	require.Equal(t, "alice", domain.NormalizeIdentifier("ＡＬＩＣＥ"))
}

func TestMaskEmail(t *testing.T) {
	require.Equal(t, "al***@example.com", domain.MaskEmail("alice@example.com"))
	require.Equal(t, "a***@x.com", domain.MaskEmail("ab@x.com"))
	require.Equal(t, "a***@x.com", domain.MaskEmail("a@x.com"))
	require.Equal(t, "***", domain.MaskEmail("broken"))
}

func TestMergeMetadata(t *testing.T) {
	current := map[string]any{"theme": "dark", "streak": 3}
	merged := domain.MergeMetadata(current, map[string]any{"theme": "light", "streak": nil, "tz": "UTC"})

	require.Equal(t, map[string]any{"theme": "light", "tz": "UTC"}, merged)
	require.Equal(t, "dark", current["theme"], "input map must not be mutated")
}
