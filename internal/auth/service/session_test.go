package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	"github.com/aussiebroadwan/inkwell/pkg/cryptox"
	"github.com/aussiebroadwan/inkwell/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSignup(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	sess := h.signup(t, "Alice_01", "  Alice@Example.COM ")
	require.Equal(t, "alice@example.com", sess.User.Email)
	require.Equal(t, "Alice_01", sess.User.Username)
	require.NotEmpty(t, sess.AccessToken)
	require.NotEmpty(t, sess.RefreshToken)
	require.Equal(t, jwtx.DefaultAccessTokenTTL, sess.ExpiresIn)

	claims := h.codec.Verify(sess.AccessToken)
	require.NotNil(t, claims)
	require.Equal(t, sess.User.ID, claims.String(domain.ClaimSubject))
	require.Equal(t, "alice@example.com", claims.String(domain.ClaimEmail))

	stored, err := h.store.Users().GetUserByID(ctx, sess.User.ID)
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifyPassword(testPassword, stored.PasswordHash))

	tests := []struct {
		name string
		in   SignupInput
		want error
	}{
		{"bad username", SignupInput{Username: "a!", Email: "b@example.com", Password: testPassword}, domain.ErrInvalidUsername},
		{"bad email", SignupInput{Username: "bob", Email: "bob@", Password: testPassword}, domain.ErrInvalidEmail},
		{"short password", SignupInput{Username: "bob", Email: "bob@example.com", Password: "abc1"}, domain.ErrPasswordTooShort},
		{"password without digit", SignupInput{Username: "bob", Email: "bob@example.com", Password: "abcdefghij"}, domain.ErrPasswordMissingNumber},
		{"email taken", SignupInput{Username: "bob", Email: "ALICE@example.com", Password: testPassword}, ErrEmailAlreadyRegistered},
		{"username taken", SignupInput{Username: "alice_01", Email: "bob@example.com", Password: testPassword}, ErrUsernameAlreadyTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.sessions.Signup(ctx, tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSignupRequiresVerificationWhenConfigured(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.sessions.RequireVerification = true

	in := SignupInput{Username: "carol", Email: "carol@example.com", Password: testPassword}

	_, err := h.sessions.Signup(ctx, in)
	require.ErrorIs(t, err, ErrInvalidVerificationToken)

	in.VerificationToken = "made-up"
	_, err = h.sessions.Signup(ctx, in)
	require.ErrorIs(t, err, ErrInvalidVerificationToken)

	_, err = h.store.Users().GetUserByEmail(ctx, "carol@example.com")
	require.Error(t, err, "failed signup must not leave a user behind")

	_, err = h.verification.RequestCode(ctx, in.Email, "10.0.0.1", "en")
	require.NoError(t, err)
	v, err := h.verification.VerifyCode(ctx, in.Email, h.notifier.lastCode(t).Secret)
	require.NoError(t, err)

	in.VerificationToken = v.Token
	_, err = h.sessions.Signup(ctx, in)
	require.NoError(t, err)
}

func TestSignupWithInvites(t *testing.T) {
	ctx := context.Background()

	t.Run("single use code works once", func(t *testing.T) {
		h := newHarness(t)
		h.sessions.Invites = &InviteService{Store: h.store, Now: h.clock.Now, Codes: []string{"WELCOME"}, SingleUse: true}
		require.NoError(t, h.sessions.Invites.Seed(ctx))

		_, err := h.sessions.Signup(ctx, SignupInput{Username: "first", Email: "first@example.com", Password: testPassword})
		require.ErrorIs(t, err, ErrInvalidInviteCode)

		_, err = h.sessions.Signup(ctx, SignupInput{Username: "first", Email: "first@example.com", Password: testPassword, InviteCode: "nope"})
		require.ErrorIs(t, err, ErrInvalidInviteCode)

		_, err = h.sessions.Signup(ctx, SignupInput{Username: "first", Email: "first@example.com", Password: testPassword, InviteCode: "WELCOME"})
		require.NoError(t, err)

		_, err = h.sessions.Signup(ctx, SignupInput{Username: "second", Email: "second@example.com", Password: testPassword, InviteCode: "WELCOME"})
		require.ErrorIs(t, err, ErrInvalidInviteCode)

		_, err = h.store.Users().GetUserByUsername(ctx, "second")
		require.Error(t, err)
	})

	t.Run("reusable code works repeatedly", func(t *testing.T) {
		h := newHarness(t)
		h.sessions.Invites = &InviteService{Store: h.store, Now: h.clock.Now, Codes: []string{"FRIENDS"}}
		require.NoError(t, h.sessions.Invites.Seed(ctx))
		require.NoError(t, h.sessions.Invites.Seed(ctx))

		for _, name := range []string{"one", "two", "three"} {
			_, err := h.sessions.Signup(ctx, SignupInput{Username: name, Email: name + "@example.com", Password: testPassword, InviteCode: "FRIENDS"})
			require.NoError(t, err)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	user := h.signup(t, "dave", "dave@example.com").User

	t.Run("by email", func(t *testing.T) {
		sess, err := h.sessions.Login(ctx, "DAVE@example.com", testPassword, "10.0.0.1")
		require.NoError(t, err)
		require.Equal(t, user.ID, sess.User.ID)
	})

	t.Run("by username", func(t *testing.T) {
		sess, err := h.sessions.Login(ctx, " Dave ", testPassword, "10.0.0.1")
		require.NoError(t, err)
		require.Equal(t, user.ID, sess.User.ID)
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		_, err := h.sessions.Login(ctx, "dave", "wrong password 1", "10.0.0.1")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = h.sessions.Login(ctx, "nobody@example.com", testPassword, "10.0.0.1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginThrottling(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.signup(t, "erin", "erin@example.com")

	for range DefaultMaxLoginFailures {
		_, err := h.sessions.Login(ctx, "erin@example.com", "bad password 1", "10.0.0.2")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// Blocked even with the right password.
	_, err := h.sessions.Login(ctx, "erin@example.com", testPassword, "10.0.0.2")
	require.ErrorIs(t, err, ErrTooManyLoginAttempts)

	// The window slides past the failures.
	h.clock.Advance(DefaultLoginFailureWindow + time.Second)
	_, err = h.sessions.Login(ctx, "erin@example.com", testPassword, "10.0.0.2")
	require.NoError(t, err)
}

func TestLoginSuccessClearsFailures(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.signup(t, "frank", "frank@example.com")

	for range DefaultMaxLoginFailures - 1 {
		_, err := h.sessions.Login(ctx, "frank", "bad password 1", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err := h.sessions.Login(ctx, "frank", testPassword, "")
	require.NoError(t, err)

	for range DefaultMaxLoginFailures - 1 {
		_, err := h.sessions.Login(ctx, "frank", "bad password 1", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err = h.sessions.Login(ctx, "frank", testPassword, "")
	require.NoError(t, err)
}

func TestLoginUpgradesLegacyHash(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	user := h.signup(t, "grace", "grace@example.com").User

	legacy, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, h.store.Users().UpdatePasswordHash(ctx, user.ID, string(legacy)))

	_, err = h.sessions.Login(ctx, "grace", testPassword, "")
	require.NoError(t, err)

	stored, err := h.store.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, cryptox.IsLegacyHash(stored.PasswordHash))
	require.True(t, strings.HasPrefix(stored.PasswordHash, "$argon2id$"))
	require.NoError(t, cryptox.VerifyPassword(testPassword, stored.PasswordHash))
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	sess := h.signup(t, "heidi", "heidi@example.com")

	rotated, err := h.sessions.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, sess.User.ID, rotated.User.ID)
	require.NotEqual(t, sess.RefreshToken, rotated.RefreshToken)

	t.Run("reuse is rejected", func(t *testing.T) {
		_, err := h.sessions.Refresh(ctx, sess.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := h.sessions.Refresh(ctx, "")
		require.ErrorIs(t, err, ErrInvalidRefresh)
		_, err = h.sessions.Refresh(ctx, "not-a-token")
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("expired is rejected", func(t *testing.T) {
		h.clock.Advance(DefaultRefreshTokenTTL + time.Minute)
		_, err := h.sessions.Refresh(ctx, rotated.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})
}

func TestRefreshConcurrentReuse(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	sess := h.signup(t, "ivan", "ivan@example.com")

	const workers = 6
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = h.sessions.Refresh(ctx, sess.RefreshToken)
		}()
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, ErrInvalidRefresh)
	}
	require.Equal(t, 1, wins)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	first := h.signup(t, "judy", "judy@example.com")
	second, err := h.sessions.Login(ctx, "judy", testPassword, "")
	require.NoError(t, err)
	other := h.signup(t, "mallory", "mallory@example.com")

	t.Run("foreign token is ignored", func(t *testing.T) {
		require.NoError(t, h.sessions.Logout(ctx, first.User.ID, other.RefreshToken))
		_, err := h.sessions.Refresh(ctx, other.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("single token", func(t *testing.T) {
		require.NoError(t, h.sessions.Logout(ctx, first.User.ID, first.RefreshToken))
		_, err := h.sessions.Refresh(ctx, first.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)

		// Revoking twice is fine.
		require.NoError(t, h.sessions.Logout(ctx, first.User.ID, first.RefreshToken))
	})

	t.Run("everywhere", func(t *testing.T) {
		third, err := h.sessions.Login(ctx, "judy", testPassword, "")
		require.NoError(t, err)

		require.NoError(t, h.sessions.Logout(ctx, first.User.ID, ""))
		for _, raw := range []string{second.RefreshToken, third.RefreshToken} {
			_, err := h.sessions.Refresh(ctx, raw)
			require.ErrorIs(t, err, ErrInvalidRefresh)
		}
	})
}
