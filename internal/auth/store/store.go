package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// ConflictError is returned when a write violates a unique constraint. Field
// names the offending column ("email", "username"). It matches
// ErrAlreadyExists with errors.Is.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return "store: " + e.Field + " already exists"
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// Store is the root data access interface. Concrete drivers implement this.
// It exposes sub-repositories to keep concerns tidy and testable, and so a
// transaction scoped store can hand out the same repos.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	LoginAttempts() LoginAttempts
	EmailVerifications() EmailVerifications
	Invites() Invites

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByUsername matches case-insensitively.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID). A taken
	// email or username returns a *ConflictError.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUserProfile writes email, phone and metadata and bumps updated_at.
	UpdateUserProfile(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// DeleteUser cascades to refresh_tokens (per schema).
	DeleteUser(ctx context.Context, userID string) error
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// ConsumeRefreshToken deletes the unexpired token with this hash in a
	// single statement and returns its owner. A token that is absent, expired
	// or already consumed returns ErrNotFound.
	ConsumeRefreshToken(ctx context.Context, hash string, now time.Time) (string, error)

	// DeleteRefreshToken removes one token owned by userID.
	DeleteRefreshToken(ctx context.Context, hash string, userID string) error

	// DeleteUserRefreshTokens removes every token of a user.
	DeleteUserRefreshTokens(ctx context.Context, userID string) error

	// DeleteExpiredUserRefreshTokens prunes a user's expired tokens.
	DeleteExpiredUserRefreshTokens(ctx context.Context, userID string, now time.Time) error
}

// LoginAttempts holds failed login records. Implemented by the sqlite driver
// and by the redis driver.
type LoginAttempts interface {
	// RecordLoginFailure appends a failure row.
	RecordLoginFailure(ctx context.Context, a domain.LoginAttempt) error

	// CountLoginFailuresSince counts failures for identifier created after since.
	CountLoginFailuresSince(ctx context.Context, identifier string, since time.Time) (int, error)

	// DeleteLoginAttempts removes every failure for identifier.
	DeleteLoginAttempts(ctx context.Context, identifier string) error

	// DeleteLoginAttemptsBefore prunes failures at or before cutoff.
	DeleteLoginAttemptsBefore(ctx context.Context, identifier string, cutoff time.Time) error
}

type EmailVerifications interface {
	// CreateEmailVerification stores a new unverified code.
	CreateEmailVerification(ctx context.Context, v domain.EmailVerification) error

	// CountByEmailSince counts rows for email created after since.
	CountByEmailSince(ctx context.Context, email string, since time.Time) (int, error)

	// CountByIPSince counts rows for ip created after since.
	CountByIPSince(ctx context.Context, ip string, since time.Time) (int, error)

	// DeleteExpired prunes the expired rows of one email.
	DeleteExpired(ctx context.Context, email string, now time.Time) error

	// GetPending returns the newest unverified, unexpired row matching
	// (email, code) exactly that has fewer than maxFailures wrong guesses.
	GetPending(ctx context.Context, email, code string, maxFailures int, now time.Time) (domain.EmailVerification, error)

	// RecordFailure counts a wrong guess against every pending code of email.
	RecordFailure(ctx context.Context, email string, now time.Time) error

	// HasExpiredCode reports whether an unverified row matching (email, code)
	// exists that has already expired.
	HasExpiredCode(ctx context.Context, email, code string, now time.Time) (bool, error)

	// MarkVerified flips verified and stores the token fingerprint. It only
	// succeeds once per row and only while the row is unexpired; otherwise
	// ErrNotFound.
	MarkVerified(ctx context.Context, id, tokenHash string, now time.Time) error

	// HasVerifiedToken reports whether (email, token) is redeemable at now.
	HasVerifiedToken(ctx context.Context, email, tokenHash string, now time.Time) (bool, error)

	// ConsumeVerifiedToken deletes the redeemable row for (email, token) in a
	// single statement. ErrNotFound when absent, expired or already consumed.
	ConsumeVerifiedToken(ctx context.Context, email, tokenHash string, now time.Time) error

	// DeleteByEmail removes every row for an email.
	DeleteByEmail(ctx context.Context, email string) error
}

type Invites interface {
	// CreateInvite writes a new invite. An existing code hash is left untouched.
	CreateInvite(ctx context.Context, inv domain.Invite) error

	// GetActiveInviteByCodeHash returns a reusable or not-yet-used invite.
	GetActiveInviteByCodeHash(ctx context.Context, hash string) (domain.Invite, error)

	// MarkInviteUsed sets used=1, used_by=userID. Returns ErrNotFound when a
	// single-use invite was already taken.
	MarkInviteUsed(ctx context.Context, inviteID string, usedByUserID string, now time.Time) error
}
