package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	"github.com/aussiebroadwan/inkwell/internal/auth/store"
	"github.com/aussiebroadwan/inkwell/internal/auth/store/drivers/sqlite/gen"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

// DSN builds a connection string for a database file. Pragmas are applied by
// the driver on every new connection, and write transactions take the lock up
// front so concurrent consumers queue on busy_timeout instead of failing.
func DSN(path string) string {
	return "file:" + path +
		"?_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_txlock=immediate"
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Rollback is a no-op after a successful commit
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users                           { return &usersRepo{q: s.q} }
func (s *Store) RefreshTokens() store.RefreshTokens           { return &refreshTokensRepo{q: s.q} }
func (s *Store) LoginAttempts() store.LoginAttempts           { return &loginAttemptsRepo{q: s.q} }
func (s *Store) EmailVerifications() store.EmailVerifications { return &emailVerificationsRepo{q: s.q} }
func (s *Store) Invites() store.Invites                       { return &invitesRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapRowsAffected turns a zero-row write into store.ErrNotFound.
func mapRowsAffected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// mapConflict converts unique constraint violations into store errors.
func mapConflict(err error) error {
	var se *sqlitedrv.Error
	if !errors.As(err, &se) {
		return err
	}

	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
	default:
		return err
	}

	msg := se.Error()
	switch {
	case strings.Contains(msg, "users.email"):
		return &store.ConflictError{Field: "email"}
	case strings.Contains(msg, "users.username"):
		return &store.ConflictError{Field: "username"}
	default:
		return store.ErrAlreadyExists
	}
}

// consume runs a DELETE ... RETURNING statement that removes at most one
// redeemable row. The statement is atomic, so of two concurrent redemptions
// of the same secret exactly one sees the row and the other gets
// store.ErrNotFound.
func consume(ctx context.Context, del func(context.Context) (string, error)) (string, error) {
	id, err := del(ctx)
	if err != nil {
		return "", mapNotFound(err)
	}
	return id, nil
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func encodeMetadata(m map[string]any) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeMetadata(s string) map[string]any {
	out := map[string]any{}
	if s == "" {
		return out
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return map[string]any{}
	}
	return out
}

func mapUser(row gen.User) domain.User {
	return domain.User{
		ID:           row.ID,
		Email:        row.Email,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		Phone:        mapNullString(row.Phone),
		Metadata:     decodeMetadata(row.Metadata),
		CreatedAt:    fromMillis(row.CreatedAt),
		UpdatedAt:    fromMillis(row.UpdatedAt),
	}
}

func mapEmailVerification(row gen.EmailVerification) domain.EmailVerification {
	return domain.EmailVerification{
		ID:                    row.ID,
		Email:                 row.Email,
		Code:                  row.Code,
		IPAddress:             row.IpAddress,
		Verified:              row.Verified,
		VerificationTokenHash: mapNullString(row.VerificationTokenHash),
		ExpiresAt:             fromMillis(row.ExpiresAt),
		CreatedAt:             fromMillis(row.CreatedAt),
		FailedAttempts:        int(row.FailedAttempts),
	}
}

func mapInvite(row gen.Invite) domain.Invite {
	return domain.Invite{
		ID:        row.ID,
		CodeHash:  row.CodeHash,
		Reusable:  row.Reusable,
		Used:      row.Used,
		UsedBy:    mapNullString(row.UsedBy),
		CreatedAt: fromMillis(row.CreatedAt),
		UpdatedAt: fromMillis(row.UpdatedAt),
	}
}
