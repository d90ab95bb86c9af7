package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	"github.com/aussiebroadwan/inkwell/internal/auth/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row, err := r.q.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	metadata, err := encodeMetadata(u.Metadata)
	if err != nil {
		return err
	}

	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	updatedAt := u.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	err = r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Phone:        mapStringNull(u.Phone),
		Metadata:     metadata,
		CreatedAt:    toMillis(createdAt),
		UpdatedAt:    toMillis(updatedAt),
	})
	return mapConflict(err)
}

func (r *usersRepo) UpdateUserProfile(ctx context.Context, u domain.User) error {
	metadata, err := encodeMetadata(u.Metadata)
	if err != nil {
		return err
	}

	updatedAt := u.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	n, err := r.q.UpdateUserProfile(ctx, gen.UpdateUserProfileParams{
		Email:     u.Email,
		Phone:     mapStringNull(u.Phone),
		Metadata:  metadata,
		UpdatedAt: toMillis(updatedAt),
		ID:        u.ID,
	})
	return mapRowsAffected(n, mapConflict(err))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	n, err := r.q.UpdateUserPasswordHash(ctx, gen.UpdateUserPasswordHashParams{
		PasswordHash: newHash,
		UpdatedAt:    toMillis(time.Now()),
		ID:           userID,
	})
	return mapRowsAffected(n, err)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	n, err := r.q.DeleteUser(ctx, userID)
	return mapRowsAffected(n, err)
}
