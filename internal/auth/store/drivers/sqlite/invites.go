package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	"github.com/aussiebroadwan/inkwell/internal/auth/store/drivers/sqlite/gen"
)

type invitesRepo struct {
	q *gen.Queries
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	return r.q.CreateInvite(ctx, gen.CreateInviteParams{
		ID:        inv.ID,
		CodeHash:  inv.CodeHash,
		Reusable:  inv.Reusable,
		CreatedAt: toMillis(inv.CreatedAt),
		UpdatedAt: toMillis(inv.UpdatedAt),
	})
}

func (r *invitesRepo) GetActiveInviteByCodeHash(
	ctx context.Context,
	hash string,
) (domain.Invite, error) {
	row, err := r.q.GetActiveInviteByCodeHash(ctx, hash)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return mapInvite(row), nil
}

func (r *invitesRepo) MarkInviteUsed(
	ctx context.Context,
	inviteID string,
	usedByUserID string,
	now time.Time,
) error {
	n, err := r.q.MarkInviteUsed(ctx, gen.MarkInviteUsedParams{
		UsedBy:    mapStringNull(usedByUserID),
		UpdatedAt: toMillis(now),
		ID:        inviteID,
	})
	return mapRowsAffected(n, err)
}
