package sqlite

import (
	"context"
	"database/sql"

	"github.com/settingbr/setting/internal/setting/domain"
)

type invitesRepo struct {
	db dbtx
}

const inviteColumns = `id, code, organization_id, role, max_uses, uses, expires_at, revoked, created_by, created_at`

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.InviteCode) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invite_codes
		   (id, code, organization_id, role, max_uses, uses, expires_at, revoked, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Code, inv.OrganizationID, string(inv.Role), inv.MaxUses, inv.Uses,
		mapOptionalTime(inv.ExpiresAt), inv.Revoked, inv.CreatedBy, inv.CreatedAt)
	return mapConstraint(err)
}

func (r *invitesRepo) GetInviteByCode(ctx context.Context, code string) (domain.InviteCode, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invite_codes WHERE code = ?`, code)
	return scanInvite(row)
}

func (r *invitesRepo) GetInviteInOrg(ctx context.Context, orgID, code string) (domain.InviteCode, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invite_codes WHERE code = ? AND organization_id = ?`,
		code, orgID)
	return scanInvite(row)
}

func (r *invitesRepo) ListInvitesByOrg(ctx context.Context, orgID string, limit int) ([]domain.InviteCode, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+inviteColumns+` FROM invite_codes
		 WHERE organization_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []domain.InviteCode
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

// ConsumeInviteUse is the serialization point for redemption: the increment
// and the remaining-use check happen in one statement, so two concurrent
// redeemers of a single-use code cannot both succeed.
func (r *invitesRepo) ConsumeInviteUse(ctx context.Context, inviteID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invite_codes SET uses = uses + 1
		 WHERE id = ? AND revoked = 0 AND uses < max_uses`,
		inviteID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *invitesRepo) RevokeInvite(ctx context.Context, orgID, inviteID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invite_codes SET revoked = 1 WHERE id = ? AND organization_id = ?`,
		inviteID, orgID)
	if err != nil {
		return err
	}
	// Idempotent for invites we can see; invisible (cross-tenant or absent)
	// invites surface as not found.
	return requireRow(res)
}

func scanInvite(row rowScanner) (domain.InviteCode, error) {
	var (
		inv       domain.InviteCode
		role      string
		expiresAt sql.NullTime
	)
	err := row.Scan(&inv.ID, &inv.Code, &inv.OrganizationID, &role, &inv.MaxUses,
		&inv.Uses, &expiresAt, &inv.Revoked, &inv.CreatedBy, &inv.CreatedAt)
	if err != nil {
		return domain.InviteCode{}, mapNotFound(err)
	}
	inv.Role = domain.Role(role)
	inv.ExpiresAt = mapNullTimePtr(expiresAt)
	return inv, nil
}
