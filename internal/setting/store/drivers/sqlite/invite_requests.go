package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/settingbr/setting/internal/setting/domain"
)

type inviteRequestsRepo struct {
	db dbtx
}

const inviteRequestColumns = `id, name, email, message, handled, handled_at, invite_code, created_at`

func (r *inviteRequestsRepo) CreateInviteRequest(ctx context.Context, req domain.InviteRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invite_requests
		   (id, name, email, message, handled, handled_at, invite_code, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.Name, req.Email, req.Message, req.Handled,
		mapOptionalTime(req.HandledAt), req.InviteCode, req.CreatedAt)
	return mapConstraint(err)
}

func (r *inviteRequestsRepo) GetInviteRequestByID(ctx context.Context, id string) (domain.InviteRequest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+inviteRequestColumns+` FROM invite_requests WHERE id = ?`, id)
	return scanInviteRequest(row)
}

func (r *inviteRequestsRepo) ListInviteRequests(ctx context.Context, limit int) ([]domain.InviteRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+inviteRequestColumns+` FROM invite_requests
		 ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.InviteRequest
	for rows.Next() {
		req, err := scanInviteRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// MarkInviteRequestHandled is guarded on handled = 0 so a request can only
// be approved once, even under concurrent admins.
func (r *inviteRequestsRepo) MarkInviteRequestHandled(ctx context.Context, id, inviteCode string, handledAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invite_requests
		 SET handled = 1, handled_at = ?, invite_code = ?
		 WHERE id = ? AND handled = 0`,
		handledAt, inviteCode, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanInviteRequest(row rowScanner) (domain.InviteRequest, error) {
	var (
		req       domain.InviteRequest
		handledAt sql.NullTime
	)
	err := row.Scan(&req.ID, &req.Name, &req.Email, &req.Message, &req.Handled,
		&handledAt, &req.InviteCode, &req.CreatedAt)
	if err != nil {
		return domain.InviteRequest{}, mapNotFound(err)
	}
	req.HandledAt = mapNullTimePtr(handledAt)
	return req, nil
}
