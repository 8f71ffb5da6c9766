package sqlite

import (
	"context"
	"database/sql"

	"github.com/settingbr/setting/internal/setting/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, password_hash, organization_id, role, created_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) GetUserInOrg(ctx context.Context, orgID, userID string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ? AND organization_id = ?`,
		userID, orgID)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, organization_id, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, mapStringNull(u.OrganizationID), string(u.Role), u.CreatedAt)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateUserRole(ctx context.Context, orgID, userID string, role domain.Role) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET role = ? WHERE id = ? AND organization_id = ?`,
		string(role), userID, orgID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) AttachOrganization(ctx context.Context, userID, orgID string, role domain.Role) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET organization_id = ?, role = ? WHERE id = ? AND organization_id IS NULL`,
		orgID, string(role), userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) ListUsersByOrg(ctx context.Context, orgID string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE organization_id = ? ORDER BY created_at DESC, id DESC`,
		orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) CountAdmins(ctx context.Context, orgID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE organization_id = ? AND role = 'admin'`,
		orgID).Scan(&n)
	return n, err
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u     domain.User
		orgID sql.NullString
		role  string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &orgID, &role, &u.CreatedAt); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.OrganizationID = mapNullString(orgID)
	u.Role = domain.Role(role)
	return u, nil
}

// requireRow maps a zero-row UPDATE to store.ErrNotFound so org-scoped
// writes against foreign rows look like writes against absent rows.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errNoRows
	}
	return nil
}
