package sqlite

import (
	"context"

	"github.com/settingbr/setting/internal/setting/domain"
)

type organizationsRepo struct {
	db dbtx
}

const organizationColumns = `id, name, created_at`

func (r *organizationsRepo) GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE id = ?`, id)
	return scanOrganization(row)
}

func (r *organizationsRepo) GetOrganizationByName(ctx context.Context, name string) (domain.Organization, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE name = ?`, name)
	return scanOrganization(row)
}

func (r *organizationsRepo) CreateOrganization(ctx context.Context, o domain.Organization) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO organizations (id, name, created_at) VALUES (?, ?, ?)`,
		o.ID, o.Name, o.CreatedAt)
	return mapConstraint(err)
}

func scanOrganization(row rowScanner) (domain.Organization, error) {
	var o domain.Organization
	if err := row.Scan(&o.ID, &o.Name, &o.CreatedAt); err != nil {
		return domain.Organization{}, mapNotFound(err)
	}
	return o, nil
}

// rowScanner matches *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
