package sqlite

import (
	"context"

	"github.com/settingbr/setting/internal/setting/domain"
)

type docTemplatesRepo struct {
	db dbtx
}

const docTemplateColumns = `id, owner_id, organization_id, name, body, created_at`

func (r *docTemplatesRepo) CreateDocTemplate(ctx context.Context, t domain.DocTemplate) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO doc_templates (id, owner_id, organization_id, name, body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.OrganizationID, t.Name, t.Body, t.CreatedAt)
	return mapConstraint(err)
}

func (r *docTemplatesRepo) GetDocTemplateInOrg(ctx context.Context, orgID, templateID string) (domain.DocTemplate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+docTemplateColumns+` FROM doc_templates
		 WHERE id = ? AND organization_id = ?`, templateID, orgID)
	return scanDocTemplate(row)
}

func (r *docTemplatesRepo) UpdateDocTemplateInOrg(ctx context.Context, orgID string, t domain.DocTemplate) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE doc_templates SET name = ?, body = ?
		 WHERE id = ? AND organization_id = ?`,
		t.Name, t.Body, t.ID, orgID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *docTemplatesRepo) ListDocTemplatesByOrg(ctx context.Context, orgID string) ([]domain.DocTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+docTemplateColumns+` FROM doc_templates
		 WHERE organization_id = ? ORDER BY name ASC, id ASC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []domain.DocTemplate
	for rows.Next() {
		t, err := scanDocTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *docTemplatesRepo) CountDocTemplatesByOrg(ctx context.Context, orgID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM doc_templates WHERE organization_id = ?`, orgID).Scan(&n)
	return n, err
}

func scanDocTemplate(row rowScanner) (domain.DocTemplate, error) {
	var t domain.DocTemplate
	err := row.Scan(&t.ID, &t.OwnerID, &t.OrganizationID, &t.Name, &t.Body, &t.CreatedAt)
	if err != nil {
		return domain.DocTemplate{}, mapNotFound(err)
	}
	return t, nil
}
