package sqlite

import (
	"context"

	"github.com/settingbr/setting/internal/setting/domain"
)

type normCardsRepo struct {
	db dbtx
}

const normCardColumns = `id, owner_id, organization_id, title, source, practical_summary, tags, created_at`

func (r *normCardsRepo) CreateNormCard(ctx context.Context, c domain.NormCard) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO norm_cards
		   (id, owner_id, organization_id, title, source, practical_summary, tags, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.OrganizationID, c.Title, c.Source,
		c.PracticalSummary, c.Tags, c.CreatedAt)
	return mapConstraint(err)
}

func (r *normCardsRepo) DeleteNormCardInOrg(ctx context.Context, orgID, cardID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM norm_cards WHERE id = ? AND organization_id = ?`,
		cardID, orgID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *normCardsRepo) ListNormCardsByOrg(ctx context.Context, orgID string, limit int) ([]domain.NormCard, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+normCardColumns+` FROM norm_cards
		 WHERE organization_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []domain.NormCard
	for rows.Next() {
		var c domain.NormCard
		err := rows.Scan(&c.ID, &c.OwnerID, &c.OrganizationID, &c.Title,
			&c.Source, &c.PracticalSummary, &c.Tags, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
