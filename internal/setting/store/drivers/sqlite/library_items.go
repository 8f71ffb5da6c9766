package sqlite

import (
	"context"

	"github.com/settingbr/setting/internal/setting/domain"
)

type libraryItemsRepo struct {
	db dbtx
}

const libraryItemColumns = `id, owner_id, organization_id, title, filename, notes, created_at`

func (r *libraryItemsRepo) CreateLibraryItem(ctx context.Context, it domain.LibraryItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO library_items (id, owner_id, organization_id, title, filename, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.OwnerID, it.OrganizationID, it.Title, it.Filename, it.Notes, it.CreatedAt)
	return mapConstraint(err)
}

func (r *libraryItemsRepo) DeleteLibraryItemInOrg(ctx context.Context, orgID, itemID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM library_items WHERE id = ? AND organization_id = ?`,
		itemID, orgID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *libraryItemsRepo) ListLibraryItemsByOrg(ctx context.Context, orgID string) ([]domain.LibraryItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+libraryItemColumns+` FROM library_items
		 WHERE organization_id = ? ORDER BY created_at DESC, id DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.LibraryItem
	for rows.Next() {
		var it domain.LibraryItem
		err := rows.Scan(&it.ID, &it.OwnerID, &it.OrganizationID, &it.Title,
			&it.Filename, &it.Notes, &it.CreatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
