package sqlite

import (
	"context"

	"github.com/settingbr/setting/internal/setting/domain"
)

type notesRepo struct {
	db dbtx
}

const noteColumns = `id, owner_id, organization_id, patient_alias, stage, content, created_at`

func (r *notesRepo) CreateNote(ctx context.Context, n domain.SessionNote) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session_notes
		   (id, owner_id, organization_id, patient_alias, stage, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.OwnerID, n.OrganizationID, n.PatientAlias, n.Stage, n.Content, n.CreatedAt)
	return mapConstraint(err)
}

func (r *notesRepo) GetNoteInOrg(ctx context.Context, orgID, noteID string) (domain.SessionNote, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM session_notes
		 WHERE id = ? AND organization_id = ?`, noteID, orgID)
	return scanNote(row)
}

func (r *notesRepo) UpdateNoteInOrg(ctx context.Context, orgID string, n domain.SessionNote) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE session_notes
		 SET patient_alias = ?, stage = ?, content = ?
		 WHERE id = ? AND organization_id = ?`,
		n.PatientAlias, n.Stage, n.Content, n.ID, orgID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *notesRepo) DeleteNoteInOrg(ctx context.Context, orgID, noteID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM session_notes WHERE id = ? AND organization_id = ?`,
		noteID, orgID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *notesRepo) ListNotesByOrg(ctx context.Context, orgID, patientAlias string, limit int) ([]domain.SessionNote, error) {
	query := `SELECT ` + noteColumns + ` FROM session_notes WHERE organization_id = ?`
	args := []any{orgID}
	if patientAlias != "" {
		query += ` AND patient_alias = ?`
		args = append(args, patientAlias)
	}
	query += ` ORDER BY patient_alias ASC, created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.SessionNote
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *notesRepo) ListPatientAliases(ctx context.Context, orgID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT patient_alias FROM session_notes
		 WHERE organization_id = ? AND patient_alias != ''
		 ORDER BY patient_alias ASC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aliases []string
	for rows.Next() {
		var alias string
		if err := rows.Scan(&alias); err != nil {
			return nil, err
		}
		aliases = append(aliases, alias)
	}
	return aliases, rows.Err()
}

func scanNote(row rowScanner) (domain.SessionNote, error) {
	var n domain.SessionNote
	err := row.Scan(&n.ID, &n.OwnerID, &n.OrganizationID, &n.PatientAlias,
		&n.Stage, &n.Content, &n.CreatedAt)
	if err != nil {
		return domain.SessionNote{}, mapNotFound(err)
	}
	return n, nil
}
