package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/settingbr/setting/internal/setting/domain"
	"github.com/settingbr/setting/internal/setting/store"
	"github.com/settingbr/setting/pkg/idx"
)

var (
	ErrNoteNotFound = errors.New("session note not found")
	ErrInvalidStage = errors.New("invalid session stage")
)

const noteListLimit = 200

// NoteService manages the clinical session notes of a clinic. Notes refer
// to patients by alias only.
type NoteService struct {
	Store store.Store
}

// NoteListing is what the session-mode page shows: the filtered notes plus
// the alias list driving the filter dropdown.
type NoteListing struct {
	Notes    []domain.SessionNote
	Patients []string
	Selected string
}

// List returns the organization's notes, optionally filtered by patient
// alias, along with the distinct aliases present.
func (s *NoteService) List(ctx context.Context, orgID, patientAlias string) (NoteListing, error) {
	patients, err := s.Store.Notes().ListPatientAliases(ctx, orgID)
	if err != nil {
		return NoteListing{}, err
	}
	notes, err := s.Store.Notes().ListNotesByOrg(ctx, orgID, patientAlias, noteListLimit)
	if err != nil {
		return NoteListing{}, err
	}
	return NoteListing{Notes: notes, Patients: patients, Selected: patientAlias}, nil
}

// Add creates a note owned by the acting user.
func (s *NoteService) Add(ctx context.Context, orgID, ownerID, patientAlias, stage, content string) (domain.SessionNote, error) {
	if !validStage(stage) {
		return domain.SessionNote{}, ErrInvalidStage
	}
	n := domain.SessionNote{
		ID:             idx.New().String(),
		OwnerID:        ownerID,
		OrganizationID: orgID,
		PatientAlias:   strings.TrimSpace(patientAlias),
		Stage:          stage,
		Content:        strings.TrimSpace(content),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Store.Notes().CreateNote(ctx, n); err != nil {
		return domain.SessionNote{}, err
	}
	return n, nil
}

// Update rewrites a note within the organization.
func (s *NoteService) Update(ctx context.Context, orgID, noteID, patientAlias, stage, content string) error {
	if !validStage(stage) {
		return ErrInvalidStage
	}
	err := s.Store.Notes().UpdateNoteInOrg(ctx, orgID, domain.SessionNote{
		ID:           noteID,
		PatientAlias: strings.TrimSpace(patientAlias),
		Stage:        stage,
		Content:      strings.TrimSpace(content),
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrNoteNotFound
	}
	return err
}

// Delete removes a note within the organization.
func (s *NoteService) Delete(ctx context.Context, orgID, noteID string) error {
	err := s.Store.Notes().DeleteNoteInOrg(ctx, orgID, noteID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNoteNotFound
	}
	return err
}

func validStage(stage string) bool {
	switch stage {
	case domain.StagePre, domain.StageDuring, domain.StagePost:
		return true
	}
	return false
}
