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
	ErrNormCardNotFound = errors.New("norm card not found")
	ErrInvalidNormCard  = errors.New("norm card needs a title")
)

const normListLimit = 100

// NormCardService manages the clinic's quick-reference cards for
// professional norms and guidelines.
type NormCardService struct {
	Store store.Store
}

func (s *NormCardService) List(ctx context.Context, orgID string) ([]domain.NormCard, error) {
	return s.Store.NormCards().ListNormCardsByOrg(ctx, orgID, normListLimit)
}

func (s *NormCardService) Add(ctx context.Context, orgID, ownerID, title, source, summary, tags string) (domain.NormCard, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.NormCard{}, ErrInvalidNormCard
	}
	c := domain.NormCard{
		ID:               idx.New().String(),
		OwnerID:          ownerID,
		OrganizationID:   orgID,
		Title:            title,
		Source:           strings.TrimSpace(source),
		PracticalSummary: strings.TrimSpace(summary),
		Tags:             strings.TrimSpace(tags),
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.Store.NormCards().CreateNormCard(ctx, c); err != nil {
		return domain.NormCard{}, err
	}
	return c, nil
}

func (s *NormCardService) Delete(ctx context.Context, orgID, cardID string) error {
	err := s.Store.NormCards().DeleteNormCardInOrg(ctx, orgID, cardID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNormCardNotFound
	}
	return err
}
