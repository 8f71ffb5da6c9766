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
	ErrLibraryItemNotFound = errors.New("library item not found")
	ErrInvalidLibraryItem  = errors.New("library item needs a title")
)

// LibraryService manages the clinic's study-material references. Only
// references are stored; the files live elsewhere.
type LibraryService struct {
	Store store.Store
}

func (s *LibraryService) List(ctx context.Context, orgID string) ([]domain.LibraryItem, error) {
	return s.Store.LibraryItems().ListLibraryItemsByOrg(ctx, orgID)
}

func (s *LibraryService) Add(ctx context.Context, orgID, ownerID, title, filename, notes string) (domain.LibraryItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.LibraryItem{}, ErrInvalidLibraryItem
	}
	it := domain.LibraryItem{
		ID:             idx.New().String(),
		OwnerID:        ownerID,
		OrganizationID: orgID,
		Title:          title,
		Filename:       strings.TrimSpace(filename),
		Notes:          strings.TrimSpace(notes),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Store.LibraryItems().CreateLibraryItem(ctx, it); err != nil {
		return domain.LibraryItem{}, err
	}
	return it, nil
}

func (s *LibraryService) Delete(ctx context.Context, orgID, itemID string) error {
	err := s.Store.LibraryItems().DeleteLibraryItemInOrg(ctx, orgID, itemID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrLibraryItemNotFound
	}
	return err
}
