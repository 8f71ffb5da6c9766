package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/settingbr/setting/internal/setting/domain"
	"github.com/settingbr/setting/internal/setting/store"
	"github.com/settingbr/setting/pkg/cryptox"
	"github.com/settingbr/setting/pkg/idx"
	"github.com/settingbr/setting/pkg/slogx"
)

// BootstrapService makes the process usable on an empty database: the
// default clinic exists, the configured administrator belongs to it, and
// the clinic has its starter document templates. Every step is idempotent
// so restarts are safe.
type BootstrapService struct {
	Store store.Store
}

// Ensure runs the full bootstrap sequence.
func (s *BootstrapService) Ensure(ctx context.Context, data domain.BootstrapData) error {
	log := slogx.FromContext(ctx)

	org, err := s.ensureOrganization(ctx, data.OrgName)
	if err != nil {
		return err
	}

	admin, err := s.ensureAdmin(ctx, org, data)
	if err != nil {
		return err
	}

	if err := s.seedTemplates(ctx, org.ID, admin.ID); err != nil {
		return err
	}

	log.Info("bootstrap complete",
		slog.String("org_id", org.ID),
		slog.String("admin_id", admin.ID),
	)
	return nil
}

func (s *BootstrapService) ensureOrganization(ctx context.Context, name string) (domain.Organization, error) {
	org, err := s.Store.Organizations().GetOrganizationByName(ctx, name)
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Organization{}, err
	}

	org = domain.Organization{
		ID:        idx.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.Organizations().CreateOrganization(ctx, org); err != nil {
		// A concurrent replica may have won the insert.
		if errors.Is(err, store.ErrAlreadyExists) {
			return s.Store.Organizations().GetOrganizationByName(ctx, name)
		}
		return domain.Organization{}, err
	}
	return org, nil
}

func (s *BootstrapService) ensureAdmin(ctx context.Context, org domain.Organization, data domain.BootstrapData) (domain.User, error) {
	log := slogx.FromContext(ctx)
	email := strings.ToLower(strings.TrimSpace(data.AdminEmail))

	admin, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		// An account left without a clinic (e.g. created before the org)
		// gets attached as admin.
		if admin.OrganizationID == "" {
			if err := s.Store.Users().AttachOrganization(ctx, admin.ID, org.ID, domain.RoleAdmin); err != nil {
				return domain.User{}, err
			}
			admin.OrganizationID = org.ID
			admin.Role = domain.RoleAdmin
			log.Info("attached existing admin to organization", slog.String("user_id", admin.ID))
		}
		return admin, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(data.AdminPassword)
	if err != nil {
		return domain.User{}, err
	}
	admin = domain.User{
		ID:             idx.New().String(),
		Email:          email,
		PasswordHash:   hash,
		OrganizationID: org.ID,
		Role:           domain.RoleAdmin,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Store.Users().CreateUser(ctx, admin); err != nil {
		return domain.User{}, err
	}
	log.Info("created bootstrap admin", slog.String("user_id", admin.ID))
	return admin, nil
}

// seedTemplates writes the default document templates once per clinic.
func (s *BootstrapService) seedTemplates(ctx context.Context, orgID, ownerID string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		n, err := tx.DocTemplates().CountDocTemplatesByOrg(ctx, orgID)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		for _, tpl := range DefaultTemplates {
			t := domain.DocTemplate{
				ID:             idx.New().String(),
				OwnerID:        ownerID,
				OrganizationID: orgID,
				Name:           tpl.Name,
				Body:           tpl.Body,
				CreatedAt:      time.Now().UTC(),
			}
			if err := tx.DocTemplates().CreateDocTemplate(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
}
