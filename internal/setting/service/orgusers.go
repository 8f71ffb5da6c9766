package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/settingbr/setting/internal/setting/domain"
	"github.com/settingbr/setting/internal/setting/store"
	"github.com/settingbr/setting/pkg/slogx"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrSelfDemotion   = errors.New("cannot remove your own admin role")
	ErrLastAdmin      = errors.New("organization must keep at least one admin")
	ErrAlreadyHasRole = errors.New("user already has that role")
)

// OrgUserService covers the admin view over an organization's members and
// the role changes an admin may perform.
type OrgUserService struct {
	Store store.Store
}

// List returns the organization's users, newest first.
func (s *OrgUserService) List(ctx context.Context, orgID string) ([]domain.User, error) {
	return s.Store.Users().ListUsersByOrg(ctx, orgID)
}

// Promote grants admin to a member of the acting admin's organization.
func (s *OrgUserService) Promote(ctx context.Context, orgID, userID string) error {
	log := slogx.FromContext(ctx)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserInOrg(ctx, orgID, userID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}
		if user.Role == domain.RoleAdmin {
			return ErrAlreadyHasRole
		}
		if err := tx.Users().UpdateUserRole(ctx, orgID, userID, domain.RoleAdmin); err != nil {
			return err
		}
		log.Info("user promoted to admin",
			slog.String("user_id", userID),
			slog.String("org_id", orgID),
		)
		return nil
	})
}

// Demote removes admin from a user in the acting admin's organization. Two
// guards run inside the same transaction as the write: an admin cannot
// demote themself, and the organization's last admin cannot be demoted.
func (s *OrgUserService) Demote(ctx context.Context, orgID, userID, actingUserID string) error {
	log := slogx.FromContext(ctx)

	if userID == actingUserID {
		return ErrSelfDemotion
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserInOrg(ctx, orgID, userID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}
		if user.Role != domain.RoleAdmin {
			return ErrAlreadyHasRole
		}

		admins, err := tx.Users().CountAdmins(ctx, orgID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastAdmin
		}

		if err := tx.Users().UpdateUserRole(ctx, orgID, userID, domain.RoleMember); err != nil {
			return err
		}
		log.Info("admin role removed",
			slog.String("user_id", userID),
			slog.String("org_id", orgID),
		)
		return nil
	})
}
