// Package service holds the business operations of the practice-management
// system. Services wrap the store, enforce the tenancy and role rules and
// surface sentinel errors the handlers translate into user-facing messages.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/settingbr/setting/internal/setting/domain"
	"github.com/settingbr/setting/internal/setting/store"
	"github.com/settingbr/setting/pkg/cryptox"
	"github.com/settingbr/setting/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoOrganization     = errors.New("account has no linked organization")
)

// AuthService authenticates users. Session minting happens in the handler
// layer; this service only answers "who is this".
type AuthService struct {
	Store store.Store
}

// Login verifies an email/password pair and returns the user. Accounts
// without an organization cannot log in, whatever their credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Hash anyway so a missing account costs the same as a wrong
			// password.
			_, _ = cryptox.HashPassword(password)
			return domain.User{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user for login", slog.Any("error", err))
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("login failed", slog.String("email", email))
			return domain.User{}, ErrInvalidCredentials
		}
		log.Error("password verification error", slog.Any("error", err))
		return domain.User{}, err
	}

	if user.OrganizationID == "" {
		log.Warn("login rejected for orgless account", slog.String("user_id", user.ID))
		return domain.User{}, ErrNoOrganization
	}

	return user, nil
}
