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

var (
	ErrInvalidInvite   = errors.New("invalid invite parameters")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInviteNotFound  = errors.New("invite not found")
	ErrInviteRevoked   = errors.New("invite has been revoked")
	ErrInviteExpired   = errors.New("invite has expired")
	ErrInviteExhausted = errors.New("invite has no uses left")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidSignup   = errors.New("invalid signup request")
)

// inviteListLimit caps the admin invite listing.
const inviteListLimit = 50

// mintAttempts bounds retries when a freshly generated code collides with
// an existing one. With a 36^10 space a second attempt is already rare.
const mintAttempts = 5

// InviteService manages the invite-code ledger: admins mint and revoke,
// the public signup flow redeems.
type InviteService struct {
	Store store.Store
}

// Mint creates an invite into orgID at the given role. A nil expiresAt
// means the invite never expires; an expiry in the past is accepted and
// yields a code that is already dead on arrival.
func (s *InviteService) Mint(
	ctx context.Context,
	orgID string,
	role domain.Role,
	maxUses int,
	expiresAt *time.Time,
	createdBy string,
) (domain.InviteCode, error) {
	log := slogx.FromContext(ctx)

	if !role.Valid() {
		return domain.InviteCode{}, ErrInvalidRole
	}
	if maxUses < 1 {
		return domain.InviteCode{}, ErrInvalidInvite
	}

	inv, err := s.mintTx(ctx, s.Store, orgID, role, maxUses, expiresAt, createdBy)
	if err != nil {
		return domain.InviteCode{}, err
	}

	log.Debug("invite minted",
		slog.String("invite_id", inv.ID),
		slog.String("org_id", orgID),
		slog.String("role", string(role)),
		slog.Int("max_uses", maxUses),
	)
	return inv, nil
}

// mintTx generates a unique code and inserts the invite row, retrying a
// bounded number of times on code collision. It runs over either the plain
// store or an open transaction.
func (s *InviteService) mintTx(
	ctx context.Context,
	st store.Store,
	orgID string,
	role domain.Role,
	maxUses int,
	expiresAt *time.Time,
	createdBy string,
) (domain.InviteCode, error) {
	log := slogx.FromContext(ctx)

	for attempt := 0; attempt < mintAttempts; attempt++ {
		code, err := cryptox.GenerateInviteCode(cryptox.InviteCodeLength)
		if err != nil {
			log.Error("failed to generate invite code", slog.Any("error", err))
			return domain.InviteCode{}, err
		}

		inv := domain.InviteCode{
			ID:             idx.New().String(),
			Code:           code,
			OrganizationID: orgID,
			Role:           role,
			MaxUses:        maxUses,
			Uses:           0,
			ExpiresAt:      expiresAt,
			CreatedBy:      createdBy,
			CreatedAt:      time.Now().UTC(),
		}

		err = st.Invites().CreateInvite(ctx, inv)
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("invite code collision, retrying", slog.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			log.Error("failed to create invite", slog.Any("error", err))
			return domain.InviteCode{}, err
		}
		return inv, nil
	}

	return domain.InviteCode{}, errors.New("exhausted invite code attempts")
}

// Preview judges whether code could currently be redeemed, without
// consuming anything. The signup form uses it to warn about a dead invite
// before the visitor types credentials. A nil error means redeemable.
func (s *InviteService) Preview(ctx context.Context, code string) error {
	inv, err := s.Store.Invites().GetInviteByCode(ctx, normalizeCode(code))
	if errors.Is(err, store.ErrNotFound) {
		return ErrInviteNotFound
	}
	if err != nil {
		return err
	}

	switch {
	case inv.Revoked:
		return ErrInviteRevoked
	case inv.Expired(time.Now()):
		return ErrInviteExpired
	case inv.Exhausted():
		return ErrInviteExhausted
	}
	return nil
}

// Get returns an invite by code within the admin's organization.
func (s *InviteService) Get(ctx context.Context, orgID, code string) (domain.InviteCode, error) {
	inv, err := s.Store.Invites().GetInviteInOrg(ctx, orgID, normalizeCode(code))
	if errors.Is(err, store.ErrNotFound) {
		return domain.InviteCode{}, ErrInviteNotFound
	}
	return inv, err
}

// List returns the organization's invites, newest first.
func (s *InviteService) List(ctx context.Context, orgID string) ([]domain.InviteCode, error) {
	return s.Store.Invites().ListInvitesByOrg(ctx, orgID, inviteListLimit)
}

// Revoke marks an invite revoked within the admin's organization. Revoking
// an already-revoked invite succeeds; revoking an invisible one does not.
func (s *InviteService) Revoke(ctx context.Context, orgID, inviteID string) error {
	err := s.Store.Invites().RevokeInvite(ctx, orgID, inviteID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInviteNotFound
	}
	return err
}

// Redeem turns a valid invite code plus credentials into a new member of
// the invite's organization. The whole exchange runs in one transaction:
// the invite is re-read and judged inside it, the use counter increment is
// conditional on remaining uses, and the user insert rides the same commit.
// Rejections follow a fixed priority: not found, revoked, expired,
// exhausted, email taken.
func (s *InviteService) Redeem(ctx context.Context, code, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	code = normalizeCode(code)
	email = strings.ToLower(strings.TrimSpace(email))
	if code == "" || !validEmail(email) || password == "" {
		return domain.User{}, ErrInvalidSignup
	}

	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		inv, err := tx.Invites().GetInviteByCode(ctx, code)
		if errors.Is(err, store.ErrNotFound) {
			return ErrInviteNotFound
		}
		if err != nil {
			return err
		}

		now := time.Now()
		switch {
		case inv.Revoked:
			return ErrInviteRevoked
		case inv.Expired(now):
			return ErrInviteExpired
		case inv.Exhausted():
			return ErrInviteExhausted
		}

		if _, err := tx.Users().GetUserByEmail(ctx, email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		// The actual serialization point. A concurrent redeemer that got
		// the last use first makes this affect zero rows.
		ok, err := tx.Invites().ConsumeInviteUse(ctx, inv.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInviteExhausted
		}

		hash, err := cryptox.HashPassword(password)
		if err != nil {
			return err
		}

		user = domain.User{
			ID:             idx.New().String(),
			Email:          email,
			PasswordHash:   hash,
			OrganizationID: inv.OrganizationID,
			Role:           inv.Role,
			CreatedAt:      now.UTC(),
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("invite redeemed",
		slog.String("user_id", user.ID),
		slog.String("org_id", user.OrganizationID),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// validEmail is the deliberately minimal check used across the intake
// forms: an "@" and a "." are enough, real validation is the invite.
func validEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}
