package service

import (
	"context"
	"testing"
	"time"

	"github.com/settingbr/setting/internal/setting/domain"
	"github.com/settingbr/setting/pkg/cryptox"
	"github.com/settingbr/setting/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	st := newTestStore(t)
	org := createOrg(t, st, "Clinica Aurora")
	user := createUser(t, st, org.ID, "ana@aurora.test", domain.RoleMember)
	svc := &AuthService{Store: st}
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		got, err := svc.Login(ctx, "ana@aurora.test", "correct horse battery staple")
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
	})

	t.Run("email is case and whitespace insensitive", func(t *testing.T) {
		got, err := svc.Login(ctx, "  Ana@Aurora.Test ", "correct horse battery staple")
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "ana@aurora.test", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := svc.Login(ctx, "ninguem@aurora.test", "whatever")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := svc.Login(ctx, "", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginRejectsOrglessAccount(t *testing.T) {
	st := newTestStore(t)
	svc := &AuthService{Store: st}
	ctx := context.Background()

	hash, err := cryptox.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	orphan := domain.User{
		ID:           idx.New().String(),
		Email:        "solto@exemplo.test",
		PasswordHash: hash,
		Role:         domain.RoleMember,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, st.Users().CreateUser(ctx, orphan))

	// Right password, still no way in.
	_, err = svc.Login(ctx, "solto@exemplo.test", "correct horse battery staple")
	require.ErrorIs(t, err, ErrNoOrganization)

	// Sanity: the row really is orgless, not silently defaulted.
	got, err := st.Users().GetUserByID(ctx, orphan.ID)
	require.NoError(t, err)
	require.Empty(t, got.OrganizationID)
}
