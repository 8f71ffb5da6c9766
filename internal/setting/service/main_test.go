package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/settingbr/setting/internal/setting/domain"
	"github.com/settingbr/setting/internal/setting/store/drivers/sqlite"
	"github.com/settingbr/setting/pkg/cryptox"
	"github.com/settingbr/setting/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "setting-service-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func createOrg(t *testing.T, st *sqlite.Store, name string) domain.Organization {
	t.Helper()

	org := domain.Organization{
		ID:        idx.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Organizations().CreateOrganization(context.Background(), org))
	return org
}

func createUser(t *testing.T, st *sqlite.Store, orgID, email string, role domain.Role) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	user := domain.User{
		ID:             idx.New().String(),
		Email:          email,
		PasswordHash:   hash,
		OrganizationID: orgID,
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}
