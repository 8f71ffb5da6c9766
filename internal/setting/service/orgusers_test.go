package service

import (
	"context"
	"testing"

	"github.com/settingbr/setting/internal/setting/domain"
	"github.com/stretchr/testify/require"
)

func TestPromote(t *testing.T) {
	st := newTestStore(t)
	org := createOrg(t, st, "Clinica Aurora")
	createUser(t, st, org.ID, "admin@aurora.test", domain.RoleAdmin)
	member := createUser(t, st, org.ID, "ana@aurora.test", domain.RoleMember)
	svc := &OrgUserService{Store: st}
	ctx := context.Background()

	require.NoError(t, svc.Promote(ctx, org.ID, member.ID))

	got, err := st.Users().GetUserInOrg(ctx, org.ID, member.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, got.Role)

	t.Run("promoting an admin again is rejected", func(t *testing.T) {
		require.ErrorIs(t, svc.Promote(ctx, org.ID, member.ID), ErrAlreadyHasRole)
	})
}

func TestDemoteGuards(t *testing.T) {
	st := newTestStore(t)
	org := createOrg(t, st, "Clinica Aurora")
	admin := createUser(t, st, org.ID, "admin@aurora.test", domain.RoleAdmin)
	second := createUser(t, st, org.ID, "sec@aurora.test", domain.RoleAdmin)
	member := createUser(t, st, org.ID, "ana@aurora.test", domain.RoleMember)
	svc := &OrgUserService{Store: st}
	ctx := context.Background()

	t.Run("self-demotion is rejected", func(t *testing.T) {
		require.ErrorIs(t, svc.Demote(ctx, org.ID, admin.ID, admin.ID), ErrSelfDemotion)
	})

	t.Run("demoting a member is rejected", func(t *testing.T) {
		require.ErrorIs(t, svc.Demote(ctx, org.ID, member.ID, admin.ID), ErrAlreadyHasRole)
	})

	t.Run("demotion works while another admin remains", func(t *testing.T) {
		require.NoError(t, svc.Demote(ctx, org.ID, second.ID, admin.ID))

		got, err := st.Users().GetUserInOrg(ctx, org.ID, second.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleMember, got.Role)
	})

	t.Run("the last admin cannot be demoted", func(t *testing.T) {
		require.ErrorIs(t, svc.Demote(ctx, org.ID, admin.ID, second.ID), ErrLastAdmin)
	})
}

func TestOrgUsersAreTenantScoped(t *testing.T) {
	st := newTestStore(t)
	aurora := createOrg(t, st, "Clinica Aurora")
	boreal := createOrg(t, st, "Clinica Boreal")
	adminA := createUser(t, st, aurora.ID, "admin@aurora.test", domain.RoleAdmin)
	memberB := createUser(t, st, boreal.ID, "bia@boreal.test", domain.RoleMember)
	svc := &OrgUserService{Store: st}
	ctx := context.Background()

	t.Run("cannot promote across clinics", func(t *testing.T) {
		require.ErrorIs(t, svc.Promote(ctx, aurora.ID, memberB.ID), ErrUserNotFound)
	})

	t.Run("listing shows only the own clinic", func(t *testing.T) {
		users, err := svc.List(ctx, aurora.ID)
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.Equal(t, adminA.ID, users[0].ID)
	})
}
