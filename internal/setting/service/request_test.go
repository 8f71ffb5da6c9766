package service

import (
	"context"
	"testing"
	"time"

	"github.com/settingbr/setting/internal/setting/domain"
	"github.com/stretchr/testify/require"
)

func TestSubmitInviteRequest(t *testing.T) {
	st := newTestStore(t)
	svc := &InviteRequestService{Store: st, Invites: &InviteService{Store: st}}
	ctx := context.Background()

	t.Run("accepts a loose but plausible email", func(t *testing.T) {
		req, err := svc.Submit(ctx, "  Marina ", "Marina@Exemplo.com.br", "Atendo on-line ha 3 anos")
		require.NoError(t, err)
		require.Equal(t, "Marina", req.Name)
		require.Equal(t, "marina@exemplo.com.br", req.Email)
		require.False(t, req.Handled)
	})

	t.Run("rejects an implausible email", func(t *testing.T) {
		_, err := svc.Submit(ctx, "x", "not-an-email", "")
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("duplicates are fine, it is a contact form", func(t *testing.T) {
		_, err := svc.Submit(ctx, "Marina", "marina@exemplo.com.br", "de novo")
		require.NoError(t, err)

		reqs, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, reqs, 2)
	})
}

func TestApproveInviteRequest(t *testing.T) {
	st := newTestStore(t)
	org := createOrg(t, st, "Clinica Aurora")
	admin := createUser(t, st, org.ID, "admin@aurora.test", domain.RoleAdmin)
	invites := &InviteService{Store: st}
	svc := &InviteRequestService{Store: st, Invites: invites}
	ctx := context.Background()
	weekOut := time.Now().AddDate(0, 0, 7)

	req, err := svc.Submit(ctx, "Marina", "marina@exemplo.com.br", "")
	require.NoError(t, err)

	t.Run("approval mints an invite with the given terms", func(t *testing.T) {
		inv, err := svc.Approve(ctx, org.ID, req.ID, admin.ID, domain.RoleMember, 1, &weekOut)
		require.NoError(t, err)
		require.Equal(t, org.ID, inv.OrganizationID)
		require.Equal(t, domain.RoleMember, inv.Role)
		require.Equal(t, 1, inv.MaxUses)
		require.NotNil(t, inv.ExpiresAt)
		require.WithinDuration(t, weekOut, *inv.ExpiresAt, time.Second)

		reqs, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		require.True(t, reqs[0].Handled)
		require.Equal(t, inv.Code, reqs[0].InviteCode)
		require.NotNil(t, reqs[0].HandledAt)

		// And the minted code actually works.
		_, err = invites.Redeem(ctx, inv.Code, "marina@exemplo.com.br", "hunter2hunter2")
		require.NoError(t, err)
	})

	t.Run("second approval is rejected, no second code minted", func(t *testing.T) {
		_, err := svc.Approve(ctx, org.ID, req.ID, admin.ID, domain.RoleMember, 1, &weekOut)
		require.ErrorIs(t, err, ErrRequestAlreadyHandled)

		invs, err := invites.List(ctx, org.ID)
		require.NoError(t, err)
		require.Len(t, invs, 1)
	})

	t.Run("unknown request", func(t *testing.T) {
		_, err := svc.Approve(ctx, org.ID, "01J000000000000000000UNKNOWN", admin.ID, domain.RoleMember, 1, &weekOut)
		require.ErrorIs(t, err, ErrRequestNotFound)
	})

	t.Run("bad terms are rejected before anything is written", func(t *testing.T) {
		other, err := svc.Submit(ctx, "Paulo", "paulo@exemplo.com.br", "")
		require.NoError(t, err)

		_, err = svc.Approve(ctx, org.ID, other.ID, admin.ID, domain.Role("owner"), 1, &weekOut)
		require.ErrorIs(t, err, ErrInvalidRole)

		_, err = svc.Approve(ctx, org.ID, other.ID, admin.ID, domain.RoleMember, 0, &weekOut)
		require.ErrorIs(t, err, ErrInvalidInvite)

		reqs, err := svc.List(ctx)
		require.NoError(t, err)
		for _, q := range reqs {
			if q.ID == other.ID {
				require.False(t, q.Handled)
			}
		}
	})

	t.Run("admin role and multiple uses are honored", func(t *testing.T) {
		other, err := svc.Submit(ctx, "Clara", "clara@exemplo.com.br", "")
		require.NoError(t, err)

		inv, err := svc.Approve(ctx, org.ID, other.ID, admin.ID, domain.RoleAdmin, 3, &weekOut)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, inv.Role)
		require.Equal(t, 3, inv.MaxUses)
	})
}
