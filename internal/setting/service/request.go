package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/settingbr/setting/internal/setting/domain"
	"github.com/settingbr/setting/internal/setting/store"
	"github.com/settingbr/setting/pkg/idx"
	"github.com/settingbr/setting/pkg/slogx"
)

var (
	ErrInvalidRequest        = errors.New("invalid invite request")
	ErrRequestNotFound       = errors.New("invite request not found")
	ErrRequestAlreadyHandled = errors.New("invite request already handled")
)

const requestListLimit = 100

// InviteRequestService handles the public "ask for an invite" intake and
// the admin approval that answers it with a minted code.
type InviteRequestService struct {
	Store   store.Store
	Invites *InviteService
}

// Submit records a public invite request. The email check is deliberately
// loose and duplicates are accepted; this is a contact form, not an
// account system.
func (s *InviteRequestService) Submit(ctx context.Context, name, email, message string) (domain.InviteRequest, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return domain.InviteRequest{}, ErrInvalidRequest
	}

	req := domain.InviteRequest{
		ID:        idx.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		Message:   strings.TrimSpace(message),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.InviteRequests().CreateInviteRequest(ctx, req); err != nil {
		log.Error("failed to store invite request", slog.Any("error", err))
		return domain.InviteRequest{}, err
	}

	log.Info("invite request received", slog.String("request_id", req.ID))
	return req, nil
}

// List returns pending and handled requests, newest first.
func (s *InviteRequestService) List(ctx context.Context) ([]domain.InviteRequest, error) {
	return s.Store.InviteRequests().ListInviteRequests(ctx, requestListLimit)
}

// Approve mints an invite into the approving admin's organization with the
// given terms and marks the request handled, in one transaction. A request
// can be approved at most once; a second approval is rejected rather than
// minting a second code.
func (s *InviteRequestService) Approve(
	ctx context.Context,
	orgID, requestID, approvedBy string,
	role domain.Role,
	maxUses int,
	expiresAt *time.Time,
) (domain.InviteCode, error) {
	log := slogx.FromContext(ctx)

	if !role.Valid() {
		return domain.InviteCode{}, ErrInvalidRole
	}
	if maxUses < 1 {
		return domain.InviteCode{}, ErrInvalidInvite
	}

	var inv domain.InviteCode
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		req, err := tx.InviteRequests().GetInviteRequestByID(ctx, requestID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrRequestNotFound
		}
		if err != nil {
			return err
		}
		if req.Handled {
			return ErrRequestAlreadyHandled
		}

		inv, err = s.Invites.mintTx(ctx, tx, orgID, role, maxUses, expiresAt, approvedBy)
		if err != nil {
			return err
		}

		ok, err := tx.InviteRequests().MarkInviteRequestHandled(ctx, requestID, inv.Code, time.Now().UTC())
		if err != nil {
			return err
		}
		if !ok {
			// Lost the race to another admin inside the same window.
			return ErrRequestAlreadyHandled
		}
		return nil
	})
	if err != nil {
		return domain.InviteCode{}, err
	}

	log.Info("invite request approved",
		slog.String("request_id", requestID),
		slog.String("invite_id", inv.ID),
	)
	return inv, nil
}
