// Package store defines the data access contracts for the application.
// Concrete drivers (sqlite today) implement Store. Tenant-scoped reads and
// writes always take the acting organization id, so a row from another
// clinic behaves exactly like a row that does not exist.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/settingbr/setting/internal/setting/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. It exposes sub-repositories to
// keep concerns tidy and testable, plus the transactional boundary used by
// the services for multi-step operations.
type Store interface {
	Organizations() Organizations
	Users() Users
	Invites() Invites
	InviteRequests() InviteRequests
	Notes() Notes
	NormCards() NormCards
	DocTemplates() DocTemplates
	LibraryItems() LibraryItems

	ApplyMigrations() error

	// Reset drops every table. Destructive; only the RESET_DB bootstrap
	// flag reaches this.
	Reset() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction: rollback if fn errors,
	// commit otherwise. This is the recommended way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Organizations interface {
	// GetOrganizationByID returns an organization by id.
	GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error)

	// GetOrganizationByName looks an organization up by its unique name.
	GetOrganizationByName(ctx context.Context, name string) (domain.Organization, error)

	// CreateOrganization inserts a new organization (id is a ULID).
	CreateOrganization(ctx context.Context, o domain.Organization) error
}

type Users interface {
	// GetUserByID returns a user by id regardless of organization. Used by
	// the session layer, never exposed to tenant-facing reads.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and signup (email is unique).
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserInOrg returns a user only if it belongs to orgID.
	GetUserInOrg(ctx context.Context, orgID, userID string) (domain.User, error)

	// CreateUser inserts a new user (id is a ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUserRole sets the role of a user within orgID.
	UpdateUserRole(ctx context.Context, orgID, userID string, role domain.Role) error

	// AttachOrganization binds an unbound user to an organization at role.
	AttachOrganization(ctx context.Context, userID, orgID string, role domain.Role) error

	// ListUsersByOrg returns an organization's users, newest first.
	ListUsersByOrg(ctx context.Context, orgID string) ([]domain.User, error)

	// CountAdmins returns the number of admin users in orgID.
	CountAdmins(ctx context.Context, orgID string) (int, error)
}

type Invites interface {
	// CreateInvite writes a new invite code row. A code collision surfaces
	// as ErrAlreadyExists so the caller can retry with a fresh code.
	CreateInvite(ctx context.Context, inv domain.InviteCode) error

	// GetInviteByCode returns an invite by its code, any organization.
	// Signup is public, so this lookup is deliberately unscoped.
	GetInviteByCode(ctx context.Context, code string) (domain.InviteCode, error)

	// GetInviteInOrg returns an invite only if it belongs to orgID.
	GetInviteInOrg(ctx context.Context, orgID, code string) (domain.InviteCode, error)

	// ListInvitesByOrg returns an organization's invites, newest first.
	ListInvitesByOrg(ctx context.Context, orgID string, limit int) ([]domain.InviteCode, error)

	// ConsumeInviteUse atomically increments uses by one, guarded by
	// revoked = false and uses < max_uses inside the statement itself.
	// It reports whether a use was actually consumed; false means the
	// invite was concurrently exhausted or revoked.
	ConsumeInviteUse(ctx context.Context, inviteID string) (bool, error)

	// RevokeInvite sets revoked for an invite within orgID. Idempotent;
	// revoking an already-revoked invite is not an error.
	RevokeInvite(ctx context.Context, orgID, inviteID string) error
}

type InviteRequests interface {
	// CreateInviteRequest stores a public invite request.
	CreateInviteRequest(ctx context.Context, req domain.InviteRequest) error

	// GetInviteRequestByID returns a request by id.
	GetInviteRequestByID(ctx context.Context, id string) (domain.InviteRequest, error)

	// ListInviteRequests returns requests, newest first.
	ListInviteRequests(ctx context.Context, limit int) ([]domain.InviteRequest, error)

	// MarkInviteRequestHandled flips handled exactly once, recording the
	// minted code and timestamp. It reports false if the request was
	// already handled.
	MarkInviteRequestHandled(ctx context.Context, id, inviteCode string, handledAt time.Time) (bool, error)
}

type Notes interface {
	CreateNote(ctx context.Context, n domain.SessionNote) error
	GetNoteInOrg(ctx context.Context, orgID, noteID string) (domain.SessionNote, error)
	UpdateNoteInOrg(ctx context.Context, orgID string, n domain.SessionNote) error
	DeleteNoteInOrg(ctx context.Context, orgID, noteID string) error

	// ListNotesByOrg returns notes for an organization, optionally filtered
	// by patient alias, ordered by alias then newest first.
	ListNotesByOrg(ctx context.Context, orgID, patientAlias string, limit int) ([]domain.SessionNote, error)

	// ListPatientAliases returns the distinct non-empty aliases in orgID.
	ListPatientAliases(ctx context.Context, orgID string) ([]string, error)
}

type NormCards interface {
	CreateNormCard(ctx context.Context, c domain.NormCard) error
	DeleteNormCardInOrg(ctx context.Context, orgID, cardID string) error
	ListNormCardsByOrg(ctx context.Context, orgID string, limit int) ([]domain.NormCard, error)
}

type DocTemplates interface {
	CreateDocTemplate(ctx context.Context, t domain.DocTemplate) error
	GetDocTemplateInOrg(ctx context.Context, orgID, templateID string) (domain.DocTemplate, error)
	UpdateDocTemplateInOrg(ctx context.Context, orgID string, t domain.DocTemplate) error
	ListDocTemplatesByOrg(ctx context.Context, orgID string) ([]domain.DocTemplate, error)

	// CountDocTemplatesByOrg backs the seed-once guard at bootstrap.
	CountDocTemplatesByOrg(ctx context.Context, orgID string) (int, error)
}

type LibraryItems interface {
	CreateLibraryItem(ctx context.Context, it domain.LibraryItem) error
	DeleteLibraryItemInOrg(ctx context.Context, orgID, itemID string) error
	ListLibraryItemsByOrg(ctx context.Context, orgID string) ([]domain.LibraryItem, error)
}
