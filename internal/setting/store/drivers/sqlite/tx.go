package sqlite

import (
	"context"
	"database/sql"

	"github.com/settingbr/setting/internal/setting/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the caller commits/rollbacks and the outer DB stays open.
func (t *txStore) Close() error { return nil }

// Ping is a no-op inside a transaction.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested transactions are not supported.
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

// Migrations run before any transaction starts.
func (t *txStore) ApplyMigrations() error { return nil }
func (t *txStore) Reset() error           { return sql.ErrTxDone }

func (t *txStore) Organizations() store.Organizations   { return &organizationsRepo{db: t.tx} }
func (t *txStore) Users() store.Users                   { return &usersRepo{db: t.tx} }
func (t *txStore) Invites() store.Invites               { return &invitesRepo{db: t.tx} }
func (t *txStore) InviteRequests() store.InviteRequests { return &inviteRequestsRepo{db: t.tx} }
func (t *txStore) Notes() store.Notes                   { return &notesRepo{db: t.tx} }
func (t *txStore) NormCards() store.NormCards           { return &normCardsRepo{db: t.tx} }
func (t *txStore) DocTemplates() store.DocTemplates     { return &docTemplatesRepo{db: t.tx} }
func (t *txStore) LibraryItems() store.LibraryItems     { return &libraryItemsRepo{db: t.tx} }
