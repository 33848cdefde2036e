package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/ttvMolten/Egov-services-db/internal/db"
	"github.com/ttvMolten/Egov-services-db/internal/ports"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a guarded update matched no row because a
// concurrent unit of work changed it first.
var ErrConflict = errors.New("concurrent update")

// IsDuplicate detects unique constraint violation.
func IsDuplicate(err error) bool {
	return db.IsUniqueViolation(err)
}

// Store implements ports.Store on a pgx pool.
type Store struct {
	DB *db.Postgres
}

// InTx begins a transaction, hands it to fn and commits when fn succeeds.
// The deferred rollback releases the transaction on every other path.
func (s Store) InTx(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	tx, err := s.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// pgTx is the ports.Tx view of a pgx transaction. Queries live next to the
// entity they read in the *_repository.go files.
type pgTx struct {
	tx pgx.Tx
}

var _ ports.Tx = pgTx{}

type rowScanner interface {
	Scan(dest ...any) error
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
