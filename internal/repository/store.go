package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studypartner/backend/internal/service"
)

// DB is the query surface shared by *pgxpool.Pool and pgx.Tx, so every
// repository works both standalone and inside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool  *pgxpool.Pool
	repos service.Repos
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, repos: newRepos(pool)}
}

func newRepos(db DB) service.Repos {
	return service.Repos{
		Profiles:      NewProfileRepository(db),
		Notes:         NewNoteRepository(db),
		Artifacts:     NewArtifactRepository(db),
		Sessions:      NewSessionRepository(db),
		Transactions:  NewTransactionRepository(db),
		Notifications: NewNotificationRepository(db),
		StudySessions: NewStudySessionRepository(db),
		Tasks:         NewTaskRepository(db),
		Files:         NewFileRepository(db),
		Stats:         NewStatsRepository(db),
	}
}

func (s *Store) Repos() service.Repos {
	return s.repos
}

// WithTx runs fn with a repository bundle bound to one transaction; any error
// rolls everything back.
func (s *Store) WithTx(ctx context.Context, fn func(service.Repos) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(newRepos(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports a postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
