package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/studypartner/backend/internal/apperr"
	"github.com/studypartner/backend/internal/model"
)

type NoteRepository struct {
	db DB
}

func NewNoteRepository(db DB) *NoteRepository {
	return &NoteRepository{db: db}
}

const noteColumns = `id, user_id, title, content, subject, file_id, file_type, processed, processing_status, created_at`

func scanNote(row pgx.Row) (*model.Note, error) {
	var n model.Note
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Title,
		&n.Content,
		&n.Subject,
		&n.FileID,
		&n.FileType,
		&n.Processed,
		&n.Status,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepository) Create(ctx context.Context, n *model.Note) error {
	query := `
		INSERT INTO notes (user_id, title, content, subject, file_id, file_type, processed, processing_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		n.UserID,
		n.Title,
		n.Content,
		n.Subject,
		n.FileID,
		n.FileType,
		n.Processed,
		n.Status,
	).Scan(&n.ID, &n.CreatedAt)

	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}

	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`

	n, err := scanNote(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get note by id: %w", err)
	}

	return n, nil
}

func (r *NoteRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryNotes(ctx, query, userID)
}

func (r *NoteRepository) List(ctx context.Context) ([]*model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes ORDER BY created_at DESC`
	return r.queryNotes(ctx, query)
}

func (r *NoteRepository) queryNotes(ctx context.Context, query string, args ...any) ([]*model.Note, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []*model.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

// UpdateStatus keeps the processed flag in lockstep with the status: it is
// true exactly when the status is completed.
func (r *NoteRepository) UpdateStatus(ctx context.Context, id int64, status model.NoteStatus) error {
	query := `
		UPDATE notes
		SET processing_status = $1, processed = ($1 = 'completed')
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update note status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update note status: %w", apperr.ErrNotFound)
	}

	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM notes WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete note: %w", apperr.ErrNotFound)
	}

	return nil
}

func (r *NoteRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM notes WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete notes by user: %w", err)
	}
	return nil
}
