package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/studypartner/backend/internal/apperr"
	"github.com/studypartner/backend/internal/model"
)

// TaskRepository is the durable enrichment queue. Tasks are keyed by note id,
// claimed with SKIP LOCKED and delivered at least once.
type TaskRepository struct {
	db DB
}

func NewTaskRepository(db DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Enqueue(ctx context.Context, noteID int64) error {
	query := `
		INSERT INTO enrichment_tasks (note_id, status)
		VALUES ($1, 'queued')
		ON CONFLICT (note_id) DO UPDATE SET status = 'queued', updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, noteID); err != nil {
		return fmt.Errorf("enqueue task: %w", err)
	}

	return nil
}

func (r *TaskRepository) ClaimNext(ctx context.Context) (*model.EnrichmentTask, error) {
	query := `
		UPDATE enrichment_tasks
		SET status = 'running', attempts = attempts + 1, updated_at = NOW()
		WHERE id = (
			SELECT id FROM enrichment_tasks
			WHERE status = 'queued'
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, note_id, status, attempts, last_error, created_at, updated_at
	`

	var t model.EnrichmentTask
	err := r.db.QueryRow(ctx, query).Scan(
		&t.ID,
		&t.NoteID,
		&t.Status,
		&t.Attempts,
		&t.LastError,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("claim task: %w", err)
	}

	return &t, nil
}

func (r *TaskRepository) MarkDone(ctx context.Context, id int64) error {
	return r.finish(ctx, id, model.TaskStatusDone, "")
}

func (r *TaskRepository) MarkFailed(ctx context.Context, id int64, lastError string) error {
	return r.finish(ctx, id, model.TaskStatusFailed, lastError)
}

func (r *TaskRepository) finish(ctx context.Context, id int64, status model.TaskStatus, lastError string) error {
	query := `
		UPDATE enrichment_tasks
		SET status = $1, last_error = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.db.Exec(ctx, query, status, lastError, id)
	if err != nil {
		return fmt.Errorf("finish task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("finish task: %w", apperr.ErrNotFound)
	}

	return nil
}

func (r *TaskRepository) RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `
		UPDATE enrichment_tasks
		SET status = 'queued', updated_at = NOW()
		WHERE status = 'running' AND updated_at < NOW() - $1::interval
	`

	result, err := r.db.Exec(ctx, query, olderThan.String())
	if err != nil {
		return 0, fmt.Errorf("requeue stale tasks: %w", err)
	}

	return result.RowsAffected(), nil
}
