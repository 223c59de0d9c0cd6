package repository

import (
	"context"
	"fmt"

	"github.com/studypartner/backend/internal/model"
)

type StudySessionRepository struct {
	db DB
}

func NewStudySessionRepository(db DB) *StudySessionRepository {
	return &StudySessionRepository{db: db}
}

func (r *StudySessionRepository) Create(ctx context.Context, s *model.StudySession) error {
	query := `
		INSERT INTO study_sessions (user_id, type, note_id, duration_min, score, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.UserID,
		s.Type,
		s.NoteID,
		s.Duration,
		s.Score,
		s.Date,
	).Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		return fmt.Errorf("create study session: %w", err)
	}

	return nil
}

func (r *StudySessionRepository) ListByUserSince(ctx context.Context, userID int64, fromDate string) ([]*model.StudySession, error) {
	query := `
		SELECT id, user_id, type, note_id, duration_min, score, date, created_at
		FROM study_sessions
		WHERE user_id = $1 AND date >= $2
		ORDER BY date
	`
	return r.querySessions(ctx, query, userID, fromDate)
}

func (r *StudySessionRepository) ListByUserOnDate(ctx context.Context, userID int64, date string) ([]*model.StudySession, error) {
	query := `
		SELECT id, user_id, type, note_id, duration_min, score, date, created_at
		FROM study_sessions
		WHERE user_id = $1 AND date = $2
		ORDER BY id
	`
	return r.querySessions(ctx, query, userID, date)
}

func (r *StudySessionRepository) querySessions(ctx context.Context, query string, args ...any) ([]*model.StudySession, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list study sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.StudySession
	for rows.Next() {
		var s model.StudySession
		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Type,
			&s.NoteID,
			&s.Duration,
			&s.Score,
			&s.Date,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan study session: %w", err)
		}
		sessions = append(sessions, &s)
	}

	return sessions, rows.Err()
}

func (r *StudySessionRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM study_sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete study sessions by user: %w", err)
	}
	return nil
}
