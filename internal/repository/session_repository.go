package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/studypartner/backend/internal/apperr"
	"github.com/studypartner/backend/internal/model"
)

type SessionRepository struct {
	db DB
}

func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, student_id, tutor_id, subject, description, scheduled_time, duration_min,
		status, price, meeting_link, notes, rating, review, created_at, updated_at`

func scanSession(row pgx.Row) (*model.TutoringSession, error) {
	var s model.TutoringSession
	err := row.Scan(
		&s.ID,
		&s.StudentID,
		&s.TutorID,
		&s.Subject,
		&s.Description,
		&s.ScheduledTime,
		&s.Duration,
		&s.Status,
		&s.Price,
		&s.MeetingLink,
		&s.Notes,
		&s.Rating,
		&s.Review,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) Create(ctx context.Context, s *model.TutoringSession) error {
	query := `
		INSERT INTO tutoring_sessions (student_id, tutor_id, subject, description, scheduled_time, duration_min, status, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.StudentID,
		s.TutorID,
		s.Subject,
		s.Description,
		s.ScheduledTime,
		s.Duration,
		s.Status,
		s.Price,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*model.TutoringSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM tutoring_sessions WHERE id = $1`

	s, err := scanSession(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return s, nil
}

func (r *SessionRepository) ListByStudent(ctx context.Context, studentID int64) ([]*model.TutoringSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM tutoring_sessions WHERE student_id = $1 ORDER BY created_at DESC`
	return r.querySessions(ctx, query, studentID)
}

func (r *SessionRepository) ListByTutor(ctx context.Context, tutorID int64) ([]*model.TutoringSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM tutoring_sessions WHERE tutor_id = $1 ORDER BY created_at DESC`
	return r.querySessions(ctx, query, tutorID)
}

func (r *SessionRepository) List(ctx context.Context) ([]*model.TutoringSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM tutoring_sessions ORDER BY created_at DESC`
	return r.querySessions(ctx, query)
}

func (r *SessionRepository) querySessions(ctx context.Context, query string, args ...any) ([]*model.TutoringSession, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.TutoringSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// Respond takes a pending session to accepted or rejected. The status guard
// is part of the statement so two racing responses cannot both win.
func (r *SessionRepository) Respond(ctx context.Context, id int64, status model.SessionStatus, meetingLink string) error {
	query := `
		UPDATE tutoring_sessions
		SET status = $1, meeting_link = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, status, meetingLink, id)
	if err != nil {
		return fmt.Errorf("respond to session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("respond to session: %w", apperr.ErrInvalidState)
	}

	return nil
}

func (r *SessionRepository) Complete(ctx context.Context, id int64, notes string) error {
	query := `
		UPDATE tutoring_sessions
		SET status = 'completed', notes = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'accepted'
	`

	result, err := r.db.Exec(ctx, query, notes, id)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("complete session: %w", apperr.ErrInvalidState)
	}

	return nil
}

func (r *SessionRepository) Cancel(ctx context.Context, id int64) error {
	query := `
		UPDATE tutoring_sessions
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("cancel session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("cancel session: %w", apperr.ErrInvalidState)
	}

	return nil
}

func (r *SessionRepository) SetRating(ctx context.Context, id int64, rating int, review string) error {
	query := `
		UPDATE tutoring_sessions
		SET rating = $1, review = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'completed'
	`

	result, err := r.db.Exec(ctx, query, rating, review, id)
	if err != nil {
		return fmt.Errorf("rate session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("rate session: %w", apperr.ErrInvalidState)
	}

	return nil
}
