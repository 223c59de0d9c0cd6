package repository

import (
	"context"
	"fmt"

	"github.com/studypartner/backend/internal/model"
)

type StatsRepository struct {
	db DB
}

func NewStatsRepository(db DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) SystemStats(ctx context.Context) (*model.SystemStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM profiles),
			(SELECT COUNT(*) FROM profiles WHERE role = 'student'),
			(SELECT COUNT(*) FROM profiles WHERE role = 'tutor'),
			(SELECT COUNT(*) FROM profiles WHERE role = 'tutor' AND is_approved = TRUE),
			(SELECT COUNT(*) FROM notes),
			(SELECT COUNT(*) FROM tutoring_sessions),
			(SELECT COUNT(*) FROM tutoring_sessions WHERE status = 'completed'),
			(SELECT COUNT(*) FROM transactions),
			(SELECT COALESCE(SUM(amount), 0) FROM transactions
				WHERE type = 'tutoring_payment' AND status = 'completed')
	`

	var s model.SystemStats
	err := r.db.QueryRow(ctx, query).Scan(
		&s.TotalUsers,
		&s.TotalStudents,
		&s.TotalTutors,
		&s.ApprovedTutors,
		&s.TotalNotes,
		&s.TotalSessions,
		&s.CompletedSessions,
		&s.TotalTransactions,
		&s.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("system stats: %w", err)
	}

	return &s, nil
}
