package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/studypartner/backend/internal/apperr"
	"github.com/studypartner/backend/internal/model"
)

type ProfileRepository struct {
	db DB
}

func NewProfileRepository(db DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, user_id, role, first_name, last_name, bio, expertise, hourly_rate,
		tokens, total_earnings, is_approved, profile_image_id, telegram_chat_id, created_at`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Role,
		&p.FirstName,
		&p.LastName,
		&p.Bio,
		&p.Expertise,
		&p.HourlyRate,
		&p.Tokens,
		&p.TotalEarnings,
		&p.IsApproved,
		&p.ProfileImageID,
		&p.TelegramChatID,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	query := `
		INSERT INTO profiles (user_id, role, first_name, last_name, bio, expertise, hourly_rate,
			tokens, total_earnings, is_approved, profile_image_id, telegram_chat_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.UserID,
		p.Role,
		p.FirstName,
		p.LastName,
		p.Bio,
		p.Expertise,
		p.HourlyRate,
		p.Tokens,
		p.TotalEarnings,
		p.IsApproved,
		p.ProfileImageID,
		p.TelegramChatID,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create profile: %w", apperr.ErrDuplicate)
		}
		return fmt.Errorf("create profile: %w", err)
	}

	return nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	p, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile by user id: %w", err)
	}

	return p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *model.Profile) error {
	query := `
		UPDATE profiles
		SET first_name = $1, last_name = $2, bio = $3, expertise = $4, hourly_rate = $5,
			profile_image_id = $6, telegram_chat_id = $7
		WHERE user_id = $8
	`

	result, err := r.db.Exec(
		ctx, query,
		p.FirstName,
		p.LastName,
		p.Bio,
		p.Expertise,
		p.HourlyRate,
		p.ProfileImageID,
		p.TelegramChatID,
		p.UserID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update profile: %w", apperr.ErrNotFound)
	}

	return nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC`
	return r.queryProfiles(ctx, query)
}

func (r *ProfileRepository) ListByRole(ctx context.Context, role model.Role) ([]*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE role = $1 ORDER BY created_at DESC`
	return r.queryProfiles(ctx, query, role)
}

func (r *ProfileRepository) ListApprovedTutors(ctx context.Context) ([]*model.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE role = 'tutor' AND is_approved = TRUE
		ORDER BY first_name, last_name
	`
	return r.queryProfiles(ctx, query)
}

func (r *ProfileRepository) queryProfiles(ctx context.Context, query string, args ...any) ([]*model.Profile, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

func (r *ProfileRepository) Credit(ctx context.Context, userID, amount int64) error {
	query := `UPDATE profiles SET tokens = tokens + $1 WHERE user_id = $2`

	result, err := r.db.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("credit tokens: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("credit tokens: %w", apperr.ErrNotFound)
	}

	return nil
}

// Debit is the insufficient-funds guard and the balance update in one
// statement, so a concurrent debit can never drive the balance negative.
func (r *ProfileRepository) Debit(ctx context.Context, userID, amount int64) error {
	query := `UPDATE profiles SET tokens = tokens - $1 WHERE user_id = $2 AND tokens >= $1`

	result, err := r.db.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("debit tokens: %w", err)
	}
	if result.RowsAffected() == 0 {
		exists, err := r.exists(ctx, userID)
		if err != nil {
			return fmt.Errorf("debit tokens: %w", err)
		}
		if !exists {
			return fmt.Errorf("debit tokens: %w", apperr.ErrNotFound)
		}
		return fmt.Errorf("debit tokens: %w", apperr.ErrInsufficientFunds)
	}

	return nil
}

func (r *ProfileRepository) AddEarnings(ctx context.Context, userID, amount int64) error {
	query := `UPDATE profiles SET total_earnings = total_earnings + $1 WHERE user_id = $2`

	result, err := r.db.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("add earnings: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("add earnings: %w", apperr.ErrNotFound)
	}

	return nil
}

func (r *ProfileRepository) DebitEarnings(ctx context.Context, userID, amount int64) error {
	query := `
		UPDATE profiles
		SET total_earnings = total_earnings - $1
		WHERE user_id = $2 AND total_earnings >= $1
	`

	result, err := r.db.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("debit earnings: %w", err)
	}
	if result.RowsAffected() == 0 {
		exists, err := r.exists(ctx, userID)
		if err != nil {
			return fmt.Errorf("debit earnings: %w", err)
		}
		if !exists {
			return fmt.Errorf("debit earnings: %w", apperr.ErrNotFound)
		}
		return fmt.Errorf("debit earnings: %w", apperr.ErrInsufficientFunds)
	}

	return nil
}

func (r *ProfileRepository) SetApproved(ctx context.Context, userID int64, approved bool) error {
	query := `UPDATE profiles SET is_approved = $1 WHERE user_id = $2 AND role = 'tutor'`

	result, err := r.db.Exec(ctx, query, approved, userID)
	if err != nil {
		return fmt.Errorf("set approved: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("set approved: %w", apperr.ErrNotFound)
	}

	return nil
}

func (r *ProfileRepository) Delete(ctx context.Context, userID int64) error {
	query := `DELETE FROM profiles WHERE user_id = $1`

	result, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete profile: %w", apperr.ErrNotFound)
	}

	return nil
}

func (r *ProfileRepository) exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE user_id = $1)`, userID).Scan(&exists)
	return exists, err
}
