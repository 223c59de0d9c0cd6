package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/studypartner/backend/internal/model"
)

type FileRepository struct {
	db DB
}

func NewFileRepository(db DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, f *model.File) error {
	query := `
		INSERT INTO files (id, user_id, name, content_type, size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		f.ID,
		f.UserID,
		f.Name,
		f.ContentType,
		f.Size,
	).Scan(&f.CreatedAt)

	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*model.File, error) {
	query := `SELECT id, user_id, name, content_type, size, created_at FROM files WHERE id = $1`

	var f model.File
	err := r.db.QueryRow(ctx, query, id).Scan(
		&f.ID,
		&f.UserID,
		&f.Name,
		&f.ContentType,
		&f.Size,
		&f.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get file by id: %w", err)
	}

	return &f, nil
}
