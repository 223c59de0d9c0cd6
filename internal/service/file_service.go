package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studypartner/backend/internal/apperr"
	"github.com/studypartner/backend/internal/model"
)

// FileService stores uploaded attachments: bytes on disk under a generated
// id, metadata in the database.
type FileService struct {
	store  Store
	dir    string
	logger *zap.Logger
}

func NewFileService(store Store, dir string, logger *zap.Logger) *FileService {
	return &FileService{store: store, dir: dir, logger: logger}
}

// Save writes the blob to disk and records its metadata. The returned file id
// can be attached to a note upload.
func (s *FileService) Save(ctx context.Context, userID int64, name, contentType string, body io.Reader) (*model.File, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	id := uuid.NewString()
	path := filepath.Join(s.dir, id)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	size, err := io.Copy(dst, body)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write upload file: %w", err)
	}

	file := &model.File{
		ID:          id,
		UserID:      userID,
		Name:        name,
		ContentType: contentType,
		Size:        size,
	}
	if err := s.store.Repos().Files.Create(ctx, file); err != nil {
		os.Remove(path)
		return nil, err
	}

	s.logger.Info("file uploaded",
		zap.String("file_id", id),
		zap.Int64("user_id", userID),
		zap.Int64("size", size),
	)

	return file, nil
}

// Open returns the file metadata plus a reader over its bytes. Only the owner
// may read it. The caller closes the reader.
func (s *FileService) Open(ctx context.Context, userID int64, id string) (*model.File, io.ReadCloser, error) {
	file, err := s.store.Repos().Files.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if file == nil || file.UserID != userID {
		return nil, nil, fmt.Errorf("file: %w", apperr.ErrNotFound)
	}

	f, err := os.Open(filepath.Join(s.dir, id))
	if err != nil {
		return nil, nil, fmt.Errorf("open upload file: %w", err)
	}
	return file, f, nil
}
