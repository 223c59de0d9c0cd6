package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/studypartner/backend/internal/apperr"
	"github.com/studypartner/backend/internal/model"
)

const flashcardPageSize = 5

type NoteService struct {
	store  Store
	logger *zap.Logger
}

func NewNoteService(store Store, logger *zap.Logger) *NoteService {
	return &NoteService{store: store, logger: logger}
}

type UploadNoteInput struct {
	Title    string
	Content  string
	Subject  string
	FileID   *string
	FileType string
}

// Upload stores a new note and queues it for AI enrichment. The note row and
// its queue entry are created in one transaction, so a stored note always has
// a pending task.
func (s *NoteService) Upload(ctx context.Context, userID int64, in UploadNoteInput) (*model.Note, error) {
	if in.Title == "" || in.Content == "" {
		return nil, fmt.Errorf("title and content are required: %w", apperr.ErrValidation)
	}

	note := &model.Note{
		UserID:   userID,
		Title:    in.Title,
		Content:  in.Content,
		Subject:  in.Subject,
		FileID:   in.FileID,
		FileType: in.FileType,
		Status:   model.NoteStatusPending,
	}

	err := s.store.WithTx(ctx, func(r Repos) error {
		if err := r.Notes.Create(ctx, note); err != nil {
			return err
		}
		return r.Tasks.Enqueue(ctx, note.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("note uploaded",
		zap.Int64("note_id", note.ID),
		zap.Int64("user_id", userID),
	)

	return note, nil
}

// Get returns the note when it belongs to the caller.
func (s *NoteService) Get(ctx context.Context, userID, noteID int64) (*model.Note, error) {
	note, err := s.store.Repos().Notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil || note.UserID != userID {
		return nil, fmt.Errorf("note: %w", apperr.ErrNotFound)
	}
	return note, nil
}

func (s *NoteService) List(ctx context.Context, userID int64) ([]*model.Note, error) {
	return s.store.Repos().Notes.ListByUser(ctx, userID)
}

// Delete removes a note and all artifacts derived from it.
func (s *NoteService) Delete(ctx context.Context, userID, noteID int64) error {
	note, err := s.store.Repos().Notes.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note == nil || note.UserID != userID {
		return fmt.Errorf("note: %w", apperr.ErrNotFound)
	}

	err = s.store.WithTx(ctx, func(r Repos) error {
		if err := r.Artifacts.DeleteByNote(ctx, noteID); err != nil {
			return err
		}
		return r.Notes.Delete(ctx, noteID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("note deleted", zap.Int64("note_id", noteID), zap.Int64("user_id", userID))
	return nil
}

// FlashcardPage is one fixed-size slice of a user's flashcards.
type FlashcardPage struct {
	Flashcards []*model.Flashcard `json:"flashcards"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
	Total      int                `json:"total"`
}

// Flashcards pages through every flashcard generated from the user's notes,
// five per page. Page numbers are 1-based and clamped into range.
func (s *NoteService) Flashcards(ctx context.Context, userID int64, page int) (*FlashcardPage, error) {
	r := s.store.Repos()

	notes, err := r.Notes.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var all []*model.Flashcard
	for _, note := range notes {
		cards, err := r.Artifacts.FlashcardsByNote(ctx, note.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, cards...)
	}

	total := len(all)
	totalPages := (total + flashcardPageSize - 1) / flashcardPageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * flashcardPageSize
	end := start + flashcardPageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &FlashcardPage{
		Flashcards: all[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

// Quizzes returns every quiz generated from the user's notes.
func (s *NoteService) Quizzes(ctx context.Context, userID int64) ([]*model.Quiz, error) {
	r := s.store.Repos()

	notes, err := r.Notes.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var all []*model.Quiz
	for _, note := range notes {
		quizzes, err := r.Artifacts.QuizzesByNote(ctx, note.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, quizzes...)
	}

	return all, nil
}

// Summaries returns every summary generated from the user's notes.
func (s *NoteService) Summaries(ctx context.Context, userID int64) ([]*model.Summary, error) {
	r := s.store.Repos()

	notes, err := r.Notes.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var all []*model.Summary
	for _, note := range notes {
		summaries, err := r.Artifacts.SummariesByNote(ctx, note.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, summaries...)
	}

	return all, nil
}
