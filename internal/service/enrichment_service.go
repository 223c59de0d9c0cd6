package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/studypartner/backend/internal/ai"
	"github.com/studypartner/backend/internal/apperr"
	"github.com/studypartner/backend/internal/model"
)

// Generator produces study artifacts from a note.
type Generator interface {
	Generate(ctx context.Context, title, subject, content string) (*ai.StudyPack, error)
}

// RateLimiter caps how many generations a user may run per day.
type RateLimiter interface {
	Allow(ctx context.Context, userID int64) (bool, error)
}

// EnrichmentService consumes the task queue and turns pending notes into
// flashcards, quizzes and summaries.
type EnrichmentService struct {
	store         Store
	generator     Generator
	limiter       RateLimiter
	notifications *NotificationService
	logger        *zap.Logger
}

func NewEnrichmentService(store Store, generator Generator, limiter RateLimiter, notifications *NotificationService, logger *zap.Logger) *EnrichmentService {
	return &EnrichmentService{
		store:         store,
		generator:     generator,
		limiter:       limiter,
		notifications: notifications,
		logger:        logger,
	}
}

// ProcessNext claims one queued task and runs it to completion. It reports
// whether a task was claimed; an empty queue returns (false, nil). Task
// failures are recorded on the task and the note, not returned, so the worker
// loop keeps draining.
func (s *EnrichmentService) ProcessNext(ctx context.Context) (bool, error) {
	task, err := s.store.Repos().Tasks.ClaimNext(ctx)
	if err != nil {
		return false, err
	}
	if task == nil {
		return false, nil
	}

	if err := s.run(ctx, task); err != nil {
		s.fail(ctx, task, err)
	}

	return true, nil
}

func (s *EnrichmentService) run(ctx context.Context, task *model.EnrichmentTask) error {
	r := s.store.Repos()

	note, err := r.Notes.GetByID(ctx, task.NoteID)
	if err != nil {
		return err
	}
	if note == nil {
		// The note was deleted after enqueueing; nothing left to do.
		return s.store.Repos().Tasks.MarkDone(ctx, task.ID)
	}

	if err := r.Notes.UpdateStatus(ctx, note.ID, model.NoteStatusProcessing); err != nil {
		return err
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, note.UserID)
		if err != nil {
			s.logger.Warn("rate limiter check failed", zap.Int64("user_id", note.UserID), zap.Error(err))
		} else if !allowed {
			return fmt.Errorf("daily generation limit reached: %w", apperr.ErrExternalService)
		}
	}

	pack, err := s.generator.Generate(ctx, note.Title, note.Subject, note.Content)
	if err != nil {
		return fmt.Errorf("generate study pack: %w: %w", apperr.ErrExternalService, err)
	}

	err = s.store.WithTx(ctx, func(r Repos) error {
		// Redelivered notes replace their old artifacts instead of stacking
		// duplicates next to them.
		if err := r.Artifacts.DeleteByNote(ctx, note.ID); err != nil {
			return err
		}

		for _, card := range pack.Flashcards {
			difficulty := model.Difficulty(card.Difficulty)
			if difficulty != model.DifficultyEasy && difficulty != model.DifficultyMedium && difficulty != model.DifficultyHard {
				difficulty = model.DifficultyMedium
			}
			flashcard := &model.Flashcard{
				NoteID:     note.ID,
				UserID:     note.UserID,
				Question:   card.Question,
				Answer:     card.Answer,
				Difficulty: difficulty,
				Subject:    note.Subject,
			}
			if err := r.Artifacts.CreateFlashcard(ctx, flashcard); err != nil {
				return err
			}
		}

		if pack.Quiz != nil && len(pack.Quiz.Questions) > 0 {
			title := pack.Quiz.Title
			if title == "" {
				title = note.Title + " Quiz"
			}
			questions := make([]model.QuizQuestion, 0, len(pack.Quiz.Questions))
			for _, q := range pack.Quiz.Questions {
				questions = append(questions, model.QuizQuestion{
					Question:      q.Question,
					Options:       q.Options,
					CorrectAnswer: q.CorrectAnswer,
					Explanation:   q.Explanation,
				})
			}
			quiz := &model.Quiz{
				NoteID:    note.ID,
				UserID:    note.UserID,
				Title:     title,
				Questions: questions,
				Subject:   note.Subject,
			}
			if err := r.Artifacts.CreateQuiz(ctx, quiz); err != nil {
				return err
			}
		}

		if pack.Summary != nil && pack.Summary.Content != "" {
			summary := &model.Summary{
				NoteID:    note.ID,
				UserID:    note.UserID,
				Content:   pack.Summary.Content,
				KeyPoints: pack.Summary.KeyPoints,
				Subject:   note.Subject,
			}
			if err := r.Artifacts.CreateSummary(ctx, summary); err != nil {
				return err
			}
		}

		if err := r.Notes.UpdateStatus(ctx, note.ID, model.NoteStatusCompleted); err != nil {
			return err
		}
		if err := r.Tasks.MarkDone(ctx, task.ID); err != nil {
			return err
		}

		return s.notifications.Push(ctx, r, &model.Notification{
			UserID:    note.UserID,
			Title:     "Note Processing Complete",
			Message:   fmt.Sprintf("Your note \"%s\" has been processed. Flashcards, quiz, and summary are ready!", note.Title),
			Type:      model.NotificationSuccess,
			ActionURL: fmt.Sprintf("/notes/%d", note.ID),
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("note enriched",
		zap.Int64("note_id", note.ID),
		zap.Int64("task_id", task.ID),
		zap.Int("flashcards", len(pack.Flashcards)),
	)

	return nil
}

// fail records the error on the task, flips the note to failed and tells the
// owner. Each step is best effort so a partial failure still leaves a trace.
func (s *EnrichmentService) fail(ctx context.Context, task *model.EnrichmentTask, cause error) {
	s.logger.Error("enrichment failed",
		zap.Int64("task_id", task.ID),
		zap.Int64("note_id", task.NoteID),
		zap.Error(cause),
	)

	r := s.store.Repos()

	if err := r.Tasks.MarkFailed(ctx, task.ID, cause.Error()); err != nil {
		s.logger.Error("mark task failed", zap.Int64("task_id", task.ID), zap.Error(err))
	}

	note, err := r.Notes.GetByID(ctx, task.NoteID)
	if err != nil || note == nil {
		return
	}

	if err := r.Notes.UpdateStatus(ctx, note.ID, model.NoteStatusFailed); err != nil {
		s.logger.Error("mark note failed", zap.Int64("note_id", note.ID), zap.Error(err))
	}

	notifyErr := s.notifications.Push(ctx, r, &model.Notification{
		UserID:  note.UserID,
		Title:   "Note Processing Failed",
		Message: fmt.Sprintf("Failed to process your note \"%s\". Please try uploading again.", note.Title),
		Type:    model.NotificationError,
	})
	if notifyErr != nil {
		s.logger.Error("failure notification", zap.Int64("note_id", note.ID), zap.Error(notifyErr))
	}
}

// RequeueStale returns crashed-worker tasks to the queue.
func (s *EnrichmentService) RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.store.Repos().Tasks.RequeueStale(ctx, olderThan)
}
