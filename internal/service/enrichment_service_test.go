package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studypartner/backend/internal/ai"
	"github.com/studypartner/backend/internal/model"
)

type stubGenerator struct {
	pack *ai.StudyPack
	err  error
}

func (g *stubGenerator) Generate(context.Context, string, string, string) (*ai.StudyPack, error) {
	return g.pack, g.err
}

type stubLimiter struct {
	allowed bool
}

func (l *stubLimiter) Allow(context.Context, int64) (bool, error) {
	return l.allowed, nil
}

func samplePack() *ai.StudyPack {
	return &ai.StudyPack{
		Flashcards: []ai.Flashcard{
			{Question: "What is 2+2?", Answer: "4", Difficulty: "easy"},
			{Question: "What is a derivative?", Answer: "Rate of change", Difficulty: "weird"},
		},
		Quiz: &ai.Quiz{
			Questions: []ai.Question{
				{Question: "Pick one", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: 2, Explanation: "because"},
			},
		},
		Summary: &ai.Summary{Content: "All about math.", KeyPoints: []string{"numbers", "symbols"}},
	}
}

func newEnrichmentFixture(gen Generator, limiter RateLimiter) (*memStore, *NoteService, *EnrichmentService) {
	store := newMemStore()
	logger := zap.NewNop()
	notifications := NewNotificationService(store, nil, logger)
	notes := NewNoteService(store, logger)
	enrichment := NewEnrichmentService(store, gen, limiter, notifications, logger)
	return store, notes, enrichment
}

func TestProcessNextSuccess(t *testing.T) {
	ctx := context.Background()
	store, notes, enrichment := newEnrichmentFixture(&stubGenerator{pack: samplePack()}, nil)
	seedStudent(store, 1, 10)

	note, err := notes.Upload(ctx, 1, UploadNoteInput{Title: "Algebra", Content: "x+y"})
	require.NoError(t, err)
	assert.Equal(t, model.NoteStatusPending, note.Status)

	processed, err := enrichment.ProcessNext(ctx)
	require.NoError(t, err)
	require.True(t, processed)

	assert.Equal(t, model.NoteStatusCompleted, note.Status)
	assert.True(t, note.Processed)

	r := store.Repos()
	cards, err := r.Artifacts.FlashcardsByNote(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, model.DifficultyEasy, cards[0].Difficulty)
	assert.Equal(t, model.DifficultyMedium, cards[1].Difficulty, "unknown difficulty falls back to medium")

	quizzes, err := r.Artifacts.QuizzesByNote(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, "Algebra Quiz", quizzes[0].Title, "missing quiz title derives from the note")

	summaries, err := r.Artifacts.SummariesByNote(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, []string{"numbers", "symbols"}, summaries[0].KeyPoints)

	notifications := store.notificationsFor(1)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Note Processing Complete", notifications[0].Title)

	assert.Equal(t, model.TaskStatusDone, store.data.tasks[note.ID].Status)

	// The queue is drained.
	processed, err = enrichment.ProcessNext(ctx)
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestProcessNextGeneratorFailure(t *testing.T) {
	ctx := context.Background()
	store, notes, enrichment := newEnrichmentFixture(&stubGenerator{err: errors.New("model unavailable")}, nil)
	seedStudent(store, 1, 10)

	note, err := notes.Upload(ctx, 1, UploadNoteInput{Title: "Physics", Content: "F=ma"})
	require.NoError(t, err)

	processed, err := enrichment.ProcessNext(ctx)
	require.NoError(t, err, "task failures do not fail the worker loop")
	require.True(t, processed)

	assert.Equal(t, model.NoteStatusFailed, note.Status)
	assert.False(t, note.Processed)

	r := store.Repos()
	cards, err := r.Artifacts.FlashcardsByNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, cards, "a failed run writes no artifacts")

	notifications := store.notificationsFor(1)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Note Processing Failed", notifications[0].Title)
	assert.Contains(t, notifications[0].Message, `"Physics"`)

	task := store.data.tasks[note.ID]
	assert.Equal(t, model.TaskStatusFailed, task.Status)
	assert.Contains(t, task.LastError, "model unavailable")
}

func TestProcessNextRateLimited(t *testing.T) {
	ctx := context.Background()
	store, notes, enrichment := newEnrichmentFixture(&stubGenerator{pack: samplePack()}, &stubLimiter{allowed: false})
	seedStudent(store, 1, 10)

	note, err := notes.Upload(ctx, 1, UploadNoteInput{Title: "Chemistry", Content: "H2O"})
	require.NoError(t, err)

	processed, err := enrichment.ProcessNext(ctx)
	require.NoError(t, err)
	require.True(t, processed)

	assert.Equal(t, model.NoteStatusFailed, note.Status)
	assert.Equal(t, model.TaskStatusFailed, store.data.tasks[note.ID].Status)
}

func TestReprocessReplacesArtifacts(t *testing.T) {
	ctx := context.Background()
	store, notes, enrichment := newEnrichmentFixture(&stubGenerator{pack: samplePack()}, nil)
	seedStudent(store, 1, 10)

	note, err := notes.Upload(ctx, 1, UploadNoteInput{Title: "Algebra", Content: "x+y"})
	require.NoError(t, err)

	processed, err := enrichment.ProcessNext(ctx)
	require.NoError(t, err)
	require.True(t, processed)

	// Requeue the same note and process again.
	require.NoError(t, store.Repos().Tasks.Enqueue(ctx, note.ID))
	processed, err = enrichment.ProcessNext(ctx)
	require.NoError(t, err)
	require.True(t, processed)

	cards, err := store.Repos().Artifacts.FlashcardsByNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 2, "rerun replaces artifacts instead of duplicating them")

	quizzes, err := store.Repos().Artifacts.QuizzesByNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Len(t, quizzes, 1)
}

func TestProcessNextNoteDeleted(t *testing.T) {
	ctx := context.Background()
	store, notes, enrichment := newEnrichmentFixture(&stubGenerator{pack: samplePack()}, nil)
	seedStudent(store, 1, 10)

	note, err := notes.Upload(ctx, 1, UploadNoteInput{Title: "Gone", Content: "soon"})
	require.NoError(t, err)
	require.NoError(t, notes.Delete(ctx, 1, note.ID))

	processed, err := enrichment.ProcessNext(ctx)
	require.NoError(t, err)
	require.True(t, processed)

	assert.Equal(t, model.TaskStatusDone, store.data.tasks[note.ID].Status)
	assert.Empty(t, store.notificationsFor(1))
}
