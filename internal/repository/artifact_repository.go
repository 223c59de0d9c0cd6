package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/studypartner/backend/internal/model"
)

// ArtifactRepository persists the note-derived records: flashcards, quizzes
// and summaries. Quiz questions are stored as one JSONB document per quiz.
type ArtifactRepository struct {
	db DB
}

func NewArtifactRepository(db DB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

func (r *ArtifactRepository) CreateFlashcard(ctx context.Context, f *model.Flashcard) error {
	query := `
		INSERT INTO flashcards (note_id, user_id, question, answer, difficulty, subject)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		f.NoteID,
		f.UserID,
		f.Question,
		f.Answer,
		f.Difficulty,
		f.Subject,
	).Scan(&f.ID, &f.CreatedAt)

	if err != nil {
		return fmt.Errorf("create flashcard: %w", err)
	}

	return nil
}

func (r *ArtifactRepository) CreateQuiz(ctx context.Context, q *model.Quiz) error {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("marshal quiz questions: %w", err)
	}

	query := `
		INSERT INTO quizzes (note_id, user_id, title, questions, subject)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err = r.db.QueryRow(
		ctx, query,
		q.NoteID,
		q.UserID,
		q.Title,
		questions,
		q.Subject,
	).Scan(&q.ID, &q.CreatedAt)

	if err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}

	return nil
}

func (r *ArtifactRepository) CreateSummary(ctx context.Context, s *model.Summary) error {
	query := `
		INSERT INTO summaries (note_id, user_id, content, key_points, subject)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.NoteID,
		s.UserID,
		s.Content,
		s.KeyPoints,
		s.Subject,
	).Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}

	return nil
}

func (r *ArtifactRepository) FlashcardsByNote(ctx context.Context, noteID int64) ([]*model.Flashcard, error) {
	query := `
		SELECT id, note_id, user_id, question, answer, difficulty, subject, created_at
		FROM flashcards
		WHERE note_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, noteID)
	if err != nil {
		return nil, fmt.Errorf("get flashcards by note: %w", err)
	}
	defer rows.Close()

	var flashcards []*model.Flashcard
	for rows.Next() {
		var f model.Flashcard
		err := rows.Scan(
			&f.ID,
			&f.NoteID,
			&f.UserID,
			&f.Question,
			&f.Answer,
			&f.Difficulty,
			&f.Subject,
			&f.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan flashcard: %w", err)
		}
		flashcards = append(flashcards, &f)
	}

	return flashcards, rows.Err()
}

func (r *ArtifactRepository) QuizzesByNote(ctx context.Context, noteID int64) ([]*model.Quiz, error) {
	query := `
		SELECT id, note_id, user_id, title, questions, subject, created_at
		FROM quizzes
		WHERE note_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, noteID)
	if err != nil {
		return nil, fmt.Errorf("get quizzes by note: %w", err)
	}
	defer rows.Close()

	var quizzes []*model.Quiz
	for rows.Next() {
		var q model.Quiz
		var questions []byte
		err := rows.Scan(
			&q.ID,
			&q.NoteID,
			&q.UserID,
			&q.Title,
			&questions,
			&q.Subject,
			&q.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		if err := json.Unmarshal(questions, &q.Questions); err != nil {
			return nil, fmt.Errorf("unmarshal quiz questions: %w", err)
		}
		quizzes = append(quizzes, &q)
	}

	return quizzes, rows.Err()
}

func (r *ArtifactRepository) SummariesByNote(ctx context.Context, noteID int64) ([]*model.Summary, error) {
	query := `
		SELECT id, note_id, user_id, content, key_points, subject, created_at
		FROM summaries
		WHERE note_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, noteID)
	if err != nil {
		return nil, fmt.Errorf("get summaries by note: %w", err)
	}
	defer rows.Close()

	var summaries []*model.Summary
	for rows.Next() {
		var s model.Summary
		err := rows.Scan(
			&s.ID,
			&s.NoteID,
			&s.UserID,
			&s.Content,
			&s.KeyPoints,
			&s.Subject,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, &s)
	}

	return summaries, rows.Err()
}

// DeleteByNote removes every artifact derived from the note. Used by the note
// deletion cascade and before artifact re-insertion on task redelivery.
func (r *ArtifactRepository) DeleteByNote(ctx context.Context, noteID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM flashcards WHERE note_id = $1`, noteID); err != nil {
		return fmt.Errorf("delete flashcards by note: %w", err)
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM quizzes WHERE note_id = $1`, noteID); err != nil {
		return fmt.Errorf("delete quizzes by note: %w", err)
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM summaries WHERE note_id = $1`, noteID); err != nil {
		return fmt.Errorf("delete summaries by note: %w", err)
	}
	return nil
}
