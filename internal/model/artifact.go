package model

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Flashcard, Quiz and Summary are derived from a Note by the AI enrichment
// step. They are immutable once written and removed only via the note cascade.

type Flashcard struct {
	ID         int64      `json:"id"`
	NoteID     int64      `json:"note_id"`
	UserID     int64      `json:"user_id"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Difficulty Difficulty `json:"difficulty"`
	Subject    string     `json:"subject,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type Quiz struct {
	ID        int64          `json:"id"`
	NoteID    int64          `json:"note_id"`
	UserID    int64          `json:"user_id"`
	Title     string         `json:"title"`
	Questions []QuizQuestion `json:"questions"`
	Subject   string         `json:"subject,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type Summary struct {
	ID        int64     `json:"id"`
	NoteID    int64     `json:"note_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	KeyPoints []string  `json:"key_points"`
	Subject   string    `json:"subject,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
