package model

import "time"

type ActivityType string

const (
	ActivityFlashcards ActivityType = "flashcards"
	ActivityQuiz       ActivityType = "quiz"
	ActivityNotes      ActivityType = "notes"
)

// StudySession is a write-once activity record consumed by the analytics
// rollup. Date is a YYYY-MM-DD calendar string in the server's timezone.
type StudySession struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"user_id"`
	Type      ActivityType `json:"type"`
	NoteID    *int64       `json:"note_id,omitempty"`
	Duration  int          `json:"duration"` // minutes
	Score     *float64     `json:"score,omitempty"`
	Date      string       `json:"date"`
	CreatedAt time.Time    `json:"created_at"`
}

// DateFormat is the calendar-day layout used by study sessions and analytics.
const DateFormat = "2006-01-02"

func Today(now time.Time) string {
	return now.Format(DateFormat)
}
