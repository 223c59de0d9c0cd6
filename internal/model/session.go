package model

import "time"

type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusAccepted  SessionStatus = "accepted"
	SessionStatusRejected  SessionStatus = "rejected"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

type TutoringSession struct {
	ID            int64         `json:"id"`
	StudentID     int64         `json:"student_id"`
	TutorID       int64         `json:"tutor_id"`
	Subject       string        `json:"subject"`
	Description   string        `json:"description"`
	ScheduledTime time.Time     `json:"scheduled_time"`
	Duration      int           `json:"duration"` // minutes
	Status        SessionStatus `json:"status"`
	Price         int64         `json:"price"` // tokens, snapshotted at booking time
	MeetingLink   string        `json:"meeting_link,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	Rating        *int          `json:"rating,omitempty"`
	Review        string        `json:"review,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Attached for list responses, not stored on the row.
	Student *Profile `json:"student,omitempty"`
	Tutor   *Profile `json:"tutor,omitempty"`
}

// SessionPrice computes the token price for a booking: hourly rate prorated by
// duration in minutes. Integer token arithmetic, remainder truncates.
func SessionPrice(hourlyRate int64, durationMin int) int64 {
	return hourlyRate * int64(durationMin) / 60
}
