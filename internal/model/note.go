package model

import "time"

type NoteStatus string

const (
	NoteStatusPending    NoteStatus = "pending"
	NoteStatusProcessing NoteStatus = "processing"
	NoteStatusCompleted  NoteStatus = "completed"
	NoteStatusFailed     NoteStatus = "failed"
)

type Note struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Subject   string     `json:"subject,omitempty"`
	FileID    *string    `json:"file_id,omitempty"`
	FileType  string     `json:"file_type,omitempty"`
	Processed bool       `json:"processed"` // true iff Status == completed
	Status    NoteStatus `json:"processing_status"`
	CreatedAt time.Time  `json:"created_at"`
}
