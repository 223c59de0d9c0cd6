package model

import "time"

type TaskStatus string

const (
	TaskStatusQueued  TaskStatus = "queued"
	TaskStatusRunning TaskStatus = "running"
	TaskStatusDone    TaskStatus = "done"
	TaskStatusFailed  TaskStatus = "failed"
)

// EnrichmentTask is one deferred AI-processing job. NoteID is unique per task
// so redelivery of the same note collapses into a single queue entry.
type EnrichmentTask struct {
	ID        int64      `json:"id"`
	NoteID    int64      `json:"note_id"`
	Status    TaskStatus `json:"status"`
	Attempts  int        `json:"attempts"`
	LastError string     `json:"last_error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
