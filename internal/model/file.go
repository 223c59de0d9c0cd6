package model

import "time"

// File is the metadata row for an uploaded blob; the bytes live on disk under
// the uuid ID.
type File struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}
