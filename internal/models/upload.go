package models

import (
	"time"

	"github.com/google/uuid"
)

type UploadStatus string

const (
	UploadPending    UploadStatus = "pending"
	UploadProcessing UploadStatus = "processing"
	UploadCompleted  UploadStatus = "completed"
	UploadFailed     UploadStatus = "failed"
)

// Upload tracks one video upload through transcription.
type Upload struct {
	ID         uuid.UUID    `json:"id" db:"id"`
	UserID     *uuid.UUID   `json:"user_id,omitempty" db:"user_id"`
	VisitorID  *uuid.UUID   `json:"visitor_id,omitempty" db:"visitor_id"`
	Filename   string       `json:"filename" db:"filename"`
	Status     UploadStatus `json:"status" db:"status"`
	Transcript *string      `json:"transcript,omitempty" db:"transcript"`
	Error      *string      `json:"error,omitempty" db:"error"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" db:"updated_at"`
}

// Done reports whether the upload reached a terminal state.
func (u *Upload) Done() bool {
	return u.Status == UploadCompleted || u.Status == UploadFailed
}
