package models

import (
	"time"

	"github.com/google/uuid"
)

// Visitor is an unauthenticated requester identified by a persistent cookie
// and/or a browser-derived fingerprint hash.
type Visitor struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Fingerprint string    `json:"-" db:"fingerprint"`
	UploadCount int       `json:"upload_count" db:"upload_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	LastSeenAt  time.Time `json:"last_seen_at" db:"last_seen_at"`
}
