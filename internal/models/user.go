package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	UploadCount  int       `json:"upload_count" db:"upload_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
