package domain

import "time"

// User represents an authenticated account. Every other entity is owned by
// exactly one user and is cascade-deleted with it.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
