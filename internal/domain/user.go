package domain

import "time"

// User represents an authenticated account in the system.
// Emails are unique and compared exactly as stored (case-sensitive).
type User struct {
	Entity
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Stored hashed, never serialized
}

// UserSummary is the safe projection of a user returned by the
// credential service — no password hash.
type UserSummary struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary returns the user's public projection.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
