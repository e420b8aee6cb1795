package domain

import "time"

// User models a registered account. IsPremium only ever flips from false to
// true, and only after a completed capture.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsPremium    bool      `json:"isPremium"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SessionSnapshot is the identity cached against a session token so request
// handlers do not need a database read.
type SessionSnapshot struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	IsPremium bool   `json:"isPremium"`
}

// Snapshot returns the session view of u.
func (u *User) Snapshot() *SessionSnapshot {
	return &SessionSnapshot{
		ID:        u.ID,
		Username:  u.Username,
		IsPremium: u.IsPremium,
	}
}
