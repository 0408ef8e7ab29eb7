package model

import "time"

// User is a credential record. PINHash is a bcrypt hash and never leaves
// the server.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	PINHash   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile links a user to the café whose inventory they can see.
type Profile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CafeID      string    `json:"cafe_id"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
