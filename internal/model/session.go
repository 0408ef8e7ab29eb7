package model

import "time"

// SessionData is the state stored against a session token. CafeID may be
// empty when the user has no profile yet; such a session is authenticated
// but incomplete and tenant-scoped operations reject it.
type SessionData struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	CafeID      string    `json:"cafe_id"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}
