package entity

import "time"

// LibraryItem is one shelf entry. The server enforces at most one item
// per (user, work); the client never fabricates additional rows.
type LibraryItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	WorkKey   string    `json:"work_key"`
	Status    string    `json:"status"` // want_to_read, reading, read
	Book      *Book     `json:"book,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
