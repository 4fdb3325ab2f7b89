package entity

import "time"

// Review carries its moderation status everywhere; visibility rules
// live in the review package.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	WorkKey   string    `json:"work_key"`
	Rating    int       `json:"rating"` // 1..5
	Content   string    `json:"content"`
	Spoiler   bool      `json:"spoiler"`
	Status    string    `json:"status"` // pending, approved, rejected
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ModerationStats is the server-computed moderation dashboard summary.
// The client surfaces it as-is and never recomputes the counts.
type ModerationStats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}
