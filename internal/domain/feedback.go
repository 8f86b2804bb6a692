package domain

import "time"

// Feedback is one entry of the write-only feedback log. Rating is 1..5.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
