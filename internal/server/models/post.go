package models

import "time"

// Post is authored by a user and immutable once created. The JSON form is
// also the cached representation.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
