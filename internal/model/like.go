package model

import "time"

// Like rows are unique per (user, post); toggling deletes or inserts one.
type Like struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	PostID    int64     `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
