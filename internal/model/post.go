package model

import "time"

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    int64     `json:"user_id"`
	ImageURL  *string   `json:"image_url"` // object name in the storage bucket
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeedPost is a post assembled for the requesting viewer: author, counts and
// the viewer's like flag.
type FeedPost struct {
	Post         Post   `json:"post"`
	Author       Author `json:"author"`
	CommentCount int64  `json:"comment_count"`
	LikeCount    int64  `json:"like_count"`
	IsLiked      bool   `json:"is_liked"`
}
