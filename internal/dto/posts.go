package dto

import "time"

// CreatePostRequest covers the non-file fields of the multipart create form;
// the optional image part is read from the request directly.
type CreatePostRequest struct {
	Title   string `form:"title" binding:"required,min=1,max=200"`
	Content string `form:"content" binding:"required,min=1"`
}

type UpdatePostRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required,min=1"`
}

// PostResponse is the flattened post shape the frontend consumes. Counts and
// the liked flag are computed for the requesting viewer.
type PostResponse struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	UserID            int64     `json:"user_id"`
	Username          string    `json:"username"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	ImageURL          *string   `json:"image_url"`
	CommentCount      int64     `json:"comment_count"`
	LikeCount         int64     `json:"like_count"`
	IsLiked           bool      `json:"is_liked"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type ImageURLResponse struct {
	URL        string `json:"url"`
	ObjectName string `json:"object_name"`
}
