package dto

import "time"

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type CommentResponse struct {
	ID                int64     `json:"id"`
	Content           string    `json:"content"`
	PostID            int64     `json:"post_id"`
	UserID            int64     `json:"user_id"`
	Username          string    `json:"username"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
