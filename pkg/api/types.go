package api

import "time"

// Post is a feed item as the backend returns it: counts and the liked flag
// are computed server-side for the requesting user.
type Post struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	UserID            int64     `json:"user_id"`
	Username          string    `json:"username"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	ImageURL          *string   `json:"image_url"`
	CommentCount      int       `json:"comment_count"`
	LikeCount         int       `json:"like_count"`
	IsLiked           bool      `json:"is_liked"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Comment struct {
	ID                int64     `json:"id"`
	Content           string    `json:"content"`
	PostID            int64     `json:"post_id"`
	UserID            int64     `json:"user_id"`
	Username          string    `json:"username"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// LikeStatus is the authoritative like state returned by the server after a
// toggle. Clients display it verbatim and never compute deltas themselves.
type LikeStatus struct {
	Liked     bool `json:"is_liked"`
	LikeCount int  `json:"like_count"`
}

type Token struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type ImageURL struct {
	URL        string `json:"url"`
	ObjectName string `json:"object_name"`
}
