package service

import "errors"

var (
	ErrInternal           = errors.New("internal server error")
	ErrPostNotFound       = errors.New("post not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoProfilePicture   = errors.New("profile picture not found")
	ErrNoPostImage        = errors.New("post image not found")
	ErrForbidden          = errors.New("you can only modify your own content")
	ErrEmailTaken         = errors.New("email already exists")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrPasswordMismatch   = errors.New("new passwords do not match")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenInactive      = errors.New("token is not active")
)
