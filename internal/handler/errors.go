package handler

import (
	"errors"
	"net/http"

	"github.com/Linksy/social-service/internal/service"
	"github.com/Linksy/social-service/internal/storage"
)

var (
	errNotAuthorized    = errors.New("user is not authorized")
	errInvalidPostID    = errors.New("invalid post ID")
	errInvalidCommentID = errors.New("invalid comment ID")
	errInvalidUserID    = errors.New("invalid user ID")
	errImageRequired    = errors.New("image file is required")
)

// statusForError maps service-layer sentinels to HTTP statuses; anything
// unrecognized is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrNoPostImage),
		errors.Is(err, service.ErrNoProfilePicture):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrTokenInactive):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, storage.ErrFileMustBeImage),
		errors.Is(err, storage.ErrFileTooLarge):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
