package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a local row federated with the identity provider: credentials live
// in Keycloak, the row is linked by KeycloakUserID and lazily synced.
type User struct {
	ID                int64      `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	KeycloakUserID    *uuid.UUID `json:"keycloak_user_id"`
	LastSyncedAt      *time.Time `json:"last_synced_at"`
	ProfilePictureURL *string    `json:"profile_picture_url"`
}

// Author is the slice of a user attached to posts and comments.
type Author struct {
	ID                int64   `json:"id"`
	Username          string  `json:"username"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}
