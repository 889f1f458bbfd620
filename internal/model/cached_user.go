package model

import "github.com/google/uuid"

// CachedUser is the local replica of an account-service user, kept fresh through
// the user update queue and used to resolve usernames to stable identifiers.
type CachedUser struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
}
