package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        string    `json:"comment_id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Body      string    `json:"comment_body"`
	Timestamp time.Time `json:"timestamp"`
}
