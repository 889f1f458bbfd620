package dto

import "github.com/google/uuid"

type MQUserDeletedMsg struct {
	UserID uuid.UUID `json:"user_id"`
}
