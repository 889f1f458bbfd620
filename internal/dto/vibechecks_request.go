package dto

import "github.com/VibeBuddies/vibecheck-service/internal/model"

// Boundary typing only: the ordered domain checks (review text, rating range,
// album presence) live in the service layer.
type CreateVibeCheckRequest struct {
	Album  *model.Album `json:"album_id"`
	Review string       `json:"review"`
	Rating int          `json:"rating"`
}

type CreateCommentRequest struct {
	Body string `json:"comment_body"`
}
