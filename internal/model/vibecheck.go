package model

import (
	"time"

	"github.com/google/uuid"
)

type Album struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

type VibeCheck struct {
	ID         string    `json:"vibe_check_id"`
	UserID     uuid.UUID `json:"user_id"`
	Username   string    `json:"username"`
	Album      Album     `json:"album_id"`
	Review     string    `json:"review"`
	Rating     int       `json:"rating"`
	Likes      int64     `json:"likes"`
	Dislikes   int64     `json:"dislikes"`
	LikedBy    []string  `json:"liked_by"`
	DislikedBy []string  `json:"disliked_by"`
	Comments   []Comment `json:"comments"`
	Timestamp  time.Time `json:"timestamp"`
}

type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

func (vc *VibeCheck) LikedByUser(username string) bool {
	for _, name := range vc.LikedBy {
		if name == username {
			return true
		}
	}
	return false
}

func (vc *VibeCheck) DislikedByUser(username string) bool {
	for _, name := range vc.DislikedBy {
		if name == username {
			return true
		}
	}
	return false
}
