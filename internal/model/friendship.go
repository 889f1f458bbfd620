package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship is a single edge between two users. The pair is stored in canonical
// order (UserID1 < UserID2) so that exactly one document can exist per pair
// regardless of who initiated the request; RequesterID keeps the direction.
type Friendship struct {
	UserID1     uuid.UUID `json:"user_id_1"`
	Username1   string    `json:"username_1"`
	UserID2     uuid.UUID `json:"user_id_2"`
	Username2   string    `json:"username_2"`
	RequesterID uuid.UUID `json:"requester_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FriendshipKey builds the store key for the unordered pair (a, b).
func FriendshipKey(a, b uuid.UUID) string {
	if a.String() > b.String() {
		a, b = b, a
	}
	return fmt.Sprintf("%s:%s", a.String(), b.String())
}

func (f *Friendship) Key() string {
	return FriendshipKey(f.UserID1, f.UserID2)
}

// Involves reports whether userID is one of the two parties on the edge.
func (f *Friendship) Involves(userID uuid.UUID) bool {
	return f.UserID1 == userID || f.UserID2 == userID
}

func ValidFriendshipStatus(status string) bool {
	return status == FriendshipPending || status == FriendshipAccepted
}
