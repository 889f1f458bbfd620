package dto

type FriendUsernameRequest struct {
	Username string `json:"username" binding:"required"`
}
