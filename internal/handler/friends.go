package handler

import (
	"net/http"
	"strings"

	"github.com/VibeBuddies/vibecheck-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) friendsRequest(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.FriendUsernameRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond(c, dto.Fail(http.StatusBadRequest, err.Error()))
		return
	}

	friendship, err := h.services.Friendship.Request(c.Request.Context(), user, input.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, dto.Success(http.StatusCreated, "friend request sent", gin.H{"friendship": friendship}))
}

func (h *Handler) friendsAccept(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.FriendUsernameRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond(c, dto.Fail(http.StatusBadRequest, err.Error()))
		return
	}

	friendship, err := h.services.Friendship.Accept(c.Request.Context(), user.ID, input.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, dto.Success(http.StatusOK, "friend request accepted", gin.H{"friendship": friendship}))
}

func (h *Handler) friendsDelete(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.FriendUsernameRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond(c, dto.Fail(http.StatusBadRequest, err.Error()))
		return
	}

	if err := h.services.Friendship.Remove(c.Request.Context(), user.ID, input.Username); err != nil {
		respondError(c, err)
		return
	}

	respond(c, dto.Success(http.StatusOK, "friend deleted successfully", nil))
}

func (h *Handler) friendsList(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	status := c.DefaultQuery("status", "accepted")

	friendList, err := h.services.Friendship.ListByStatus(c.Request.Context(), user.ID, status)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, dto.Success(http.StatusOK, "", gin.H{"friendList": friendList}))
}

func (h *Handler) friendsListByUsername(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	status := c.Query("status")

	friendList, err := h.services.Friendship.ListByUsername(c.Request.Context(), username, status)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, dto.Success(http.StatusOK, "", gin.H{"friendList": friendList}))
}
