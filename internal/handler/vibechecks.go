package handler

import (
	"net/http"
	"strings"

	"github.com/VibeBuddies/vibecheck-service/internal/dto"
	"github.com/VibeBuddies/vibecheck-service/internal/model"
	"github.com/gin-gonic/gin"
)

func (h *Handler) vibeChecksCreate(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.CreateVibeCheckRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond(c, dto.Fail(http.StatusBadRequest, err.Error()))
		return
	}

	createdVibeCheck, err := h.services.VibeCheck.Create(c.Request.Context(), user, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, dto.Success(http.StatusCreated, "vibe check created successfully", gin.H{"newlyCreatedVibeCheck": createdVibeCheck}))
}

func (h *Handler) vibeChecksGetAll(c *gin.Context) {
	vibeChecks, err := h.services.VibeCheck.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, dto.Success(http.StatusOK, "", gin.H{"returnedVibeChecks": vibeChecks}))
}

func (h *Handler) vibeChecksGetByID(c *gin.Context) {
	vibeCheckID := strings.TrimSpace(c.Param("vibeCheckID"))

	vibeCheck, err := h.services.VibeCheck.FindByID(c.Request.Context(), vibeCheckID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, dto.Success(http.StatusOK, "", gin.H{"returnedVibeCheck": vibeCheck}))
}

func (h *Handler) vibeChecksGetByUsername(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))

	vibeChecks, err := h.services.VibeCheck.FindByUsername(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, dto.Success(http.StatusOK, "", gin.H{"returnedVibeChecks": vibeChecks}))
}

func (h *Handler) vibeChecksDelete(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)
	vibeCheckID := strings.TrimSpace(c.Param("vibeCheckID"))

	deletedVibeCheck, err := h.services.VibeCheck.Delete(c.Request.Context(), user.ID, vibeCheckID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, dto.Success(http.StatusOK, "vibe check deleted successfully", gin.H{"deletedVibeCheck": deletedVibeCheck}))
}

func (h *Handler) vibeChecksDeleteAll(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	deleted, err := h.services.VibeCheck.DeleteAllByUserID(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, dto.Success(http.StatusOK, "vibe checks deleted successfully", gin.H{"batchResult": deleted}))
}

func (h *Handler) vibeChecksReact(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)
	vibeCheckID := strings.TrimSpace(c.Param("vibeCheckID"))
	kind := model.ReactionKind(strings.TrimSpace(c.Param("type")))

	updatedVibeCheck, err := h.services.VibeCheck.ApplyReaction(c.Request.Context(), vibeCheckID, user.Username, kind)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, dto.Success(http.StatusOK, "", gin.H{"updatedVibeCheck": updatedVibeCheck}))
}

func (h *Handler) commentsCreate(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)
	vibeCheckID := strings.TrimSpace(c.Param("vibeCheckID"))

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond(c, dto.Fail(http.StatusBadRequest, err.Error()))
		return
	}

	createdComment, err := h.services.Comment.Add(c.Request.Context(), vibeCheckID, user, input.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, dto.Success(http.StatusCreated, "comment created successfully", gin.H{"newComment": createdComment}))
}

func (h *Handler) commentsDelete(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)
	vibeCheckID := strings.TrimSpace(c.Param("vibeCheckID"))
	commentID := strings.TrimSpace(c.Param("commentID"))

	if err := h.services.Comment.Remove(c.Request.Context(), vibeCheckID, commentID, user.ID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, dto.Success(http.StatusOK, "comment deleted successfully", nil))
}
