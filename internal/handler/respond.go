package handler

import (
	"net/http"

	"github.com/VibeBuddies/vibecheck-service/internal/apperr"
	"github.com/VibeBuddies/vibecheck-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func respond(c *gin.Context, resp dto.DataResponse) {
	c.JSON(resp.HTTPStatus, resp)
}

// respondError converts a service failure into the envelope. Internal and
// transient failures are collapsed into a generic message so nothing from the
// lower layers leaks to the client.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)

	message := err.Error()
	if kind == apperr.Internal || kind == apperr.Transient {
		message = "internal server error"
	}

	respond(c, dto.Fail(statusOf(kind), message))
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.InvalidArgument:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.PermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
