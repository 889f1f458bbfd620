package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/VibeBuddies/vibecheck-service/internal/apperr"
	"github.com/VibeBuddies/vibecheck-service/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusOf(apperr.InvalidArgument))
	assert.Equal(t, http.StatusNotFound, statusOf(apperr.NotFound))
	assert.Equal(t, http.StatusConflict, statusOf(apperr.Conflict))
	assert.Equal(t, http.StatusForbidden, statusOf(apperr.PermissionDenied))
	assert.Equal(t, http.StatusInternalServerError, statusOf(apperr.Internal))
	assert.Equal(t, http.StatusInternalServerError, statusOf(apperr.Transient))
}

func TestRespondError_HidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "known failure passes its message through",
			err:         apperr.New(apperr.NotFound, "vibe check doesn't exist"),
			wantStatus:  http.StatusNotFound,
			wantMessage: "vibe check doesn't exist",
		},
		{
			name:        "internal failure is collapsed",
			err:         apperr.Wrap(apperr.Internal, "query failed", errors.New("pq: connection reset")),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "internal server error",
		},
		{
			name:        "untagged error defaults to internal",
			err:         errors.New("something leaked"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "internal server error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			respondError(c, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)

			var resp dto.DataResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantStatus, resp.HTTPStatus)
			assert.Equal(t, "fail", resp.Status)
			assert.Equal(t, tc.wantMessage, resp.Message)
		})
	}
}
