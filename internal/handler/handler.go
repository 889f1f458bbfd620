package handler

import (
	"context"

	"github.com/VibeBuddies/vibecheck-service/internal/model"
	"github.com/VibeBuddies/vibecheck-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

type Handler struct {
	services *service.Service
}

func New(services *service.Service) *Handler {
	return &Handler{
		services: services,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		vibeChecks := v1.Group("/vibe-checks")
		{
			vibeChecks.POST("", h.authMiddleware, h.vibeChecksCreate)
			vibeChecks.GET("", h.authMiddleware, h.vibeChecksGetAll)
			vibeChecks.DELETE("", h.authMiddleware, h.vibeChecksDeleteAll)
			vibeChecks.GET("/user/:username", h.authMiddleware, h.vibeChecksGetByUsername)

			vibeCheck := vibeChecks.Group("/:vibeCheckID")
			{
				vibeCheck.GET("", h.authMiddleware, h.vibeChecksGetByID)
				vibeCheck.DELETE("", h.authMiddleware, h.vibeChecksDelete)
				vibeCheck.POST("/reactions/:type", h.authMiddleware, h.vibeChecksReact)
				vibeCheck.POST("/comments", h.authMiddleware, h.commentsCreate)
				vibeCheck.DELETE("/comments/:commentID", h.authMiddleware, h.commentsDelete)
			}
		}

		friends := v1.Group("/friends")
		{
			friends.POST("", h.authMiddleware, h.friendsRequest)
			friends.PATCH("/accept", h.authMiddleware, h.friendsAccept)
			friends.DELETE("", h.authMiddleware, h.friendsDelete)
			friends.GET("", h.authMiddleware, h.friendsList)
			friends.GET("/:username", h.authMiddleware, h.friendsListByUsername)
		}
	}

	return r
}

func (h *Handler) getUserDataFromClaims(ctx context.Context, claims jwt.MapClaims, accessToken string) (*model.CachedUser, error) {
	idString, _ := claims["id"].(string)
	id, err := uuid.Parse(idString)
	if err != nil {
		return nil, err
	}

	return h.services.UserCache.CreateOrGet(ctx, id, accessToken)
}

func (h *Handler) getCachedUserFromRequest(c *gin.Context) *model.CachedUser {
	userReq, _ := c.Get("cached-user")

	user, ok := userReq.(model.CachedUser)
	if !ok {
		return nil
	}

	return &user
}
