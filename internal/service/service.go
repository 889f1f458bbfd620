package service

import (
	"context"
	"encoding/json"

	"github.com/VibeBuddies/vibecheck-service/internal/apperr"
	"github.com/VibeBuddies/vibecheck-service/internal/dto"
	"github.com/VibeBuddies/vibecheck-service/internal/model"
	"github.com/VibeBuddies/vibecheck-service/internal/rabbitmq"
	"github.com/VibeBuddies/vibecheck-service/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// casRetries bounds the read-modify-write loops that run against the store's
// conditional-update primitive. After this many version conflicts the mutation
// surfaces as a Conflict for the caller to retry.
const casRetries = 3

type VibeCheck interface {
	Create(ctx context.Context, user *model.CachedUser, input dto.CreateVibeCheckRequest) (*model.VibeCheck, error)
	FindByID(ctx context.Context, id string) (*model.VibeCheck, error)
	FindAll(ctx context.Context) ([]*model.VibeCheck, error)
	FindByUserID(ctx context.Context, targetUserID uuid.UUID) ([]*model.VibeCheck, error)
	FindByUsername(ctx context.Context, targetUsername string) ([]*model.VibeCheck, error)
	Delete(ctx context.Context, userID uuid.UUID, id string) (*model.VibeCheck, error)
	DeleteAllByUserID(ctx context.Context, userID uuid.UUID) (int, error)
	ApplyReaction(ctx context.Context, id string, username string, kind model.ReactionKind) (*model.VibeCheck, error)
}

type Comment interface {
	Add(ctx context.Context, vibeCheckID string, user *model.CachedUser, body string) (*model.Comment, error)
	Remove(ctx context.Context, vibeCheckID string, commentID string, requesterID uuid.UUID) error
}

type Friendship interface {
	Request(ctx context.Context, requester *model.CachedUser, targetUsername string) (*model.Friendship, error)
	Accept(ctx context.Context, accepterID uuid.UUID, targetUsername string) (*model.Friendship, error)
	Remove(ctx context.Context, callerID uuid.UUID, targetUsername string) error
	ListByStatus(ctx context.Context, userID uuid.UUID, status string) ([]*model.Friendship, error)
	ListByUsername(ctx context.Context, username string, status string) ([]*model.Friendship, error)
	RemoveAllForUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type UserCache interface {
	CreateOrGet(ctx context.Context, id uuid.UUID, accessToken string) (*model.CachedUser, error)
	Create(ctx context.Context, user model.CachedUser) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
	FindByUsername(ctx context.Context, username string) (*model.CachedUser, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	VibeCheck
	Comment
	Friendship
	UserCache

	logger   *zap.Logger
	rabbitmq *rabbitmq.MQConn
}

func New(logger *zap.Logger, repo *repository.Repository, mq *rabbitmq.MQConn) *Service {
	userCache := newUserCacheService(logger, repo)
	return &Service{
		VibeCheck:  newVibeCheckService(logger, repo, userCache),
		Comment:    newCommentService(logger, repo, userCache),
		Friendship: newFriendshipService(logger, repo, userCache),
		UserCache:  userCache,
		logger:     logger,
		rabbitmq:   mq,
	}
}

func (s *Service) StartConsumeAll(ctx context.Context) {
	go s.consumeUserUpdates(ctx)
	go s.consumeUserDeletes(ctx)
}

func (s *Service) consumeUserUpdates(ctx context.Context) {
	queue := rabbitmq.USER_INFO_UPDATED_QUEUE
	msgs, err := s.rabbitmq.Consume(queue)
	if err != nil {
		s.logger.Sugar().Fatalf("failed to start consume updates from queue(%s): %s", queue, err.Error())
	}

	for msg := range msgs {
		var data map[string]interface{}
		if err := json.Unmarshal(msg.Body, &data); err != nil {
			s.logger.Sugar().Errorf("failed to unmarshal json in queue(%s): %s", queue, err.Error())
			msg.Nack(false, false)
			continue
		}

		userIDString, exists := data["user_id"].(string)
		if !exists {
			s.logger.Sugar().Errorf("'user_id' field is not provided")
			msg.Nack(false, false)
			continue
		}
		userID, err := uuid.Parse(userIDString)
		if err != nil {
			s.logger.Sugar().Errorf("provided an invalid user_id")
			msg.Nack(false, false)
			continue
		}

		delete(data, "user_id")

		if err := s.UserCache.Update(ctx, userID, data); err != nil {
			msg.Nack(false, true)
			continue
		}

		msg.Ack(false)
	}
}

// consumeUserDeletes cascades an account removal: the user's vibe checks and
// every friendship edge they participate in are batch-deleted before the
// cached user record is dropped.
func (s *Service) consumeUserDeletes(ctx context.Context) {
	queue := rabbitmq.USER_DELETED_QUEUE
	msgs, err := s.rabbitmq.Consume(queue)
	if err != nil {
		s.logger.Sugar().Fatalf("failed to start consume deletes from queue(%s): %s", queue, err.Error())
	}

	for msg := range msgs {
		var data dto.MQUserDeletedMsg
		if err := json.Unmarshal(msg.Body, &data); err != nil {
			s.logger.Sugar().Errorf("failed to unmarshal json in queue(%s): %s", queue, err.Error())
			msg.Nack(false, false)
			continue
		}

		if _, err := s.VibeCheck.DeleteAllByUserID(ctx, data.UserID); err != nil && !apperr.IsKind(err, apperr.NotFound) {
			msg.Nack(false, true)
			continue
		}
		if _, err := s.Friendship.RemoveAllForUser(ctx, data.UserID); err != nil && !apperr.IsKind(err, apperr.NotFound) {
			msg.Nack(false, true)
			continue
		}
		if err := s.UserCache.Delete(ctx, data.UserID); err != nil && !apperr.IsKind(err, apperr.NotFound) {
			msg.Nack(false, true)
			continue
		}

		msg.Ack(false)
	}
}
