package service

import (
	"context"
	"strings"
	"time"

	"github.com/VibeBuddies/vibecheck-service/internal/apperr"
	"github.com/VibeBuddies/vibecheck-service/internal/model"
	"github.com/VibeBuddies/vibecheck-service/internal/repository"
	"github.com/VibeBuddies/vibecheck-service/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type commentService struct {
	logger *zap.Logger
	repo   *repository.Repository
	users  UserCache
}

func newCommentService(logger *zap.Logger, repo *repository.Repository, users UserCache) Comment {
	return &commentService{
		logger: logger,
		repo:   repo,
		users:  users,
	}
}

func (s *commentService) Add(ctx context.Context, vibeCheckID string, user *model.CachedUser, body string) (*model.Comment, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, apperr.New(apperr.InvalidArgument, "no user_id was passed, might have to refresh session")
	}
	if strings.TrimSpace(body) == "" {
		return nil, apperr.New(apperr.InvalidArgument, "comment_body can't be empty")
	}

	if _, err := s.users.FindByID(ctx, user.ID); err != nil {
		return nil, err
	}

	comment := model.Comment{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Username:  user.Username,
		Body:      body,
		Timestamp: time.Now(),
	}

	// The comment sequence lives inside the vibe check document, so the append
	// rides the same version-guarded update as reactions: concurrent appends
	// conflict on the version instead of overwriting each other.
	for attempt := 0; attempt < casRetries; attempt++ {
		vibeCheck, version, err := loadVibeCheck(ctx, s.logger, s.repo, vibeCheckID)
		if err != nil {
			return nil, err
		}

		vibeCheck.Comments = append(vibeCheck.Comments, comment)

		_, err = s.repo.Store.ConditionalUpdate(ctx, store.CollectionVibeChecks, vibeCheckID, vibeCheck, version)
		if err == store.ErrVersionConflict {
			continue
		}
		if err == store.ErrNotFound {
			return nil, apperr.New(apperr.NotFound, "vibe check doesn't exist")
		}
		if err != nil {
			s.logger.Sugar().Errorf("failed to add comment to vibe check(%s): %s", vibeCheckID, err.Error())
			return nil, errInternal
		}

		invalidateVibeCheck(ctx, s.logger, s.repo, vibeCheckID)
		return &comment, nil
	}

	return nil, apperr.New(apperr.Conflict, "comment didn't go through, try again")
}

func (s *commentService) Remove(ctx context.Context, vibeCheckID string, commentID string, requesterID uuid.UUID) error {
	if requesterID == uuid.Nil {
		return apperr.New(apperr.InvalidArgument, "no user_id was passed, might have to refresh session")
	}

	if _, err := s.users.FindByID(ctx, requesterID); err != nil {
		return err
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		vibeCheck, version, err := loadVibeCheck(ctx, s.logger, s.repo, vibeCheckID)
		if err != nil {
			return err
		}

		index := -1
		for i, comment := range vibeCheck.Comments {
			if comment.ID == commentID {
				index = i
				break
			}
		}
		if index == -1 {
			return apperr.New(apperr.NotFound, "comment doesn't exist")
		}
		if vibeCheck.Comments[index].UserID != requesterID {
			return apperr.New(apperr.PermissionDenied, "only the comment's author can delete it")
		}

		vibeCheck.Comments = append(vibeCheck.Comments[:index], vibeCheck.Comments[index+1:]...)

		_, err = s.repo.Store.ConditionalUpdate(ctx, store.CollectionVibeChecks, vibeCheckID, vibeCheck, version)
		if err == store.ErrVersionConflict {
			continue
		}
		if err == store.ErrNotFound {
			return apperr.New(apperr.NotFound, "vibe check doesn't exist")
		}
		if err != nil {
			s.logger.Sugar().Errorf("failed to delete comment(%s) from vibe check(%s): %s", commentID, vibeCheckID, err.Error())
			return errInternal
		}

		invalidateVibeCheck(ctx, s.logger, s.repo, vibeCheckID)
		return nil
	}

	return apperr.New(apperr.Conflict, "comment deletion didn't go through, try again")
}
