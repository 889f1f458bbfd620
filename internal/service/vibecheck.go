package service

import (
	"context"
	"strings"
	"time"

	"github.com/VibeBuddies/vibecheck-service/internal/apperr"
	"github.com/VibeBuddies/vibecheck-service/internal/dto"
	"github.com/VibeBuddies/vibecheck-service/internal/model"
	"github.com/VibeBuddies/vibecheck-service/internal/repository"
	"github.com/VibeBuddies/vibecheck-service/internal/repository/redisrepo"
	"github.com/VibeBuddies/vibecheck-service/internal/store"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type vibeCheckService struct {
	logger *zap.Logger
	repo   *repository.Repository
	users  UserCache
}

func newVibeCheckService(logger *zap.Logger, repo *repository.Repository, users UserCache) VibeCheck {
	return &vibeCheckService{
		logger: logger,
		repo:   repo,
		users:  users,
	}
}

func (s *vibeCheckService) Create(ctx context.Context, user *model.CachedUser, input dto.CreateVibeCheckRequest) (*model.VibeCheck, error) {
	if err := firstViolation([]rule{
		{ok: func() bool { return user != nil && user.ID != uuid.Nil }, message: "no user_id was passed, might have to refresh session"},
		{ok: func() bool { return strings.TrimSpace(input.Review) != "" }, message: "review can't be empty"},
		{ok: func() bool { return input.Rating >= 1 && input.Rating <= 5 }, message: "rating has to be 1-5"},
		{ok: func() bool { return input.Album != nil && input.Album.ID != "" }, message: "album_id can't be missing"},
	}); err != nil {
		return nil, err
	}

	vibeCheck := model.VibeCheck{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		Username:   user.Username,
		Album:      *input.Album,
		Review:     input.Review,
		Rating:     input.Rating,
		LikedBy:    []string{},
		DislikedBy: []string{},
		Comments:   []model.Comment{},
		Timestamp:  time.Now(),
	}

	if _, err := s.repo.Store.PutNew(ctx, store.CollectionVibeChecks, vibeCheck.ID, vibeCheck); err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) vibe check: %s", user.ID.String(), err.Error())
		return nil, errInternal
	}

	// Read back the stored document, as the original flow does: the caller gets
	// exactly what landed, or an error if the write did not stick.
	return s.FindByID(ctx, vibeCheck.ID)
}

func (s *vibeCheckService) FindByID(ctx context.Context, id string) (*model.VibeCheck, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.New(apperr.InvalidArgument, "vibe_check_id can't be empty")
	}

	if s.repo.Redis != nil {
		cached, err := redisrepo.Get[model.VibeCheck](s.repo.Redis.Default, ctx, redisrepo.VibeCheckKey(id))
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil && err != redis.Nil {
			s.logger.Sugar().Errorf("failed to get vibe check(%s) from redis: %s", id, err.Error())
		}
	}

	vibeCheck, _, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.repo.Redis != nil {
		if err := s.repo.Redis.SetJSON(ctx, redisrepo.VibeCheckKey(id), vibeCheck, time.Minute*10); err != nil {
			s.logger.Sugar().Errorf("failed to set vibe check(%s) in redis: %s", id, err.Error())
		}
	}

	return vibeCheck, nil
}

func (s *vibeCheckService) FindAll(ctx context.Context) ([]*model.VibeCheck, error) {
	recs, err := s.repo.Store.List(ctx, store.CollectionVibeChecks)
	if err != nil {
		s.logger.Sugar().Errorf("failed to list vibe checks: %s", err.Error())
		return nil, errInternal
	}
	if len(recs) == 0 {
		return nil, apperr.New(apperr.NotFound, "vibe checks couldn't be retrieved")
	}

	vibeChecks, err := store.DecodeAll[model.VibeCheck](recs)
	if err != nil {
		s.logger.Sugar().Errorf("failed to decode vibe checks: %s", err.Error())
		return nil, errInternal
	}

	return vibeChecks, nil
}

func (s *vibeCheckService) FindByUserID(ctx context.Context, targetUserID uuid.UUID) ([]*model.VibeCheck, error) {
	if _, err := s.users.FindByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	recs, err := s.repo.Store.QueryByIndex(ctx, store.CollectionVibeChecks, "user_id", targetUserID.String())
	if err != nil {
		s.logger.Sugar().Errorf("failed to query user(%s) vibe checks: %s", targetUserID.String(), err.Error())
		return nil, errInternal
	}
	if len(recs) == 0 {
		return nil, apperr.New(apperr.NotFound, "vibe checks for target user couldn't be retrieved")
	}

	vibeChecks, err := store.DecodeAll[model.VibeCheck](recs)
	if err != nil {
		s.logger.Sugar().Errorf("failed to decode user(%s) vibe checks: %s", targetUserID.String(), err.Error())
		return nil, errInternal
	}

	return vibeChecks, nil
}

func (s *vibeCheckService) FindByUsername(ctx context.Context, targetUsername string) ([]*model.VibeCheck, error) {
	target, err := s.users.FindByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	return s.FindByUserID(ctx, target.ID)
}

func (s *vibeCheckService) Delete(ctx context.Context, userID uuid.UUID, id string) (*model.VibeCheck, error) {
	if err := firstViolation([]rule{
		{ok: func() bool { return userID != uuid.Nil }, message: "no user_id was passed, might have to refresh session"},
		{ok: func() bool { return strings.TrimSpace(id) != "" }, message: "vibe_check_id can't be empty"},
	}); err != nil {
		return nil, err
	}

	vibeCheck, _, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if vibeCheck.UserID != userID {
		return nil, apperr.New(apperr.PermissionDenied, "only the author can delete a vibe check")
	}

	if _, err := s.repo.Store.Delete(ctx, store.CollectionVibeChecks, id); err != nil {
		if err == store.ErrNotFound {
			return nil, apperr.New(apperr.NotFound, "vibe check not found")
		}
		s.logger.Sugar().Errorf("failed to delete vibe check(%s): %s", id, err.Error())
		return nil, errInternal
	}

	s.invalidate(ctx, id)
	return vibeCheck, nil
}

func (s *vibeCheckService) DeleteAllByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	recs, err := s.repo.Store.QueryByIndex(ctx, store.CollectionVibeChecks, "user_id", userID.String())
	if err != nil {
		s.logger.Sugar().Errorf("failed to query user(%s) vibe checks: %s", userID.String(), err.Error())
		return 0, errInternal
	}
	if len(recs) == 0 {
		return 0, apperr.New(apperr.NotFound, "no vibe checks found for user")
	}

	keys := make([]string, 0, len(recs))
	for _, rec := range recs {
		keys = append(keys, rec.Key)
	}

	outcome, err := s.repo.Store.BatchDelete(ctx, store.CollectionVibeChecks, keys)
	if err != nil {
		s.logger.Sugar().Errorf("failed to batch delete user(%s) vibe checks: %s", userID.String(), err.Error())
		return 0, errInternal
	}

	deleted := 0
	for key, keyErr := range outcome {
		if keyErr != nil && keyErr != store.ErrNotFound {
			s.logger.Sugar().Errorf("failed to delete vibe check(%s): %s", key, keyErr.Error())
			continue
		}
		s.invalidate(ctx, key)
		deleted++
	}

	return deleted, nil
}

// ApplyReaction toggles username's like/dislike on a vibe check. Membership
// and counters live in one document, so the whole transition lands in a single
// conditional update; a version conflict means another reaction interleaved
// and the toggle is recomputed from fresh state.
func (s *vibeCheckService) ApplyReaction(ctx context.Context, id string, username string, kind model.ReactionKind) (*model.VibeCheck, error) {
	if err := firstViolation([]rule{
		{ok: func() bool { return strings.TrimSpace(username) != "" }, message: "no username was passed, might have to refresh session"},
		{ok: func() bool { return strings.TrimSpace(id) != "" }, message: "vibe_check_id can't be empty"},
		{ok: func() bool { return kind.Valid() }, message: "type must be like or dislike"},
	}); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		vibeCheck, version, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}

		applyToggle(vibeCheck, username, kind)

		_, err = s.repo.Store.ConditionalUpdate(ctx, store.CollectionVibeChecks, id, vibeCheck, version)
		if err == store.ErrVersionConflict {
			continue
		}
		if err == store.ErrNotFound {
			return nil, apperr.New(apperr.NotFound, "vibe check doesn't exist")
		}
		if err != nil {
			s.logger.Sugar().Errorf("failed to update vibe check(%s) reactions: %s", id, err.Error())
			return nil, errInternal
		}

		s.invalidate(ctx, id)
		return vibeCheck, nil
	}

	return nil, apperr.New(apperr.Conflict, "reaction didn't go through, try again")
}

func applyToggle(vibeCheck *model.VibeCheck, username string, kind model.ReactionKind) {
	liked := vibeCheck.LikedByUser(username)
	disliked := vibeCheck.DislikedByUser(username)

	switch kind {
	case model.ReactionLike:
		if liked {
			vibeCheck.LikedBy = removeName(vibeCheck.LikedBy, username)
			vibeCheck.Likes--
			return
		}
		vibeCheck.LikedBy = append(vibeCheck.LikedBy, username)
		vibeCheck.Likes++
		if disliked {
			vibeCheck.DislikedBy = removeName(vibeCheck.DislikedBy, username)
			vibeCheck.Dislikes--
		}
	case model.ReactionDislike:
		if disliked {
			vibeCheck.DislikedBy = removeName(vibeCheck.DislikedBy, username)
			vibeCheck.Dislikes--
			return
		}
		vibeCheck.DislikedBy = append(vibeCheck.DislikedBy, username)
		vibeCheck.Dislikes++
		if liked {
			vibeCheck.LikedBy = removeName(vibeCheck.LikedBy, username)
			vibeCheck.Likes--
		}
	}
}

func removeName(names []string, username string) []string {
	filtered := make([]string, 0, len(names))
	for _, name := range names {
		if name != username {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

func (s *vibeCheckService) load(ctx context.Context, id string) (*model.VibeCheck, int64, error) {
	return loadVibeCheck(ctx, s.logger, s.repo, id)
}

func (s *vibeCheckService) invalidate(ctx context.Context, id string) {
	invalidateVibeCheck(ctx, s.logger, s.repo, id)
}

// loadVibeCheck reads the document straight from the store, bypassing the
// cache, and returns the version token for conditional writes.
func loadVibeCheck(ctx context.Context, logger *zap.Logger, repo *repository.Repository, id string) (*model.VibeCheck, int64, error) {
	rec, err := repo.Store.GetByID(ctx, store.CollectionVibeChecks, id)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, 0, apperr.New(apperr.NotFound, "vibe check doesn't exist")
		}
		logger.Sugar().Errorf("failed to get vibe check(%s): %s", id, err.Error())
		return nil, 0, errInternal
	}

	vibeCheck, err := store.Decode[model.VibeCheck](rec)
	if err != nil {
		logger.Sugar().Errorf("failed to decode vibe check(%s): %s", id, err.Error())
		return nil, 0, errInternal
	}

	return vibeCheck, rec.Version, nil
}

func invalidateVibeCheck(ctx context.Context, logger *zap.Logger, repo *repository.Repository, id string) {
	if repo.Redis == nil {
		return
	}
	if err := repo.Redis.Del(ctx, redisrepo.VibeCheckKey(id)).Err(); err != nil {
		logger.Sugar().Errorf("failed to delete vibe check(%s) from redis: %s", id, err.Error())
	}
}
