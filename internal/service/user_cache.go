package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/VibeBuddies/vibecheck-service/internal/apperr"
	"github.com/VibeBuddies/vibecheck-service/internal/model"
	"github.com/VibeBuddies/vibecheck-service/internal/repository"
	"github.com/VibeBuddies/vibecheck-service/internal/repository/redisrepo"
	"github.com/VibeBuddies/vibecheck-service/internal/store"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type userCacheService struct {
	logger     *zap.Logger
	repo       *repository.Repository
	httpClient *http.Client
}

func newUserCacheService(logger *zap.Logger, repo *repository.Repository) UserCache {
	return &userCacheService{
		logger:     logger,
		repo:       repo,
		httpClient: &http.Client{},
	}
}

func (s *userCacheService) CreateOrGet(ctx context.Context, id uuid.UUID, accessToken string) (*model.CachedUser, error) {
	cachedUser, err := s.FindByID(ctx, id)
	if err == nil {
		return cachedUser, nil
	}
	if !apperr.IsKind(err, apperr.NotFound) {
		return nil, err
	}

	fetchedUser, err := s.fetchUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	if err := s.Create(ctx, *fetchedUser); err != nil && !apperr.IsKind(err, apperr.Conflict) {
		return nil, err
	}

	return fetchedUser, nil
}

func (s *userCacheService) fetchUser(ctx context.Context, accessToken string) (*model.CachedUser, error) {
	endpoint := "/users/@me"
	url := viper.GetString("user-service.api") + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create request to user-service: %s", err.Error())
		return nil, errInternal
	}

	req.Header.Add("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Sugar().Errorf("failed to send request to user-service: %s", err.Error())
		return nil, apperr.Wrap(apperr.Transient, "user service unavailable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Sugar().Errorf("failed to read response body from user-service: %s", err.Error())
		return nil, errInternal
	}

	if resp.StatusCode != http.StatusOK {
		var bodyJSON map[string]interface{}
		if err := json.Unmarshal(body, &bodyJSON); err != nil {
			s.logger.Sugar().Errorf("failed to decode error response from user-service: %s", err.Error())
		} else {
			s.logger.Sugar().Errorf("ERROR from user-service endpoint(%s), details: %s", endpoint, bodyJSON["details"])
		}
		return nil, apperr.New(apperr.Internal, "failed to fetch user")
	}

	var user model.CachedUser
	if err := json.Unmarshal(body, &user); err != nil {
		s.logger.Sugar().Errorf("failed to decode user response body from user-service: %s", err.Error())
		return nil, errInternal
	}

	return &user, nil
}

func (s *userCacheService) Create(ctx context.Context, cachedUser model.CachedUser) error {
	if _, err := s.repo.Store.PutNew(ctx, store.CollectionUsers, cachedUser.ID.String(), cachedUser); err != nil {
		if err == store.ErrConflict {
			return apperr.New(apperr.Conflict, "user already exists")
		}
		s.logger.Sugar().Errorf("failed to create cached user(%s): %s", cachedUser.ID.String(), err.Error())
		return errInternal
	}

	return nil
}

func (s *userCacheService) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	if s.repo.Redis != nil {
		cachedUser, err := redisrepo.Get[model.CachedUser](s.repo.Redis.Default, ctx, redisrepo.UserCacheKey(id.String()))
		if err == nil && cachedUser != nil {
			return cachedUser, nil
		}
		if err != nil && err != redis.Nil {
			s.logger.Sugar().Errorf("failed to get cached user(%s) from redis: %s", id.String(), err.Error())
		}
	}

	rec, err := s.repo.Store.GetByID(ctx, store.CollectionUsers, id.String())
	if err != nil {
		if err == store.ErrNotFound {
			return nil, apperr.New(apperr.NotFound, "user does not exist")
		}
		s.logger.Sugar().Errorf("failed to get cached user(%s): %s", id.String(), err.Error())
		return nil, errInternal
	}

	user, err := store.Decode[model.CachedUser](rec)
	if err != nil {
		s.logger.Sugar().Errorf("failed to decode cached user(%s): %s", id.String(), err.Error())
		return nil, errInternal
	}

	s.cache(ctx, user)
	return user, nil
}

func (s *userCacheService) FindByUsername(ctx context.Context, username string) (*model.CachedUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.New(apperr.InvalidArgument, "username of type string is required")
	}

	if s.repo.Redis != nil {
		cachedUser, err := redisrepo.Get[model.CachedUser](s.repo.Redis.Default, ctx, redisrepo.UsernameKey(username))
		if err == nil && cachedUser != nil {
			return cachedUser, nil
		}
		if err != nil && err != redis.Nil {
			s.logger.Sugar().Errorf("failed to get cached user(%s) from redis: %s", username, err.Error())
		}
	}

	recs, err := s.repo.Store.QueryByIndex(ctx, store.CollectionUsers, "username", username)
	if err != nil {
		s.logger.Sugar().Errorf("failed to query user(%s): %s", username, err.Error())
		return nil, errInternal
	}
	if len(recs) == 0 {
		return nil, apperr.New(apperr.NotFound, fmt.Sprintf("user %s not found", username))
	}

	user, err := store.Decode[model.CachedUser](&recs[0])
	if err != nil {
		s.logger.Sugar().Errorf("failed to decode user(%s): %s", username, err.Error())
		return nil, errInternal
	}

	s.cache(ctx, user)
	return user, nil
}

func (s *userCacheService) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	for attempt := 0; attempt < casRetries; attempt++ {
		rec, err := s.repo.Store.GetByID(ctx, store.CollectionUsers, id.String())
		if err != nil {
			if err == store.ErrNotFound {
				return apperr.New(apperr.NotFound, "user does not exist")
			}
			s.logger.Sugar().Errorf("failed to get cached user(%s): %s", id.String(), err.Error())
			return errInternal
		}

		var doc map[string]interface{}
		if err := json.Unmarshal(rec.Data, &doc); err != nil {
			s.logger.Sugar().Errorf("failed to decode cached user(%s): %s", id.String(), err.Error())
			return errInternal
		}

		oldUsername, _ := doc["username"].(string)
		for field, value := range updates {
			doc[field] = value
		}

		_, err = s.repo.Store.ConditionalUpdate(ctx, store.CollectionUsers, id.String(), doc, rec.Version)
		if err == store.ErrVersionConflict {
			continue
		}
		if err != nil {
			s.logger.Sugar().Errorf("failed to update cached user(%s): %s", id.String(), err.Error())
			return errInternal
		}

		s.invalidate(ctx, id, oldUsername)
		if newUsername, ok := doc["username"].(string); ok && newUsername != oldUsername {
			s.invalidate(ctx, id, newUsername)
		}
		return nil
	}

	return apperr.New(apperr.Conflict, "user update didn't go through, try again")
}

func (s *userCacheService) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := s.repo.Store.Delete(ctx, store.CollectionUsers, id.String())
	if err != nil {
		if err == store.ErrNotFound {
			return apperr.New(apperr.NotFound, "user does not exist")
		}
		s.logger.Sugar().Errorf("failed to delete cached user(%s): %s", id.String(), err.Error())
		return errInternal
	}

	user, err := store.Decode[model.CachedUser](rec)
	if err == nil {
		s.invalidate(ctx, id, user.Username)
	}
	return nil
}

func (s *userCacheService) cache(ctx context.Context, user *model.CachedUser) {
	if s.repo.Redis == nil {
		return
	}
	if err := s.repo.Redis.SetJSON(ctx, redisrepo.UserCacheKey(user.ID.String()), user, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set user(%s) in redis: %s", user.ID.String(), err.Error())
	}
	if err := s.repo.Redis.SetJSON(ctx, redisrepo.UsernameKey(user.Username), user, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set user(%s) in redis: %s", user.Username, err.Error())
	}
}

func (s *userCacheService) invalidate(ctx context.Context, id uuid.UUID, username string) {
	if s.repo.Redis == nil {
		return
	}
	keys := []string{redisrepo.UserCacheKey(id.String())}
	if username != "" {
		keys = append(keys, redisrepo.UsernameKey(username))
	}
	if err := s.repo.Redis.Del(ctx, keys...).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete cached user(%s) from redis: %s", id.String(), err.Error())
	}
}
