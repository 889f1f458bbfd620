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

type friendshipService struct {
	logger *zap.Logger
	repo   *repository.Repository
	users  UserCache
}

func newFriendshipService(logger *zap.Logger, repo *repository.Repository, users UserCache) Friendship {
	return &friendshipService{
		logger: logger,
		repo:   repo,
		users:  users,
	}
}

// Request creates the pending edge for the pair. The store's create-if-absent
// write is the duplicate guard: whichever of two concurrent requests lands
// second gets a conflict, regardless of direction.
func (s *friendshipService) Request(ctx context.Context, requester *model.CachedUser, targetUsername string) (*model.Friendship, error) {
	if err := firstViolation([]rule{
		{ok: func() bool { return requester != nil && requester.ID != uuid.Nil }, message: "no user_id was passed, might have to refresh session"},
		{ok: func() bool { return strings.TrimSpace(targetUsername) != "" }, message: "username of type string is required"},
	}); err != nil {
		return nil, err
	}

	target, err := s.users.FindByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}
	if target.ID == requester.ID {
		return nil, apperr.New(apperr.InvalidArgument, "can't send a friend request to yourself")
	}

	now := time.Now()
	friendship := model.Friendship{
		UserID1:     requester.ID,
		Username1:   requester.Username,
		UserID2:     target.ID,
		Username2:   target.Username,
		RequesterID: requester.ID,
		Status:      model.FriendshipPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if friendship.UserID1.String() > friendship.UserID2.String() {
		friendship.UserID1, friendship.UserID2 = friendship.UserID2, friendship.UserID1
		friendship.Username1, friendship.Username2 = friendship.Username2, friendship.Username1
	}

	if _, err := s.repo.Store.PutNew(ctx, store.CollectionFriendships, friendship.Key(), friendship); err != nil {
		if err == store.ErrConflict {
			return nil, apperr.New(apperr.Conflict, "friendship already exists between users")
		}
		s.logger.Sugar().Errorf("failed to create friendship(%s): %s", friendship.Key(), err.Error())
		return nil, errInternal
	}

	return &friendship, nil
}

func (s *friendshipService) Accept(ctx context.Context, accepterID uuid.UUID, targetUsername string) (*model.Friendship, error) {
	if err := firstViolation([]rule{
		{ok: func() bool { return accepterID != uuid.Nil }, message: "no user_id was passed, might have to refresh session"},
		{ok: func() bool { return strings.TrimSpace(targetUsername) != "" }, message: "username of type string is required"},
	}); err != nil {
		return nil, err
	}

	target, err := s.users.FindByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	key := model.FriendshipKey(accepterID, target.ID)
	for attempt := 0; attempt < casRetries; attempt++ {
		friendship, version, err := s.load(ctx, key)
		if err != nil {
			return nil, err
		}

		if friendship.Status == model.FriendshipAccepted {
			return nil, apperr.New(apperr.Conflict, "friend request already accepted")
		}
		if friendship.RequesterID == accepterID {
			return nil, apperr.New(apperr.PermissionDenied, "can't accept your own friend request")
		}

		friendship.Status = model.FriendshipAccepted
		friendship.UpdatedAt = time.Now()

		_, err = s.repo.Store.ConditionalUpdate(ctx, store.CollectionFriendships, key, friendship, version)
		if err == store.ErrVersionConflict {
			continue
		}
		if err == store.ErrNotFound {
			return nil, apperr.New(apperr.NotFound, "no friendship exists between users")
		}
		if err != nil {
			s.logger.Sugar().Errorf("failed to accept friendship(%s): %s", key, err.Error())
			return nil, errInternal
		}

		return friendship, nil
	}

	return nil, apperr.New(apperr.Conflict, "friend request acceptance didn't go through, try again")
}

func (s *friendshipService) Remove(ctx context.Context, callerID uuid.UUID, targetUsername string) error {
	if err := firstViolation([]rule{
		{ok: func() bool { return callerID != uuid.Nil }, message: "no user_id was passed, might have to refresh session"},
		{ok: func() bool { return strings.TrimSpace(targetUsername) != "" }, message: "username of type string is required"},
	}); err != nil {
		return err
	}

	target, err := s.users.FindByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}

	key := model.FriendshipKey(callerID, target.ID)
	if _, err := s.repo.Store.Delete(ctx, store.CollectionFriendships, key); err != nil {
		if err == store.ErrNotFound {
			return apperr.New(apperr.NotFound, "no friendship exists between users")
		}
		s.logger.Sugar().Errorf("failed to delete friendship(%s): %s", key, err.Error())
		return errInternal
	}

	return nil
}

func (s *friendshipService) ListByStatus(ctx context.Context, userID uuid.UUID, status string) ([]*model.Friendship, error) {
	if err := firstViolation([]rule{
		{ok: func() bool { return userID != uuid.Nil }, message: "no user_id was passed, might have to refresh session"},
		{ok: func() bool { return model.ValidFriendshipStatus(strings.TrimSpace(status)) }, message: "query parameter status can only be accepted or pending"},
	}); err != nil {
		return nil, err
	}
	status = strings.TrimSpace(status)

	edges, err := s.edgesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var friendships []*model.Friendship
	for _, edge := range edges {
		if edge.Status == status {
			friendships = append(friendships, edge)
		}
	}

	return friendships, nil
}

func (s *friendshipService) ListByUsername(ctx context.Context, username string, status string) ([]*model.Friendship, error) {
	if status == "" {
		status = model.FriendshipAccepted
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return s.ListByStatus(ctx, user.ID, status)
}

func (s *friendshipService) RemoveAllForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	edges, err := s.edgesForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(edges) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(edges))
	for _, edge := range edges {
		keys = append(keys, edge.Key())
	}

	outcome, err := s.repo.Store.BatchDelete(ctx, store.CollectionFriendships, keys)
	if err != nil {
		s.logger.Sugar().Errorf("failed to batch delete user(%s) friendships: %s", userID.String(), err.Error())
		return 0, errInternal
	}

	deleted := 0
	for key, keyErr := range outcome {
		if keyErr != nil && keyErr != store.ErrNotFound {
			s.logger.Sugar().Errorf("failed to delete friendship(%s): %s", key, keyErr.Error())
			continue
		}
		deleted++
	}

	return deleted, nil
}

// edgesForUser queries both sides of the canonical pair, since the user may be
// stored as either member.
func (s *friendshipService) edgesForUser(ctx context.Context, userID uuid.UUID) ([]*model.Friendship, error) {
	var edges []*model.Friendship
	for _, indexKey := range []string{"user_id_1", "user_id_2"} {
		recs, err := s.repo.Store.QueryByIndex(ctx, store.CollectionFriendships, indexKey, userID.String())
		if err != nil {
			s.logger.Sugar().Errorf("failed to query user(%s) friendships: %s", userID.String(), err.Error())
			return nil, errInternal
		}

		decoded, err := store.DecodeAll[model.Friendship](recs)
		if err != nil {
			s.logger.Sugar().Errorf("failed to decode user(%s) friendships: %s", userID.String(), err.Error())
			return nil, errInternal
		}
		edges = append(edges, decoded...)
	}

	return edges, nil
}

func (s *friendshipService) load(ctx context.Context, key string) (*model.Friendship, int64, error) {
	rec, err := s.repo.Store.GetByID(ctx, store.CollectionFriendships, key)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, 0, apperr.New(apperr.NotFound, "no friendship exists between users")
		}
		s.logger.Sugar().Errorf("failed to get friendship(%s): %s", key, err.Error())
		return nil, 0, errInternal
	}

	friendship, err := store.Decode[model.Friendship](rec)
	if err != nil {
		s.logger.Sugar().Errorf("failed to decode friendship(%s): %s", key, err.Error())
		return nil, 0, errInternal
	}

	return friendship, rec.Version, nil
}
