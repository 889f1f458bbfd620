package service

import (
	"context"
	"testing"

	"github.com/VibeBuddies/vibecheck-service/internal/dto"
	"github.com/VibeBuddies/vibecheck-service/internal/model"
	"github.com/VibeBuddies/vibecheck-service/internal/repository"
	"github.com/VibeBuddies/vibecheck-service/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServices(contentStore store.ContentStore) *Service {
	repo := repository.New(contentStore, nil)
	return New(zap.NewNop(), repo, nil)
}

func seedUser(t *testing.T, s *Service, username string) *model.CachedUser {
	t.Helper()
	user := model.CachedUser{ID: uuid.New(), Username: username}
	require.NoError(t, s.UserCache.Create(context.Background(), user))
	return &user
}

func seedVibeCheck(t *testing.T, s *Service, user *model.CachedUser) *model.VibeCheck {
	t.Helper()
	vibeCheck, err := s.VibeCheck.Create(context.Background(), user, dto.CreateVibeCheckRequest{
		Album:  &model.Album{ID: "album-1", Name: "OK Computer", Artist: "Radiohead"},
		Review: "nice album",
		Rating: 5,
	})
	require.NoError(t, err)
	return vibeCheck
}

// flakyStore fails the next n conditional updates with a version conflict to
// exercise the compare-and-swap retry loops.
type flakyStore struct {
	store.ContentStore
	conflicts int
}

func (f *flakyStore) ConditionalUpdate(ctx context.Context, collection, key string, doc interface{}, expectedVersion int64) (*store.Record, error) {
	if f.conflicts > 0 {
		f.conflicts--
		return nil, store.ErrVersionConflict
	}
	return f.ContentStore.ConditionalUpdate(ctx, collection, key, doc, expectedVersion)
}
