package service

import (
	"context"
	"testing"

	"github.com/VibeBuddies/vibecheck-service/internal/apperr"
	"github.com/VibeBuddies/vibecheck-service/internal/dto"
	"github.com/VibeBuddies/vibecheck-service/internal/model"
	"github.com/VibeBuddies/vibecheck-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_ValidationOrder(t *testing.T) {
	s := newTestServices(store.NewMemory())
	user := seedUser(t, s, "alice")
	ctx := context.Background()

	// Identity is checked before anything else.
	_, err := s.VibeCheck.Create(ctx, nil, dto.CreateVibeCheckRequest{})
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "user_id")

	// Review is checked before rating even when both are wrong.
	_, err = s.VibeCheck.Create(ctx, user, dto.CreateVibeCheckRequest{Review: "   ", Rating: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "review")

	_, err = s.VibeCheck.Create(ctx, user, dto.CreateVibeCheckRequest{Review: "great", Rating: 6})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating")

	_, err = s.VibeCheck.Create(ctx, user, dto.CreateVibeCheckRequest{Review: "great", Rating: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "album_id")
}

func TestCreate_ReturnsStoredVibeCheck(t *testing.T) {
	s := newTestServices(store.NewMemory())
	user := seedUser(t, s, "alice")

	vibeCheck := seedVibeCheck(t, s, user)

	assert.NotEmpty(t, vibeCheck.ID)
	assert.Equal(t, user.ID, vibeCheck.UserID)
	assert.Equal(t, "alice", vibeCheck.Username)
	assert.Zero(t, vibeCheck.Likes)
	assert.Zero(t, vibeCheck.Dislikes)
	assert.Empty(t, vibeCheck.LikedBy)
	assert.Empty(t, vibeCheck.Comments)
}

func TestApplyReaction_LikeThenUnlike(t *testing.T) {
	s := newTestServices(store.NewMemory())
	user := seedUser(t, s, "alice")
	vibeCheck := seedVibeCheck(t, s, user)
	ctx := context.Background()

	updated, err := s.VibeCheck.ApplyReaction(ctx, vibeCheck.ID, "alice", model.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, updated.LikedBy)
	assert.Equal(t, int64(1), updated.Likes)

	// A second like from the same user is a toggle off, not a no-op.
	updated, err = s.VibeCheck.ApplyReaction(ctx, vibeCheck.ID, "alice", model.ReactionLike)
	require.NoError(t, err)
	assert.Empty(t, updated.LikedBy)
	assert.Zero(t, updated.Likes)
}

func TestApplyReaction_SwitchIsMutuallyExclusive(t *testing.T) {
	s := newTestServices(store.NewMemory())
	user := seedUser(t, s, "alice")
	vibeCheck := seedVibeCheck(t, s, user)
	ctx := context.Background()

	_, err := s.VibeCheck.ApplyReaction(ctx, vibeCheck.ID, "alice", model.ReactionLike)
	require.NoError(t, err)

	updated, err := s.VibeCheck.ApplyReaction(ctx, vibeCheck.ID, "alice", model.ReactionDislike)
	require.NoError(t, err)

	// Switching moves the user across, it never accumulates.
	assert.Empty(t, updated.LikedBy)
	assert.Equal(t, []string{"alice"}, updated.DislikedBy)
	assert.Zero(t, updated.Likes)
	assert.Equal(t, int64(1), updated.Dislikes)
}

func TestApplyReaction_CountersMatchSets(t *testing.T) {
	s := newTestServices(store.NewMemory())
	alice := seedUser(t, s, "alice")
	seedUser(t, s, "bob")
	seedUser(t, s, "carol")
	vibeCheck := seedVibeCheck(t, s, alice)
	ctx := context.Background()

	sequence := []struct {
		username string
		kind     model.ReactionKind
	}{
		{"alice", model.ReactionLike},
		{"bob", model.ReactionDislike},
		{"carol", model.ReactionLike},
		{"alice", model.ReactionDislike},
		{"bob", model.ReactionDislike},
		{"carol", model.ReactionLike},
		{"alice", model.ReactionDislike},
	}

	for _, step := range sequence {
		updated, err := s.VibeCheck.ApplyReaction(ctx, vibeCheck.ID, step.username, step.kind)
		require.NoError(t, err)

		assert.Equal(t, int64(len(updated.LikedBy)), updated.Likes)
		assert.Equal(t, int64(len(updated.DislikedBy)), updated.Dislikes)
		for _, name := range updated.LikedBy {
			assert.NotContains(t, updated.DislikedBy, name)
		}
	}
}

func TestApplyReaction_InvalidInput(t *testing.T) {
	s := newTestServices(store.NewMemory())
	user := seedUser(t, s, "alice")
	vibeCheck := seedVibeCheck(t, s, user)
	ctx := context.Background()

	_, err := s.VibeCheck.ApplyReaction(ctx, vibeCheck.ID, "alice", model.ReactionKind("meh"))
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))

	_, err = s.VibeCheck.ApplyReaction(ctx, vibeCheck.ID, "", model.ReactionLike)
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))

	_, err = s.VibeCheck.ApplyReaction(ctx, "missing-id", "alice", model.ReactionLike)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestApplyReaction_RetriesOnVersionConflict(t *testing.T) {
	flaky := &flakyStore{ContentStore: store.NewMemory(), conflicts: 2}
	s := newTestServices(flaky)
	user := seedUser(t, s, "alice")
	vibeCheck := seedVibeCheck(t, s, user)

	updated, err := s.VibeCheck.ApplyReaction(context.Background(), vibeCheck.ID, "alice", model.ReactionLike)

	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Likes)
}

func TestApplyReaction_GivesUpAfterRetries(t *testing.T) {
	flaky := &flakyStore{ContentStore: store.NewMemory(), conflicts: casRetries}
	s := newTestServices(flaky)
	user := seedUser(t, s, "alice")
	vibeCheck := seedVibeCheck(t, s, user)

	_, err := s.VibeCheck.ApplyReaction(context.Background(), vibeCheck.ID, "alice", model.ReactionLike)

	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestDelete_AuthorOnly(t *testing.T) {
	s := newTestServices(store.NewMemory())
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	vibeCheck := seedVibeCheck(t, s, alice)
	ctx := context.Background()

	_, err := s.VibeCheck.Delete(ctx, bob.ID, vibeCheck.ID)
	assert.Equal(t, apperr.PermissionDenied, apperr.KindOf(err))

	deleted, err := s.VibeCheck.Delete(ctx, alice.ID, vibeCheck.ID)
	require.NoError(t, err)
	assert.Equal(t, vibeCheck.ID, deleted.ID)

	_, err = s.VibeCheck.FindByID(ctx, vibeCheck.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestDeleteAllByUserID(t *testing.T) {
	s := newTestServices(store.NewMemory())
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	seedVibeCheck(t, s, alice)
	seedVibeCheck(t, s, alice)
	kept := seedVibeCheck(t, s, bob)
	ctx := context.Background()

	deleted, err := s.VibeCheck.DeleteAllByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	// Bob's vibe check survives the cascade.
	_, err = s.VibeCheck.FindByID(ctx, kept.ID)
	assert.NoError(t, err)

	_, err = s.VibeCheck.DeleteAllByUserID(ctx, alice.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestFindByUsername(t *testing.T) {
	s := newTestServices(store.NewMemory())
	alice := seedUser(t, s, "alice")
	seedVibeCheck(t, s, alice)
	ctx := context.Background()

	vibeChecks, err := s.VibeCheck.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, vibeChecks, 1)

	_, err = s.VibeCheck.FindByUsername(ctx, "nobody")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
