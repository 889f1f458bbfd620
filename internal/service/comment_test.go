package service

import (
	"context"
	"testing"

	"github.com/VibeBuddies/vibecheck-service/internal/apperr"
	"github.com/VibeBuddies/vibecheck-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentAdd(t *testing.T) {
	s := newTestServices(store.NewMemory())
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	vibeCheck := seedVibeCheck(t, s, alice)
	ctx := context.Background()

	comment, err := s.Comment.Add(ctx, vibeCheck.ID, bob, "banger record")
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, bob.ID, comment.UserID)
	assert.Equal(t, "bob", comment.Username)
	assert.Equal(t, "banger record", comment.Body)

	updated, err := s.VibeCheck.FindByID(ctx, vibeCheck.ID)
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, comment.ID, updated.Comments[0].ID)
}

func TestCommentAdd_InvalidInput(t *testing.T) {
	s := newTestServices(store.NewMemory())
	alice := seedUser(t, s, "alice")
	vibeCheck := seedVibeCheck(t, s, alice)
	ctx := context.Background()

	_, err := s.Comment.Add(ctx, vibeCheck.ID, alice, "   ")
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))

	_, err = s.Comment.Add(ctx, vibeCheck.ID, nil, "hello")
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))

	_, err = s.Comment.Add(ctx, "missing-id", alice, "hello")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestCommentRemove_AuthorOnly(t *testing.T) {
	s := newTestServices(store.NewMemory())
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	vibeCheck := seedVibeCheck(t, s, alice)
	ctx := context.Background()

	comment, err := s.Comment.Add(ctx, vibeCheck.ID, bob, "banger record")
	require.NoError(t, err)

	// The vibe check's author still can't remove someone else's comment.
	err = s.Comment.Remove(ctx, vibeCheck.ID, comment.ID, alice.ID)
	assert.Equal(t, apperr.PermissionDenied, apperr.KindOf(err))

	err = s.Comment.Remove(ctx, vibeCheck.ID, comment.ID, bob.ID)
	require.NoError(t, err)

	updated, err := s.VibeCheck.FindByID(ctx, vibeCheck.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Comments)

	// A second removal finds nothing.
	err = s.Comment.Remove(ctx, vibeCheck.ID, comment.ID, bob.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestCommentRemove_MissingVibeCheck(t *testing.T) {
	s := newTestServices(store.NewMemory())
	alice := seedUser(t, s, "alice")

	err := s.Comment.Remove(context.Background(), "missing-id", "whatever", alice.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestCommentAdd_RetriesOnVersionConflict(t *testing.T) {
	flaky := &flakyStore{ContentStore: store.NewMemory(), conflicts: 1}
	s := newTestServices(flaky)
	alice := seedUser(t, s, "alice")
	vibeCheck := seedVibeCheck(t, s, alice)

	comment, err := s.Comment.Add(context.Background(), vibeCheck.ID, alice, "still landed")

	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
}
