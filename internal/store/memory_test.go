package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

func TestPutNew_Conflict(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	rec, err := s.PutNew(ctx, "docs", "a", testDoc{Name: "first"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Version)

	_, err = s.PutNew(ctx, "docs", "a", testDoc{Name: "second"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGetByID_NotFound(t *testing.T) {
	s := NewMemory()

	_, err := s.GetByID(context.Background(), "docs", "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConditionalUpdate_VersionConflict(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	rec, err := s.PutNew(ctx, "docs", "a", testDoc{Name: "v1"})
	require.NoError(t, err)

	updated, err := s.ConditionalUpdate(ctx, "docs", "a", testDoc{Name: "v2"}, rec.Version)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	// The stale version token must no longer win.
	_, err = s.ConditionalUpdate(ctx, "docs", "a", testDoc{Name: "v3"}, rec.Version)
	assert.ErrorIs(t, err, ErrVersionConflict)

	doc, err := Decode[testDoc](mustGet(t, s, "docs", "a"))
	require.NoError(t, err)
	assert.Equal(t, "v2", doc.Name)
}

func TestConditionalUpdate_NotFound(t *testing.T) {
	s := NewMemory()

	_, err := s.ConditionalUpdate(context.Background(), "docs", "missing", testDoc{}, 1)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_ReturnsDocument(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	_, err := s.PutNew(ctx, "docs", "a", testDoc{Name: "gone"})
	require.NoError(t, err)

	rec, err := s.Delete(ctx, "docs", "a")
	require.NoError(t, err)

	doc, err := Decode[testDoc](rec)
	require.NoError(t, err)
	assert.Equal(t, "gone", doc.Name)

	_, err = s.Delete(ctx, "docs", "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQueryByIndex(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	_, err := s.PutNew(ctx, "docs", "a", testDoc{Name: "a", Owner: "alice"})
	require.NoError(t, err)
	_, err = s.PutNew(ctx, "docs", "b", testDoc{Name: "b", Owner: "alice"})
	require.NoError(t, err)
	_, err = s.PutNew(ctx, "docs", "c", testDoc{Name: "c", Owner: "bob"})
	require.NoError(t, err)

	recs, err := s.QueryByIndex(ctx, "docs", "owner", "alice")
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = s.QueryByIndex(ctx, "docs", "owner", "carol")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestBatchDelete_PerKeyOutcome(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	_, err := s.PutNew(ctx, "docs", "a", testDoc{Name: "a"})
	require.NoError(t, err)
	_, err = s.PutNew(ctx, "docs", "b", testDoc{Name: "b"})
	require.NoError(t, err)

	outcome, err := s.BatchDelete(ctx, "docs", []string{"a", "b", "missing"})
	require.NoError(t, err)

	assert.NoError(t, outcome["a"])
	assert.NoError(t, outcome["b"])
	assert.ErrorIs(t, outcome["missing"], ErrNotFound)

	recs, err := s.List(ctx, "docs")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func mustGet(t *testing.T, s ContentStore, collection, key string) *Record {
	t.Helper()
	rec, err := s.GetByID(context.Background(), collection, key)
	require.NoError(t, err)
	return rec
}
