package store

import (
	"context"
	"encoding/json"
	"errors"
)

const (
	CollectionVibeChecks  = "vibe_checks"
	CollectionFriendships = "friendships"
	CollectionUsers       = "users"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrConflict        = errors.New("document already exists")
	ErrVersionConflict = errors.New("document version conflict")
)

// Record is a stored document together with the version token used for
// conditional writes.
type Record struct {
	Key     string
	Version int64
	Data    []byte
}

// ContentStore is the key-addressed document store the services are built on.
// There are no multi-key transactions; the only coordination primitives are
// PutNew (create-if-absent) and ConditionalUpdate (compare-and-swap on the
// record's version).
type ContentStore interface {
	GetByID(ctx context.Context, collection, key string) (*Record, error)
	PutNew(ctx context.Context, collection, key string, doc interface{}) (*Record, error)
	ConditionalUpdate(ctx context.Context, collection, key string, doc interface{}, expectedVersion int64) (*Record, error)
	Delete(ctx context.Context, collection, key string) (*Record, error)
	List(ctx context.Context, collection string) ([]Record, error)
	QueryByIndex(ctx context.Context, collection, indexKey, value string) ([]Record, error)
	BatchDelete(ctx context.Context, collection string, keys []string) (map[string]error, error)
}

func Decode[T any](rec *Record) (*T, error) {
	var result T
	if err := json.Unmarshal(rec.Data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func DecodeAll[T any](recs []Record) ([]*T, error) {
	results := make([]*T, 0, len(recs))
	for i := range recs {
		result, err := Decode[T](&recs[i])
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
