package store

import (
	"context"
	"encoding/json"
	"sync"
)

// memoryStore is a mutex-guarded in-memory ContentStore with the same
// conditional-write semantics as the postgres implementation. It backs the
// service tests and local development without a database.
type memoryStore struct {
	collections map[string]map[string]*Record
	mu          sync.RWMutex
}

func NewMemory() ContentStore {
	return &memoryStore{
		collections: make(map[string]map[string]*Record),
	}
}

func (s *memoryStore) GetByID(_ context.Context, collection, key string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.collections[collection][key]
	if !exists {
		return nil, ErrNotFound
	}
	return copyRecord(rec), nil
}

func (s *memoryStore) PutNew(_ context.Context, collection, key string, doc interface{}) (*Record, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.collections[collection][key]; exists {
		return nil, ErrConflict
	}

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]*Record)
	}

	rec := &Record{Key: key, Version: 1, Data: data}
	s.collections[collection][key] = rec
	return copyRecord(rec), nil
}

func (s *memoryStore) ConditionalUpdate(_ context.Context, collection, key string, doc interface{}, expectedVersion int64) (*Record, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.collections[collection][key]
	if !exists {
		return nil, ErrNotFound
	}
	if current.Version != expectedVersion {
		return nil, ErrVersionConflict
	}

	rec := &Record{Key: key, Version: current.Version + 1, Data: data}
	s.collections[collection][key] = rec
	return copyRecord(rec), nil
}

func (s *memoryStore) Delete(_ context.Context, collection, key string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.collections[collection][key]
	if !exists {
		return nil, ErrNotFound
	}

	delete(s.collections[collection], key)
	return copyRecord(rec), nil
}

func (s *memoryStore) List(_ context.Context, collection string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recs []Record
	for _, rec := range s.collections[collection] {
		recs = append(recs, *copyRecord(rec))
	}

	return recs, nil
}

func (s *memoryStore) QueryByIndex(_ context.Context, collection, indexKey, value string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recs []Record
	for _, rec := range s.collections[collection] {
		var doc map[string]interface{}
		if err := json.Unmarshal(rec.Data, &doc); err != nil {
			return nil, err
		}
		if field, ok := doc[indexKey].(string); ok && field == value {
			recs = append(recs, *copyRecord(rec))
		}
	}

	return recs, nil
}

func (s *memoryStore) BatchDelete(_ context.Context, collection string, keys []string) (map[string]error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := make(map[string]error, len(keys))
	for _, key := range keys {
		if _, exists := s.collections[collection][key]; !exists {
			outcome[key] = ErrNotFound
			continue
		}
		delete(s.collections[collection], key)
		outcome[key] = nil
	}

	return outcome, nil
}

func copyRecord(rec *Record) *Record {
	data := make([]byte, len(rec.Data))
	copy(data, rec.Data)
	return &Record{Key: rec.Key, Version: rec.Version, Data: data}
}
