package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/VibeBuddies/vibecheck-service/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresStore keeps every document in a single versioned jsonb table.
// Conditional writes are expressed as guarded INSERT/UPDATE statements, which
// gives PutNew and ConditionalUpdate their create-if-absent and compare-and-swap
// semantics without explicit locking.
type postgresStore struct {
	db *pgxpool.Pool
}

func DB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		return nil, err
	}
	return pool, nil
}

func NewPostgres(db *pgxpool.Pool) ContentStore {
	return &postgresStore{
		db: db,
	}
}

// EnsureSchema creates the documents table and its containment index.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		key TEXT NOT NULL,
		version BIGINT NOT NULL,
		data JSONB NOT NULL,
		PRIMARY KEY (collection, key)
	)`); err != nil {
		return fmt.Errorf("ensure documents table: %w", err)
	}

	if _, err := db.Exec(ctx, `CREATE INDEX IF NOT EXISTS documents_data_idx ON documents USING GIN (data jsonb_path_ops)`); err != nil {
		return fmt.Errorf("ensure documents index: %w", err)
	}

	return nil
}

func (s *postgresStore) GetByID(ctx context.Context, collection, key string) (*Record, error) {
	rec := Record{Key: key}
	if err := s.db.QueryRow(
		ctx,
		"SELECT version, data FROM documents WHERE collection = $1 AND key = $2",
		collection,
		key,
	).Scan(&rec.Version, &rec.Data); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &rec, nil
}

func (s *postgresStore) PutNew(ctx context.Context, collection, key string, doc interface{}) (*Record, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	tag, err := s.db.Exec(
		ctx,
		"INSERT INTO documents(collection, key, version, data) VALUES($1, $2, 1, $3) ON CONFLICT (collection, key) DO NOTHING",
		collection,
		key,
		data,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrConflict
	}

	return &Record{Key: key, Version: 1, Data: data}, nil
}

func (s *postgresStore) ConditionalUpdate(ctx context.Context, collection, key string, doc interface{}, expectedVersion int64) (*Record, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	rec := Record{Key: key, Data: data}
	err = s.db.QueryRow(
		ctx,
		"UPDATE documents SET data = $4, version = version + 1 WHERE collection = $1 AND key = $2 AND version = $3 RETURNING version",
		collection,
		key,
		expectedVersion,
		data,
	).Scan(&rec.Version)
	if err == nil {
		return &rec, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	// No row matched: either the document is gone or someone else moved the
	// version. Distinguish the two for the caller.
	if _, err := s.GetByID(ctx, collection, key); err != nil {
		return nil, err
	}
	return nil, ErrVersionConflict
}

func (s *postgresStore) Delete(ctx context.Context, collection, key string) (*Record, error) {
	rec := Record{Key: key}
	if err := s.db.QueryRow(
		ctx,
		"DELETE FROM documents WHERE collection = $1 AND key = $2 RETURNING version, data",
		collection,
		key,
	).Scan(&rec.Version, &rec.Data); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &rec, nil
}

func (s *postgresStore) List(ctx context.Context, collection string) ([]Record, error) {
	rows, err := s.db.Query(
		ctx,
		"SELECT key, version, data FROM documents WHERE collection = $1",
		collection,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Key, &rec.Version, &rec.Data); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recs, nil
}

func (s *postgresStore) QueryByIndex(ctx context.Context, collection, indexKey, value string) ([]Record, error) {
	rows, err := s.db.Query(
		ctx,
		"SELECT key, version, data FROM documents WHERE collection = $1 AND data @> jsonb_build_object($2::text, $3::text)",
		collection,
		indexKey,
		value,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Key, &rec.Version, &rec.Data); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recs, nil
}

func (s *postgresStore) BatchDelete(ctx context.Context, collection string, keys []string) (map[string]error, error) {
	batch := &pgx.Batch{}
	for _, key := range keys {
		batch.Queue("DELETE FROM documents WHERE collection = $1 AND key = $2", collection, key)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	outcome := make(map[string]error, len(keys))
	for _, key := range keys {
		tag, err := results.Exec()
		if err != nil {
			outcome[key] = err
			continue
		}
		if tag.RowsAffected() == 0 {
			outcome[key] = ErrNotFound
			continue
		}
		outcome[key] = nil
	}

	return outcome, nil
}
