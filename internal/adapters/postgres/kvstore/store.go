package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/forkthecity/microsite-store/internal/adapters/postgres"
	"github.com/forkthecity/microsite-store/internal/ports/out/kvstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the kv_entries table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := pool.Exec(ctx, schema)
	return err
}

// Store is a Postgres implementation of kvstore.Store.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if s.pool == nil {
		return "", false, errors.New("nil postgres pool")
	}
	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.Apply(ctx, []kvstore.Mutation{kvstore.Set(key, value)})
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.Apply(ctx, []kvstore.Mutation{kvstore.Remove(key)})
}

func (s *Store) Apply(ctx context.Context, muts []kvstore.Mutation) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	if len(muts) == 0 {
		return nil
	}
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, m := range muts {
			if m.Delete {
				if _, err := tx.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, m.Key); err != nil {
					return err
				}
				continue
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO kv_entries (key, value, updated_at)
				VALUES ($1, $2, now())
				ON CONFLICT (key) DO UPDATE SET
					value = EXCLUDED.value,
					updated_at = EXCLUDED.updated_at
			`, m.Key, m.Value); err != nil {
				return err
			}
		}
		return nil
	})
	if postgres.IsCapacityError(err) {
		return fmt.Errorf("%w: %v", kvstore.ErrQuotaExceeded, err)
	}
	return err
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if s.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := s.pool.Query(ctx, `SELECT key FROM kv_entries ORDER BY key`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
