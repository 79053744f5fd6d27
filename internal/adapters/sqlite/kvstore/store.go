package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/forkthecity/microsite-store/internal/ports/out/kvstore"
)

// Store keeps every key as one row of a single SQLite table:
//
//	kv(key TEXT PRIMARY KEY, value TEXT NOT NULL)
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// One connection serializes writers and keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
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
	if len(muts) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, m := range muts {
		if m.Delete {
			_, err = tx.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", m.Key)
		} else {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO kv (key, value) VALUES (?, ?)
				 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
				m.Key, m.Value,
			)
		}
		if err != nil {
			_ = tx.Rollback()
			return classify(err)
		}
	}
	return classify(tx.Commit())
}

// isCapacityError reports whether err is SQLite running out of room:
// disk or max_page_count exhausted, or a value over the row size limit.
func isCapacityError(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == sqlite3.ErrFull || se.Code == sqlite3.ErrTooBig
}

func classify(err error) error {
	if err != nil && isCapacityError(err) {
		return fmt.Errorf("%w: %v", kvstore.ErrQuotaExceeded, err)
	}
	return err
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
