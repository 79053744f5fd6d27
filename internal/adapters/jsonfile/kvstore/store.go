package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/forkthecity/microsite-store/internal/ports/out/kvstore"
)

// FileName is the document holding every key inside the data directory.
const FileName = "localstorage.json"

// ErrCorruptDocument is returned by every operation while the document on
// disk is not a JSON object of strings. Writes refuse to replace it so the
// keys it still holds can be recovered by hand.
var ErrCorruptDocument = errors.New("jsonfile: corrupt document")

// Store keeps all keys in a single JSON object on disk:
//
//	data_dir/
//	  localstorage.json   # {"ftc_members": "[...]", "ftc_current_user": "...", ...}
//
// Writes go to a temp file that is renamed over the document, so a batch is
// either fully visible or not at all.
type Store struct {
	mu   sync.RWMutex
	path string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{path: filepath.Join(dir, FileName)}, nil
}

// load returns the stored map. A missing document is empty.
func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	var result map[string]string
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptDocument, s.path, err)
	}
	if result == nil {
		result = map[string]string{}
	}
	return result, nil
}

func (s *Store) save(data map[string]string) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".localstorage-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.Apply(ctx, []kvstore.Mutation{kvstore.Set(key, value)})
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.Apply(ctx, []kvstore.Mutation{kvstore.Remove(key)})
}

func (s *Store) Apply(ctx context.Context, muts []kvstore.Mutation) error {
	_ = ctx
	if len(muts) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return err
	}
	for _, m := range muts {
		if m.Delete {
			delete(data, m.Key)
			continue
		}
		data[m.Key] = m.Value
	}
	return s.save(data)
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(data))
	for k := range data {
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}
