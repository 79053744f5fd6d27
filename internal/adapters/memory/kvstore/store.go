package kvstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/forkthecity/microsite-store/internal/ports/out/kvstore"
)

// DefaultQuotaBytes mirrors the conservative 5 MiB browsers grant localStorage.
const DefaultQuotaBytes = 5 * 1024 * 1024

// Store is an in-memory kvstore.Store with a byte quota.
// Usage is counted as len(key)+len(value) over all entries.
// It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	data  map[string]string
	used  int
	quota int
}

// NewStore returns an empty store. quota <= 0 disables the limit.
func NewStore(quota int) *Store {
	return &Store{
		data:  make(map[string]string),
		quota: quota,
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
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
	s.mu.Lock()
	defer s.mu.Unlock()

	// Compute the post-batch size first so a refused batch leaves nothing behind.
	staged := make(map[string]*string, len(muts))
	for _, m := range muts {
		if m.Delete {
			staged[m.Key] = nil
			continue
		}
		v := m.Value
		staged[m.Key] = &v
	}
	used := s.used
	for k, v := range staged {
		if old, ok := s.data[k]; ok {
			used -= len(k) + len(old)
		}
		if v != nil {
			used += len(k) + len(*v)
		}
	}
	if s.quota > 0 && used > s.quota {
		return fmt.Errorf("%w: %d of %d bytes", kvstore.ErrQuotaExceeded, used, s.quota)
	}

	for k, v := range staged {
		if v == nil {
			delete(s.data, k)
			continue
		}
		s.data[k] = *v
	}
	s.used = used
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.data))
	for k := range s.data {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

// Usage reports the bytes currently stored and the configured quota.
func (s *Store) Usage() (used, quota int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used, s.quota
}
