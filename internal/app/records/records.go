// Package records is the persistence primitive: whole-collection reads and
// writes of JSON-encoded record slices over a kvstore.Store.
//
// Every mutation above this layer is read-modify-write of a full collection.
// Nothing here serializes those cycles, so two writers racing on one
// collection lose an update (last writer wins). One active writer per store
// is assumed.
package records

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/forkthecity/microsite-store/internal/app/apperr"
	"github.com/forkthecity/microsite-store/internal/platform/logging"
	"github.com/forkthecity/microsite-store/internal/ports/out/kvstore"
)

type Store struct {
	kv  kvstore.Store
	log logrus.FieldLogger
}

func New(kv kvstore.Store, log logrus.FieldLogger) *Store {
	return &Store{kv: kv, log: logging.OrDiscard(log)}
}

// KV exposes the underlying medium for slot values that are not collections.
func (s *Store) KV() kvstore.Store { return s.kv }

func (s *Store) Log() logrus.FieldLogger { return s.log }

// Read returns the collection under key in stored order. It never fails:
// an absent key, a medium error or unparseable contents all read as empty,
// the latter two being logged.
func Read[T any](ctx context.Context, s *Store, key Key) []T {
	raw, ok, err := s.kv.Get(ctx, string(key))
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("reading collection")
		return []T{}
	}
	if !ok || raw == "" {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("unparseable collection, treating as empty")
		return []T{}
	}
	if out == nil {
		return []T{}
	}
	return out
}

// ReadValue decodes a single JSON value stored under key. ok is false when
// the key is absent or its contents do not parse.
func ReadValue[T any](ctx context.Context, s *Store, key Key) (T, bool) {
	var out T
	raw, ok, err := s.kv.Get(ctx, string(key))
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("reading value")
		return out, false
	}
	if !ok || raw == "" {
		return out, false
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("unparseable value, ignoring")
		var zero T
		return zero, false
	}
	return out, true
}

// Write replaces the collection under key. Medium failures surface as
// STORAGE_FAILURE errors wrapping the medium's cause.
func Write[T any](ctx context.Context, s *Store, key Key, recs []T) error {
	b := s.Batch()
	Stage(b, key, recs)
	return b.Commit(ctx)
}

// Batch stages writes to several keys and commits them all-or-nothing.
type Batch struct {
	s    *Store
	muts []kvstore.Mutation
	keys []Key
	err  error
}

func (s *Store) Batch() *Batch { return &Batch{s: s} }

// Stage adds the full collection recs under key to the batch.
func Stage[T any](b *Batch, key Key, recs []T) {
	if b.err != nil {
		return
	}
	if recs == nil {
		recs = []T{}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		b.err = apperr.StorageFailure(string(key), err)
		return
	}
	b.SetRaw(key, string(data))
}

// StageValue adds a single JSON-encoded value under key.
func StageValue(b *Batch, key Key, v any) {
	if b.err != nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		b.err = apperr.StorageFailure(string(key), err)
		return
	}
	b.SetRaw(key, string(data))
}

func (b *Batch) SetRaw(key Key, value string) {
	b.muts = append(b.muts, kvstore.Set(string(key), value))
	b.keys = append(b.keys, key)
}

func (b *Batch) Remove(key Key) {
	b.muts = append(b.muts, kvstore.Remove(string(key)))
	b.keys = append(b.keys, key)
}

func (b *Batch) Commit(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	if len(b.muts) == 0 {
		return nil
	}
	if err := b.s.kv.Apply(ctx, b.muts); err != nil {
		names := make([]string, 0, len(b.keys))
		for _, k := range b.keys {
			names = append(names, string(k))
		}
		return apperr.StorageFailure(strings.Join(names, ","), err)
	}
	return nil
}
