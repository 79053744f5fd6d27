// Package snapshot exports, imports and clears the whole store, and reports
// how much of the medium's capacity it uses.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/forkthecity/microsite-store/internal/app/apperr"
	"github.com/forkthecity/microsite-store/internal/app/records"
	"github.com/forkthecity/microsite-store/internal/platform/logging"
)

// DefaultCapacityBytes is the capacity assumed when none is configured.
const DefaultCapacityBytes = 5 * 1024 * 1024

type Service struct {
	rec      *records.Store
	log      logrus.FieldLogger
	capacity int
}

// NewService returns a snapshot service. capacity <= 0 uses DefaultCapacityBytes.
func NewService(rec *records.Store, capacity int, log logrus.FieldLogger) *Service {
	if capacity <= 0 {
		capacity = DefaultCapacityBytes
	}
	return &Service{rec: rec, log: logging.OrDiscard(log), capacity: capacity}
}

// Export returns an indented JSON object mapping each collection's logical
// name (MEMBERS, POSTS, ...) to its records. Absent or unreadable
// collections export as empty arrays.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	out := make(map[string]json.RawMessage, len(records.Collections))
	for _, c := range records.Collections {
		out[c.Name] = s.rawCollection(ctx, c.Key)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Service) rawCollection(ctx context.Context, key records.Key) json.RawMessage {
	empty := json.RawMessage("[]")
	raw, ok, err := s.rec.KV().Get(ctx, string(key))
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("reading collection for export")
		return empty
	}
	if !ok || raw == "" {
		return empty
	}
	if !isArray([]byte(raw)) {
		s.log.WithField("key", key).Warn("unparseable collection, exporting as empty")
		return empty
	}
	return json.RawMessage(raw)
}

// Import overwrites every collection present in data. Collections missing
// from data (or null) are left alone. Input that is not a JSON object, or a
// present collection that is not an array, fails with INVALID_FORMAT and
// nothing is written.
func (s *Service) Import(ctx context.Context, data []byte) error {
	var in map[string]json.RawMessage
	if err := json.Unmarshal(data, &in); err != nil {
		return invalidFormat("snapshot is not a JSON object", err)
	}
	if in == nil {
		return invalidFormat("snapshot is not a JSON object", nil)
	}

	b := s.rec.Batch()
	var imported []string
	for _, c := range records.Collections {
		raw, ok := in[c.Name]
		if !ok || isNull(raw) {
			continue
		}
		if !isArray(raw) {
			return invalidFormat(c.Name+" is not an array", nil)
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return invalidFormat(c.Name+" is not valid JSON", err)
		}
		b.SetRaw(c.Key, buf.String())
		imported = append(imported, c.Name)
	}
	if err := b.Commit(ctx); err != nil {
		return err
	}
	s.log.WithField("collections", imported).Info("snapshot imported")
	return nil
}

// Clear removes every collection and the session slots.
func (s *Service) Clear(ctx context.Context) error {
	b := s.rec.Batch()
	for _, k := range records.AllKeys() {
		b.Remove(k)
	}
	if err := b.Commit(ctx); err != nil {
		return err
	}
	s.log.Info("store cleared")
	return nil
}

type Usage struct {
	UsedBytes     int     `json:"used"`
	CapacityBytes int     `json:"available"`
	Percent       float64 `json:"percentage"`
}

// Usage sums len(key)+len(value) over the store's keys.
func (s *Service) Usage(ctx context.Context) (Usage, error) {
	used := 0
	for _, k := range records.AllKeys() {
		v, ok, err := s.rec.KV().Get(ctx, string(k))
		if err != nil {
			return Usage{}, apperr.StorageFailure(string(k), err)
		}
		if ok {
			used += len(k) + len(v)
		}
	}
	return Usage{
		UsedBytes:     used,
		CapacityBytes: s.capacity,
		Percent:       float64(used) / float64(s.capacity) * 100,
	}, nil
}

func invalidFormat(msg string, cause error) error {
	return &apperr.Error{Code: apperr.CodeInvalidFormat, Message: "invalid import format: " + msg, Err: cause}
}

func isArray(raw []byte) bool {
	var probe []json.RawMessage
	return json.Unmarshal(raw, &probe) == nil && probe != nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

