package kvstore

import (
	"path/filepath"
	"testing"

	"github.com/forkthecity/microsite-store/internal/adapters/contracttest"
	kvstoreport "github.com/forkthecity/microsite-store/internal/ports/out/kvstore"
)

func TestContract_SQLiteKVStore(t *testing.T) {
	contracttest.RunKVStore(t, func(t *testing.T) (kvstoreport.Store, func()) {
		t.Helper()
		s, err := NewStore(filepath.Join(t.TempDir(), "civicstore.db"))
		if err != nil {
			t.Fatalf("NewStore: %v", err)
		}
		return s, func() { _ = s.Close() }
	})
}
