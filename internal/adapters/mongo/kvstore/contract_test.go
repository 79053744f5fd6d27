package kvstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/forkthecity/microsite-store/internal/adapters/contracttest"
	kvstoreport "github.com/forkthecity/microsite-store/internal/ports/out/kvstore"
)

// uriEnv names the variable pointing integration tests at a disposable replica set.
const uriEnv = "CIVICSTORE_TEST_MONGO_URI"

func TestContract_MongoKVStore(t *testing.T) {
	uri := os.Getenv(uriEnv)
	if uri == "" {
		t.Skipf("%s not set; skipping mongo integration test", uriEnv)
	}

	contracttest.RunKVStore(t, func(t *testing.T) (kvstoreport.Store, func()) {
		t.Helper()
		ctx := context.Background()
		db := "civicstore_test_" + uuid.NewString()[:8]
		s, err := Connect(ctx, uri, db)
		if err != nil {
			t.Fatalf("Connect: %v", err)
		}
		return s, func() {
			_ = s.client.Database(db).Drop(ctx)
			_ = s.Close(ctx)
		}
	})
}
