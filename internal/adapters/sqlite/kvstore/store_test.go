package kvstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattn/go-sqlite3"

	kvstoreport "github.com/forkthecity/microsite-store/internal/ports/out/kvstore"
)

func TestIsCapacityError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "full", err: sqlite3.Error{Code: sqlite3.ErrFull}, want: true},
		{name: "wrapped too big", err: fmt.Errorf("insert: %w", sqlite3.Error{Code: sqlite3.ErrTooBig}), want: true},
		{name: "constraint", err: sqlite3.Error{Code: sqlite3.ErrConstraint}, want: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := isCapacityError(tc.err); got != tc.want {
				t.Fatalf("isCapacityError(%v)=%v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestStore_FullDatabaseIsQuotaExceeded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := NewStore(filepath.Join(t.TempDir(), "civicstore.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer s.Close()

	if err := s.Set(ctx, "ftc_members", `[{"id":"m1"}]`); err != nil {
		t.Fatalf("Set() err=%v", err)
	}
	// SQLite clamps this to the current page count.
	if _, err := s.db.ExecContext(ctx, "PRAGMA max_page_count = 1"); err != nil {
		t.Fatalf("PRAGMA err=%v", err)
	}

	err = s.Set(ctx, "ftc_posts", strings.Repeat("x", 256*1024))
	if !errors.Is(err, kvstoreport.ErrQuotaExceeded) {
		t.Fatalf("Set(large) err=%v, want ErrQuotaExceeded", err)
	}
	got, ok, err := s.Get(ctx, "ftc_members")
	if err != nil || !ok || got != `[{"id":"m1"}]` {
		t.Fatalf("Get()=%q ok=%v err=%v", got, ok, err)
	}
	if _, ok, _ := s.Get(ctx, "ftc_posts"); ok {
		t.Fatalf("failed write left ftc_posts behind")
	}
}
