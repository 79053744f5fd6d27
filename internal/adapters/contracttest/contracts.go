package contracttest

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/forkthecity/microsite-store/internal/ports/out/kvstore"
)

type CleanupFunc = func()

type KVStoreFactory func(t *testing.T) (kvstore.Store, CleanupFunc)

// RunKVStore exercises the behaviour every persistence medium must share.
// Keys are prefixed per run so suites against shared databases do not collide.
func RunKVStore(t *testing.T, newStore KVStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}
	prefix := "ct_" + uuid.NewString()[:8] + "_"
	k := func(name string) string { return prefix + name }

	if _, ok, err := store.Get(ctx, k("absent")); err != nil || ok {
		t.Fatalf("Get(absent) ok=%v err=%v, want ok=false err=nil", ok, err)
	}

	// Set then Get, including the empty value.
	if err := store.Set(ctx, k("a"), `[{"id":"1"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, k("empty"), ""); err != nil {
		t.Fatalf("Set empty: %v", err)
	}
	got, ok, err := store.Get(ctx, k("a"))
	if err != nil || !ok || got != `[{"id":"1"}]` {
		t.Fatalf("Get(a)=%q ok=%v err=%v", got, ok, err)
	}
	got, ok, err = store.Get(ctx, k("empty"))
	if err != nil || !ok || got != "" {
		t.Fatalf("Get(empty)=%q ok=%v err=%v, want present empty value", got, ok, err)
	}

	// Overwrite semantics.
	if err := store.Set(ctx, k("a"), "[]"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if got, _, _ := store.Get(ctx, k("a")); got != "[]" {
		t.Fatalf("Get after overwrite=%q, want []", got)
	}

	// Remove, including an absent key.
	if err := store.Remove(ctx, k("empty")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(ctx, k("never-set")); err != nil {
		t.Fatalf("Remove(absent): %v", err)
	}
	if _, ok, _ := store.Get(ctx, k("empty")); ok {
		t.Fatalf("Get after Remove ok=true")
	}

	// Apply mixes sets and deletes.
	if err := store.Apply(ctx, []kvstore.Mutation{
		kvstore.Set(k("b"), "B"),
		kvstore.Set(k("c"), "C"),
		kvstore.Remove(k("a")),
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, ok, _ := store.Get(ctx, k("a")); ok {
		t.Fatalf("a still present after Apply delete")
	}
	if v, _, _ := store.Get(ctx, k("b")); v != "B" {
		t.Fatalf("Get(b)=%q, want B", v)
	}
	if err := store.Apply(ctx, nil); err != nil {
		t.Fatalf("Apply(nil): %v", err)
	}

	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	var mine []string
	for _, key := range keys {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			mine = append(mine, key)
		}
	}
	if len(mine) != 2 || mine[0] != k("b") || mine[1] != k("c") {
		t.Fatalf("Keys()=%v, want [%s %s]", mine, k("b"), k("c"))
	}
}
