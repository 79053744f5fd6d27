package kvstore

import "context"

// Mutation is one entry of an Apply batch: either a Set of Value under Key,
// or (Delete=true) removal of Key.
type Mutation struct {
	Key    string
	Value  string
	Delete bool
}

func Set(key, value string) Mutation { return Mutation{Key: key, Value: value} }
func Remove(key string) Mutation     { return Mutation{Key: key, Delete: true} }

// Store is the persistence medium: a flat string-keyed, string-valued store,
// the server-side stand-in for browser localStorage.
//
// Implementations do not coordinate read-modify-write cycles of their callers;
// the last Set of a key wins.
type Store interface {
	// Get returns the value under key; ok is false if the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Apply performs every mutation or none of them.
	Apply(ctx context.Context, muts []Mutation) error

	// Keys lists the stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
}
