package testsupport

import (
	"context"
	"testing"

	"curator/internal/config"
	"curator/internal/staging"
)

// MustOpenStore opens a staging.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *staging.Store {
	t.Helper()

	store, err := staging.Open(cfg)
	if err != nil {
		t.Fatalf("staging.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustInsertHouse adds a catalog house for tests using the provided store.
func MustInsertHouse(t testing.TB, store *staging.Store, house staging.House) string {
	t.Helper()

	id, err := store.InsertHouse(context.Background(), house)
	if err != nil {
		t.Fatalf("store.InsertHouse: %v", err)
	}
	return id
}
