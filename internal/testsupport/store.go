package testsupport

import (
	"testing"

	"storylink/internal/config"
	"storylink/internal/workspace"
)

// MustOpenWorkspace opens a workspace.Store for tests and registers cleanup.
func MustOpenWorkspace(t testing.TB, cfg *config.Config) *workspace.Store {
	t.Helper()

	store, err := workspace.Open(cfg)
	if err != nil {
		t.Fatalf("workspace.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
