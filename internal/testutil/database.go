package testutil

import (
	"context"
	"testing"

	"github.com/miosync-masa/digit-consonance/internal/model"
	"github.com/miosync-masa/digit-consonance/internal/storage"
)

// SetupTestStore creates a migrated in-memory zero store seeded with the given
// tables. It is closed automatically when the test finishes.
//
// Example:
//
//	store := testutil.SetupTestStore(t, map[string]*model.ZeroTable{
//		"first-ten": testutil.SampleTable(10),
//	})
func SetupTestStore(t *testing.T, tables map[string]*model.ZeroTable) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for name, table := range tables {
		if err := store.SaveZeroTable(ctx, name, table); err != nil {
			t.Fatalf("failed to seed zero table %q: %v", name, err)
		}
	}

	return store
}
