package testutil

import (
	"context"
	"testing"

	"github.com/Rana718/agriseed/internal/migrator"
	"github.com/Rana718/agriseed/internal/store"
)

// OpenSQLite opens a named in-memory SQLite database with foreign keys on.
// The database is closed via t.Cleanup.
func OpenSQLite(t *testing.T, name string) *store.DB {
	t.Helper()
	db, err := store.Open(context.Background(), "sqlite", "", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// OpenMigratedSQLite is OpenSQLite with every migration applied.
func OpenMigratedSQLite(t *testing.T, name string) *store.DB {
	t.Helper()
	db := OpenSQLite(t, name)
	m, err := migrator.New(db)
	if err != nil {
		t.Fatalf("create migrator: %v", err)
	}
	if _, err := m.Up(context.Background()); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}
