package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/iliyamo/door-access-admin/internal/database"
)

// SetupTestDB opens a fresh in-memory SQLite database with the full schema.
// The handle is closed when the test finishes.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}
