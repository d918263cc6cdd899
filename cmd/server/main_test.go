package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/iliyamo/door-access-admin/internal/config"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenStoreMigrates(t *testing.T) {
	db, err := openStore(context.Background(), config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, discard())
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	if db == nil {
		t.Fatal("Expected a database handle")
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM doors`).Scan(&n); err != nil {
		t.Errorf("Expected the schema applied: %v", err)
	}
}

func TestOpenStoreUnreachableRunsWithoutStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "door-access.db")
	db, err := openStore(context.Background(), config.DatabaseConfig{Driver: "sqlite", SQLitePath: path}, discard())
	if err != nil {
		t.Fatalf("Expected no error for an unreachable store, got %v", err)
	}
	if db != nil {
		t.Error("Expected a nil handle for an unreachable store")
	}
}

func TestOpenStoreMigrationFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	db, err := openStore(ctx, config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, discard())
	if err == nil {
		t.Fatal("Expected the migration to fail on a cancelled context")
	}
	if db != nil {
		t.Error("Expected no handle after a failed migration")
	}
}
