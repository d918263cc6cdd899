package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is written in the subset of SQL that MySQL and SQLite both accept
// so a single migration serves either driver.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS personnel (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		first_name VARCHAR(255) NOT NULL DEFAULT '',
		last_name VARCHAR(255) NOT NULL DEFAULT '',
		department VARCHAR(255) NOT NULL DEFAULT '',
		role VARCHAR(255) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(64) NOT NULL DEFAULT '',
		address VARCHAR(512) NOT NULL DEFAULT '',
		linked_badge_uid VARCHAR(64) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS authorized_badges (
		uid VARCHAR(64) NOT NULL PRIMARY KEY,
		personnel_id VARCHAR(64) NOT NULL,
		first_name VARCHAR(255) NOT NULL DEFAULT '',
		last_name VARCHAR(255) NOT NULL DEFAULT '',
		department VARCHAR(255) NOT NULL DEFAULT '',
		role VARCHAR(255) NOT NULL DEFAULT '',
		zones TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS doors (
		name VARCHAR(255) NOT NULL PRIMARY KEY,
		status VARCHAR(32) NOT NULL,
		last_update DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS access_logs (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		logged_at DATETIME NOT NULL,
		badge_uid VARCHAR(64) NOT NULL DEFAULT '',
		user_name VARCHAR(255) NOT NULL DEFAULT '',
		result VARCHAR(255) NOT NULL DEFAULT '',
		location VARCHAR(255) NOT NULL DEFAULT ''
	)`,
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
