// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a missing
// record is a 404 or a validation message, while an unreachable store is
// always a server error.
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
)

// ErrNotFound is returned when the addressed record does not exist.
var ErrNotFound = errors.New("not found")

// ErrStoreUnavailable is returned when no database connection is
// available. Handlers translate it into a 500 "database unreachable"
// response.
var ErrStoreUnavailable = errors.New("database unreachable")

// checkDB rejects calls on a repository that was built without a handle.
func checkDB(db *sql.DB) error {
	if db == nil {
		return ErrStoreUnavailable
	}
	return nil
}

// classify maps connection-level driver failures onto ErrStoreUnavailable
// and leaves everything else untouched.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// inTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin tx", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = classify("commit", tx.Commit())
	}()
	return fn(tx)
}
