package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/door-access-admin/internal/model"
)

// DoorRepo encapsulates queries for the doors table.
type DoorRepo struct {
	db *sql.DB
}

// NewDoorRepo constructs a DoorRepo with the provided DB handle.
func NewDoorRepo(db *sql.DB) *DoorRepo {
	return &DoorRepo{db: db}
}

// Upsert creates the door or overwrites it with the given status and time.
func (r *DoorRepo) Upsert(ctx context.Context, d model.Door) error {
	if err := checkDB(r.db); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`REPLACE INTO doors (name, status, last_update) VALUES (?, ?, ?)`,
		d.Name, d.Status, d.LastUpdate.UTC().Truncate(time.Second))
	return classify("upsert door", err)
}

// SetStatus records a status change reported by a door controller. It
// returns ErrNotFound for doors that were never added.
func (r *DoorRepo) SetStatus(ctx context.Context, name, status string, at time.Time) error {
	if err := checkDB(r.db); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE doors SET status = ?, last_update = ? WHERE name = ?`,
		status, at.UTC().Truncate(time.Second), name)
	if err != nil {
		return classify("update door", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByName fetches a single door.
func (r *DoorRepo) GetByName(ctx context.Context, name string) (*model.Door, error) {
	if err := checkDB(r.db); err != nil {
		return nil, err
	}
	var d model.Door
	err := r.db.QueryRowContext(ctx, `SELECT name, status, last_update FROM doors WHERE name = ?`, name).
		Scan(&d.Name, &d.Status, &d.LastUpdate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classify("get door", err)
	}
	return &d, nil
}

// List returns all doors ordered by name.
func (r *DoorRepo) List(ctx context.Context) ([]model.Door, error) {
	if err := checkDB(r.db); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT name, status, last_update FROM doors ORDER BY name`)
	if err != nil {
		return nil, classify("list doors", err)
	}
	defer rows.Close()

	var out []model.Door
	for rows.Next() {
		var d model.Door
		if err := rows.Scan(&d.Name, &d.Status, &d.LastUpdate); err != nil {
			return nil, classify("scan door", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list doors", err)
	}
	return out, nil
}

// Delete removes a door by name.
func (r *DoorRepo) Delete(ctx context.Context, name string) error {
	if err := checkDB(r.db); err != nil {
		return err
	}
	return deleteByKey(ctx, r.db, `DELETE FROM doors WHERE name = ?`, name)
}

// deleteByKey executes a single-row delete and maps "no row" onto
// ErrNotFound.
func deleteByKey(ctx context.Context, db *sql.DB, stmt, key string) error {
	res, err := db.ExecContext(ctx, stmt, key)
	if err != nil {
		return classify("delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
