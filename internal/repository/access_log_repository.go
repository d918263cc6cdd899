package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/door-access-admin/internal/model"
)

// AccessLogRepo stores badge scans reported by the door controllers.
type AccessLogRepo struct {
	db *sql.DB
}

// NewAccessLogRepo constructs an AccessLogRepo with the provided DB handle.
func NewAccessLogRepo(db *sql.DB) *AccessLogRepo {
	return &AccessLogRepo{db: db}
}

// Create appends an entry. Missing ID and Time are filled in; the UID is
// normalized like badge keys.
func (r *AccessLogRepo) Create(ctx context.Context, l *model.AccessLog) error {
	if err := checkDB(r.db); err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Time.IsZero() {
		l.Time = time.Now()
	}
	l.Time = l.Time.UTC().Truncate(time.Second)
	l.UID = model.NormalizeUID(l.UID)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO access_logs (id, logged_at, badge_uid, user_name, result, location) VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, l.Time, l.UID, l.User, l.Result, l.Location)
	return classify("insert access log", err)
}

// List returns all entries, newest first.
func (r *AccessLogRepo) List(ctx context.Context) ([]model.AccessLog, error) {
	if err := checkDB(r.db); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, logged_at, badge_uid, user_name, result, location FROM access_logs ORDER BY logged_at DESC, id`)
	if err != nil {
		return nil, classify("list access logs", err)
	}
	defer rows.Close()

	var out []model.AccessLog
	for rows.Next() {
		var l model.AccessLog
		if err := rows.Scan(&l.ID, &l.Time, &l.UID, &l.User, &l.Result, &l.Location); err != nil {
			return nil, classify("scan access log", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list access logs", err)
	}
	return out, nil
}

// Delete removes one entry by id.
func (r *AccessLogRepo) Delete(ctx context.Context, id string) error {
	if err := checkDB(r.db); err != nil {
		return err
	}
	return deleteByKey(ctx, r.db, `DELETE FROM access_logs WHERE id = ?`, id)
}
