package repository

// BadgeRepo owns the authorized_badges table and is the only writer of the
// personnel ↔ badge link. Link and Unlink each touch both tables inside a
// single transaction.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/door-access-admin/internal/model"
)

const badgeColumns = `uid, personnel_id, first_name, last_name, department, role, zones, created_at`

// BadgeRepo encapsulates queries for authorized badges.
type BadgeRepo struct {
	db *sql.DB
}

// NewBadgeRepo constructs a BadgeRepo with the provided DB handle.
func NewBadgeRepo(db *sql.DB) *BadgeRepo {
	return &BadgeRepo{db: db}
}

// List returns all authorized badges ordered by UID.
func (r *BadgeRepo) List(ctx context.Context) ([]model.AuthorizedBadge, error) {
	if err := checkDB(r.db); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+badgeColumns+` FROM authorized_badges ORDER BY uid`)
	if err != nil {
		return nil, classify("list badges", err)
	}
	defer rows.Close()

	var out []model.AuthorizedBadge
	for rows.Next() {
		var b model.AuthorizedBadge
		if err := scanBadge(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list badges", err)
	}
	return out, nil
}

// GetByUID fetches one badge by its (normalized) UID.
func (r *BadgeRepo) GetByUID(ctx context.Context, uid string) (*model.AuthorizedBadge, error) {
	if err := checkDB(r.db); err != nil {
		return nil, err
	}
	var b model.AuthorizedBadge
	row := r.db.QueryRowContext(ctx, `SELECT `+badgeColumns+` FROM authorized_badges WHERE uid = ?`, model.NormalizeUID(uid))
	if err := scanBadge(row, &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Link authorizes badge uid for the personnel record personnelID with the
// given zones. The badge row is created or overwritten with the person's
// current name, department and role, and the person's linked badge is set
// to uid. A badge the person held before is removed and its uid returned as
// revoked, and if uid was linked to somebody else that link is cleared.
// ErrNotFound is returned when the personnel record does not exist; nothing
// is written in that case.
func (r *BadgeRepo) Link(ctx context.Context, personnelID, uid string, zones []string) (badge *model.AuthorizedBadge, revoked string, err error) {
	if err := checkDB(r.db); err != nil {
		return nil, "", err
	}
	uid = model.NormalizeUID(uid)
	zonesJSON, err := json.Marshal(zones)
	if err != nil {
		return nil, "", fmt.Errorf("encode zones: %w", err)
	}

	err = inTx(ctx, r.db, func(tx *sql.Tx) error {
		p, err := getPersonnel(ctx, tx, personnelID)
		if err != nil {
			return err
		}
		if p.LinkedBadgeUID != "" && p.LinkedBadgeUID != uid {
			dropped, err := deleteBadge(ctx, tx, p.LinkedBadgeUID)
			if err != nil {
				return classify("drop previous badge", err)
			}
			if dropped {
				revoked = p.LinkedBadgeUID
			}
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE personnel SET linked_badge_uid = '' WHERE linked_badge_uid = ? AND id <> ?`,
			uid, personnelID); err != nil {
			return classify("clear previous holder", err)
		}

		b := model.AuthorizedBadge{
			UID:         uid,
			PersonnelID: p.ID,
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			Department:  p.Department,
			Role:        p.Role,
			Zones:       append([]string(nil), zones...),
			CreatedAt:   time.Now().UTC().Truncate(time.Second),
		}
		if _, err := tx.ExecContext(ctx,
			`REPLACE INTO authorized_badges (`+badgeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			b.UID, b.PersonnelID, b.FirstName, b.LastName, b.Department, b.Role, string(zonesJSON), b.CreatedAt); err != nil {
			return classify("write badge", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE personnel SET linked_badge_uid = ? WHERE id = ?`, uid, p.ID); err != nil {
			return classify("link personnel", err)
		}
		badge = &b
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return badge, revoked, nil
}

// Unlink revokes badge uid: every personnel record pointing at it gets its
// linked badge cleared and the badge row is deleted, in one transaction.
// ErrNotFound is returned when neither the badge nor a back-reference to it
// exists.
func (r *BadgeRepo) Unlink(ctx context.Context, uid string) error {
	if err := checkDB(r.db); err != nil {
		return err
	}
	uid = model.NormalizeUID(uid)
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		cleared, err := tx.ExecContext(ctx, `UPDATE personnel SET linked_badge_uid = '' WHERE linked_badge_uid = ?`, uid)
		if err != nil {
			return classify("clear back-reference", err)
		}
		deleted, err := tx.ExecContext(ctx, `DELETE FROM authorized_badges WHERE uid = ?`, uid)
		if err != nil {
			return classify("delete badge", err)
		}
		nc, _ := cleared.RowsAffected()
		nd, _ := deleted.RowsAffected()
		if nc == 0 && nd == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// deleteBadge removes the badge row for uid and reports whether one existed.
func deleteBadge(ctx context.Context, tx *sql.Tx, uid string) (bool, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM authorized_badges WHERE uid = ?`, uid)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func scanBadge(s scanner, b *model.AuthorizedBadge) error {
	var zones string
	if err := s.Scan(&b.UID, &b.PersonnelID, &b.FirstName, &b.LastName, &b.Department, &b.Role, &zones, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return classify("scan badge", err)
	}
	b.Zones = nil
	if zones != "" {
		if err := json.Unmarshal([]byte(zones), &b.Zones); err != nil {
			return fmt.Errorf("decode zones for %s: %w", b.UID, err)
		}
	}
	return nil
}
