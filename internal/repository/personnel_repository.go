// Package repository contains data access logic separated from HTTP handlers.
// This file holds the personnel queries. The linked badge column is only
// ever written by BadgeRepo.Link/Unlink and PersonnelRepo.Delete so the
// personnel ↔ badge pairing stays consistent.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/door-access-admin/internal/model"
)

const personnelColumns = `id, first_name, last_name, department, role, email, phone, address, linked_badge_uid, created_at`

// PersonnelRepo encapsulates all database queries related to personnel.
type PersonnelRepo struct {
	db *sql.DB // db is the underlying database connection pool; nil when the store is down
}

// NewPersonnelRepo constructs a PersonnelRepo with the provided DB handle.
func NewPersonnelRepo(db *sql.DB) *PersonnelRepo {
	return &PersonnelRepo{db: db}
}

// Create inserts a new personnel record. A fresh UUID is assigned to p.ID
// and the linked badge is forced empty: badges are attached only through
// BadgeRepo.Link.
func (r *PersonnelRepo) Create(ctx context.Context, p *model.Personnel) error {
	if err := checkDB(r.db); err != nil {
		return err
	}
	p.ID = uuid.NewString()
	p.LinkedBadgeUID = ""
	p.CreatedAt = time.Now().UTC().Truncate(time.Second)

	const q = `INSERT INTO personnel (` + personnelColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.FirstName, p.LastName, p.Department, p.Role,
		p.Email, p.Phone, p.Address, p.LinkedBadgeUID, p.CreatedAt)
	return classify("insert personnel", err)
}

// GetByID fetches one personnel record. It returns ErrNotFound if no row
// matches.
func (r *PersonnelRepo) GetByID(ctx context.Context, id string) (*model.Personnel, error) {
	if err := checkDB(r.db); err != nil {
		return nil, err
	}
	return getPersonnel(ctx, r.db, id)
}

// List returns all personnel ordered by creation time.
func (r *PersonnelRepo) List(ctx context.Context) ([]model.Personnel, error) {
	if err := checkDB(r.db); err != nil {
		return nil, err
	}
	const q = `SELECT ` + personnelColumns + ` FROM personnel ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, classify("list personnel", err)
	}
	defer rows.Close()

	var out []model.Personnel
	for rows.Next() {
		var p model.Personnel
		if err := scanPersonnel(rows, &p); err != nil {
			return nil, classify("scan personnel", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list personnel", err)
	}
	return out, nil
}

// Delete removes a personnel record together with its authorized badge, if
// any, inside one transaction so no badge is left without an owner. The uid
// of the removed badge is returned, or "" when the person held none.
func (r *PersonnelRepo) Delete(ctx context.Context, id string) (revoked string, err error) {
	if err := checkDB(r.db); err != nil {
		return "", err
	}
	err = inTx(ctx, r.db, func(tx *sql.Tx) error {
		p, err := getPersonnel(ctx, tx, id)
		if err != nil {
			return err
		}
		if p.LinkedBadgeUID != "" {
			dropped, err := deleteBadge(ctx, tx, p.LinkedBadgeUID)
			if err != nil {
				return classify("delete linked badge", err)
			}
			if dropped {
				revoked = p.LinkedBadgeUID
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM personnel WHERE id = ?`, id); err != nil {
			return classify("delete personnel", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return revoked, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func getPersonnel(ctx context.Context, q querier, id string) (*model.Personnel, error) {
	const stmt = `SELECT ` + personnelColumns + ` FROM personnel WHERE id = ?`
	var p model.Personnel
	if err := scanPersonnel(q.QueryRowContext(ctx, stmt, id), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classify("get personnel", err)
	}
	return &p, nil
}

func scanPersonnel(s scanner, p *model.Personnel) error {
	return s.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Department, &p.Role,
		&p.Email, &p.Phone, &p.Address, &p.LinkedBadgeUID, &p.CreatedAt)
}
