// Package repository is the hand-written data-access layer for the claim
// graph. It replaces the teacher's ent-generated client with direct SQL
// over database/sql (pgx driver), grounded in the same connection the
// database package already configures.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound is returned by single-row lookups that find nothing.
var ErrNotFound = errors.New("repository: not found")

// Repository is the single data-access entry point injected into every
// pipeline operator and the claim extractor. Each exported method opens
// its own transaction when it needs atomicity; callers never see *sql.Tx.
type Repository struct {
	db *sql.DB
}

// New wraps an open *sql.DB.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on any error or panic.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
