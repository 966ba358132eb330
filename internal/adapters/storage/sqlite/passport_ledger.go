package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pet-passport/internal/adapters/storage/wire"
	"pet-passport/internal/domain/passport"
)

// PassportLedger es el ledger local (archivo). Es el default del CLI.
type PassportLedger struct {
	db *sql.DB
}

func NewPassportLedger(db *sql.DB) *PassportLedger {
	return &PassportLedger{db: db}
}

func (l *PassportLedger) Create(ctx context.Context, p passport.Passport) error {
	b, err := wire.Encode(p)
	if err != nil {
		return err
	}

	res, err := l.db.ExecContext(ctx, `
		INSERT INTO passports (id, owner, format_version, last_updated, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, p.ID, p.Owner, int(wire.Version), p.LastUpdated, b)
	if err != nil {
		return fmt.Errorf("sqlite create passport: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return passport.ErrAlreadyExists
	}
	return nil
}

func (l *PassportLedger) Get(ctx context.Context, id string) (passport.Passport, error) {
	return l.get(ctx, l.db, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (l *PassportLedger) get(ctx context.Context, q queryer, id string) (passport.Passport, error) {
	var b []byte
	err := q.QueryRowContext(ctx, `SELECT data FROM passports WHERE id = ?`, id).Scan(&b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return passport.Passport{}, passport.ErrNotFound
		}
		return passport.Passport{}, fmt.Errorf("sqlite get passport: %w", err)
	}
	return wire.Decode(id, b)
}

func (l *PassportLedger) Update(ctx context.Context, id string, fn func(p *passport.Passport) error) (passport.Passport, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return passport.Passport{}, fmt.Errorf("begin passport tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	p, err := l.get(ctx, tx, id)
	if err != nil {
		return passport.Passport{}, err
	}
	if err := fn(&p); err != nil {
		return passport.Passport{}, err
	}

	b, err := wire.Encode(p)
	if err != nil {
		return passport.Passport{}, err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE passports
		SET owner = ?, format_version = ?, last_updated = ?, data = ?
		WHERE id = ?
	`, p.Owner, int(wire.Version), p.LastUpdated, b, id); err != nil {
		return passport.Passport{}, fmt.Errorf("sqlite update passport: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return passport.Passport{}, fmt.Errorf("commit passport tx: %w", err)
	}
	return p, nil
}

func (l *PassportLedger) ListByOwner(ctx context.Context, owner string) ([]passport.Passport, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, data FROM passports WHERE owner = ? ORDER BY id ASC
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("sqlite list passports: %w", err)
	}
	defer rows.Close()

	out := make([]passport.Passport, 0)
	for rows.Next() {
		var (
			id string
			b  []byte
		)
		if err := rows.Scan(&id, &b); err != nil {
			return nil, err
		}
		p, err := wire.Decode(id, b)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
