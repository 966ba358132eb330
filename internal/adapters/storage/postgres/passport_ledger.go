package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pet-passport/internal/adapters/storage/wire"
	"pet-passport/internal/domain/passport"
)

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

	// ON CONFLICT DO NOTHING: si no insertó filas es porque el id ya existe.
	res, err := l.db.ExecContext(ctx, `
		INSERT INTO passports (id, owner, format_version, last_updated, data)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO NOTHING
	`,
		p.ID,
		p.Owner,
		int(wire.Version),
		p.LastUpdated,
		b,
	)
	if err != nil {
		return fmt.Errorf("postgres create passport: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return passport.ErrAlreadyExists
	}
	return nil
}

func (l *PassportLedger) Get(ctx context.Context, id string) (passport.Passport, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return passport.Passport{}, passport.ErrNotFound
	}

	var b []byte
	err := l.db.QueryRowContext(ctx, `SELECT data FROM passports WHERE id = $1`, id).Scan(&b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return passport.Passport{}, passport.ErrNotFound
		}
		return passport.Passport{}, fmt.Errorf("postgres get passport: %w", err)
	}
	return wire.Decode(id, b)
}

// Update toma el row lock con SELECT ... FOR UPDATE, así dos mutaciones del mismo
// pasaporte no intercalan lectura y escritura.
func (l *PassportLedger) Update(ctx context.Context, id string, fn func(p *passport.Passport) error) (passport.Passport, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return passport.Passport{}, fmt.Errorf("begin passport tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var b []byte
	err = tx.QueryRowContext(ctx, `SELECT data FROM passports WHERE id = $1 FOR UPDATE`, id).Scan(&b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return passport.Passport{}, passport.ErrNotFound
		}
		return passport.Passport{}, fmt.Errorf("postgres lock passport: %w", err)
	}

	p, err := wire.Decode(id, b)
	if err != nil {
		return passport.Passport{}, err
	}
	if err := fn(&p); err != nil {
		return passport.Passport{}, err
	}

	out, err := wire.Encode(p)
	if err != nil {
		return passport.Passport{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE passports
		SET
			owner = $2,
			format_version = $3,
			last_updated = $4,
			data = $5
		WHERE id = $1
	`,
		id,
		p.Owner,
		int(wire.Version),
		p.LastUpdated,
		out,
	)
	if err != nil {
		return passport.Passport{}, fmt.Errorf("postgres update passport: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return passport.Passport{}, fmt.Errorf("commit passport tx: %w", err)
	}
	return p, nil
}

func (l *PassportLedger) ListByOwner(ctx context.Context, owner string) ([]passport.Passport, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, nil
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, data
		FROM passports
		WHERE owner = $1
		ORDER BY id ASC
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("postgres list passports: %w", err)
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
