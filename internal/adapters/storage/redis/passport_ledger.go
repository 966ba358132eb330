package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"pet-passport/internal/adapters/storage/wire"
	"pet-passport/internal/domain/passport"
)

// DefaultMaxRetries acota los reintentos cuando WATCH detecta una escritura concurrente.
const DefaultMaxRetries = 16

var ErrTooManyConflicts = errors.New("redis: passport update kept conflicting")

// PassportLedger guarda cada pasaporte en "<prefix>passport:<id>" y mantiene
// un set por owner en "<prefix>owner:<owner>" para ListByOwner.
//
// Update usa WATCH/MULTI: si otra escritura toca la key entre la lectura y el EXEC,
// la transacción falla y se reintenta sobre el estado nuevo.
type PassportLedger struct {
	client     redis.UniversalClient
	prefix     string
	maxRetries int
}

func NewPassportLedger(client redis.UniversalClient, prefix string) *PassportLedger {
	return &PassportLedger{
		client:     client,
		prefix:     prefix,
		maxRetries: DefaultMaxRetries,
	}
}

func (l *PassportLedger) passportKey(id string) string { return l.prefix + "passport:" + id }
func (l *PassportLedger) ownerKey(owner string) string { return l.prefix + "owner:" + owner }

func (l *PassportLedger) Create(ctx context.Context, p passport.Passport) error {
	b, err := wire.Encode(p)
	if err != nil {
		return err
	}
	key := l.passportKey(p.ID)

	return l.withRetry(ctx, key, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return passport.ErrAlreadyExists
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, 0)
			pipe.SAdd(ctx, l.ownerKey(p.Owner), p.ID)
			return nil
		})
		return err
	})
}

func (l *PassportLedger) Get(ctx context.Context, id string) (passport.Passport, error) {
	return l.get(ctx, l.client, id)
}

func (l *PassportLedger) get(ctx context.Context, c redis.Cmdable, id string) (passport.Passport, error) {
	b, err := c.Get(ctx, l.passportKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return passport.Passport{}, passport.ErrNotFound
		}
		return passport.Passport{}, fmt.Errorf("redis get passport: %w", err)
	}
	return wire.Decode(id, b)
}

func (l *PassportLedger) Update(ctx context.Context, id string, fn func(p *passport.Passport) error) (passport.Passport, error) {
	key := l.passportKey(id)

	var out passport.Passport
	err := l.withRetry(ctx, key, func(tx *redis.Tx) error {
		p, err := l.get(ctx, tx, id)
		if err != nil {
			return err
		}
		previousOwner := p.Owner

		if err := fn(&p); err != nil {
			return err
		}

		b, err := wire.Encode(p)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, 0)
			if p.Owner != previousOwner {
				pipe.SRem(ctx, l.ownerKey(previousOwner), id)
				pipe.SAdd(ctx, l.ownerKey(p.Owner), id)
			}
			return nil
		})
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return passport.Passport{}, err
	}
	return out, nil
}

func (l *PassportLedger) ListByOwner(ctx context.Context, owner string) ([]passport.Passport, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, nil
	}

	ids, err := l.client.SMembers(ctx, l.ownerKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list passports: %w", err)
	}
	sort.Strings(ids)

	out := make([]passport.Passport, 0, len(ids))
	for _, id := range ids {
		p, err := l.Get(ctx, id)
		if errors.Is(err, passport.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		// El set puede quedar desfasado un instante respecto al owner real.
		if p.Owner != owner {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// withRetry corre fn bajo WATCH key. redis.TxFailedErr = conflicto, se reintenta.
func (l *PassportLedger) withRetry(ctx context.Context, key string, fn func(tx *redis.Tx) error) error {
	for i := 0; i < l.maxRetries; i++ {
		err := l.client.Watch(ctx, fn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrTooManyConflicts
}
