package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"pet-passport/internal/adapters/storage/wire"
	"pet-passport/internal/domain/passport"
)

// passportLedger guarda cada pasaporte ya serializado con el layout de wire,
// así los snapshots nunca comparten memoria con quien los lee.
type passportLedger struct {
	mu   sync.RWMutex
	byID map[string][]byte

	// un lock por identificador: serializa read-modify-write del mismo pasaporte
	// sin bloquear a los demás.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewPassportLedger() passport.Ledger {
	return &passportLedger{
		byID:  make(map[string][]byte),
		locks: make(map[string]*sync.Mutex),
	}
}

func (l *passportLedger) Create(ctx context.Context, p passport.Passport) error {
	if strings.TrimSpace(p.ID) == "" {
		return passport.ErrInvalidInput
	}
	b, err := wire.Encode(p)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.byID[p.ID]; exists {
		return passport.ErrAlreadyExists
	}
	l.byID[p.ID] = b
	return nil
}

func (l *passportLedger) Get(ctx context.Context, id string) (passport.Passport, error) {
	l.mu.RLock()
	b, ok := l.byID[id]
	l.mu.RUnlock()

	if !ok {
		return passport.Passport{}, passport.ErrNotFound
	}
	return wire.Decode(id, b)
}

func (l *passportLedger) Update(ctx context.Context, id string, fn func(p *passport.Passport) error) (passport.Passport, error) {
	lock := l.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	p, err := l.Get(ctx, id)
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

	l.mu.Lock()
	l.byID[id] = b
	l.mu.Unlock()

	return p, nil
}

func (l *passportLedger) ListByOwner(ctx context.Context, owner string) ([]passport.Passport, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]passport.Passport, 0)
	for id, b := range l.byID {
		p, err := wire.Decode(id, b)
		if err != nil {
			return nil, err
		}
		if p.Owner == owner {
			out = append(out, p)
		}
	}

	// Orden estable por id (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (l *passportLedger) lockFor(id string) *sync.Mutex {
	l.locksMu.Lock()
	defer l.locksMu.Unlock()

	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}
