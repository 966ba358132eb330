package passport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-passport/internal/platform/logger"
	"pet-passport/internal/platform/metrics"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrAlreadyExists     = errors.New("passport already exists")
	ErrNotFound          = errors.New("passport not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrIndexOutOfRange   = errors.New("record index out of range")
	ErrInvalidRecordKind = errors.New("invalid record kind")
	ErrRecordTooLarge    = errors.New("passport exceeds ledger record size")
)

type Options struct {
	// Capacity por log para pasaportes nuevos. Zero => DefaultLogCapacity.
	Capacity Capacity
	// MaxRecordBytes es el límite duro del ledger. Zero => DefaultMaxRecordBytes.
	MaxRecordBytes int

	OwnerPolicy    OwnerPolicy
	VerifierPolicy VerifierPolicy

	Metrics *metrics.Metrics
	Logger  logger.Logger

	// Now es el reloj del servicio. Nil => time.Now.
	Now func() time.Time
}

type Service struct {
	ledger Ledger
	now    func() time.Time

	capacity       Capacity
	maxRecordBytes int
	ownerPolicy    OwnerPolicy
	verifierPolicy VerifierPolicy

	metrics *metrics.Metrics
	log     logger.Logger
}

func NewService(ledger Ledger, opts Options) *Service {
	s := &Service{
		ledger:         ledger,
		now:            time.Now,
		capacity:       opts.Capacity,
		maxRecordBytes: opts.MaxRecordBytes,
		ownerPolicy:    opts.OwnerPolicy,
		verifierPolicy: opts.VerifierPolicy,
		metrics:        opts.Metrics,
		log:            opts.Logger,
	}
	if s.capacity == (Capacity{}) {
		s.capacity = UniformCapacity(DefaultLogCapacity)
	}
	if s.maxRecordBytes <= 0 {
		s.maxRecordBytes = DefaultMaxRecordBytes
	}
	if s.ownerPolicy == nil {
		s.ownerPolicy = RequireOwner
	}
	if s.verifierPolicy == nil {
		s.verifierPolicy = AnyAuthenticated{}
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}
	if opts.Now != nil {
		s.now = opts.Now
	}
	return s
}

type CreateInput struct {
	// ID opcional; si viene vacío se genera un UUID.
	ID        string
	Name      string
	Species   string
	Breed     string
	BirthDate int64
	Owner     string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (p Passport, err error) {
	defer s.observe("create", time.Now(), &err)

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	if len(id) > MaxIDBytes || strings.ContainsAny(id, "/ ") {
		return Passport{}, fmt.Errorf("%w: id must be 1..%d bytes without spaces or '/'", ErrInvalidInput, MaxIDBytes)
	}

	p = Passport{ID: id, BirthDate: in.BirthDate}
	if p.Name, err = boundedText("name", in.Name, MaxNameBytes, true); err != nil {
		return Passport{}, err
	}
	if p.Species, err = boundedText("species", in.Species, MaxSpeciesBytes, true); err != nil {
		return Passport{}, err
	}
	if p.Breed, err = boundedText("breed", in.Breed, MaxBreedBytes, false); err != nil {
		return Passport{}, err
	}
	if p.Owner, err = boundedText("owner", in.Owner, MaxOwnerBytes, true); err != nil {
		return Passport{}, err
	}

	if err := s.capacity.Validate(); err != nil {
		return Passport{}, err
	}
	if need := MaxEncodedSize(s.capacity); need > s.maxRecordBytes {
		return Passport{}, fmt.Errorf("%w: needs %d bytes, limit %d", ErrRecordTooLarge, need, s.maxRecordBytes)
	}

	p.Capacity = s.capacity
	p.LastUpdated = s.now().Unix()
	// Reservamos el headroom de los logs desde la creación.
	p.Vaccinations = make([]VaccinationRecord, 0, p.Capacity.Vaccinations)
	p.Health = make([]HealthRecord, 0, p.Capacity.Health)
	p.Locations = make([]LocationRecord, 0, p.Capacity.Locations)

	if err := s.ledger.Create(ctx, p); err != nil {
		return Passport{}, err
	}

	s.metrics.IncrementPassportCreated()
	s.log.Info("passport created", map[string]any{"passport_id": p.ID, "owner": p.Owner})
	return p, nil
}

// Get no aplica autorización: cualquiera puede leer.
func (s *Service) Get(ctx context.Context, id string) (p Passport, err error) {
	defer s.observe("read", time.Now(), &err)

	id = strings.TrimSpace(id)
	if id == "" {
		return Passport{}, ErrNotFound
	}
	return s.ledger.Get(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, owner string) ([]Passport, error) {
	owner, err := NormalizeIdentity(owner)
	if err != nil {
		return nil, err
	}
	return s.ledger.ListByOwner(ctx, owner)
}

func (s *Service) TransferOwner(ctx context.Context, id, caller, newOwner string) (err error) {
	defer s.observe("transfer_owner", time.Now(), &err)

	newOwner, err = boundedText("new_owner", newOwner, MaxOwnerBytes, true)
	if err != nil {
		return err
	}

	id = strings.TrimSpace(id)
	caller = canonicalCaller(caller)
	now := s.now().Unix()
	var previous string
	_, err = s.ledger.Update(ctx, id, func(p *Passport) error {
		if err := s.ownerPolicy(*p, caller); err != nil {
			return err
		}
		previous = p.Owner
		p.TransferOwner(newOwner, now)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("passport owner transferred", map[string]any{"passport_id": id, "from": previous, "to": newOwner})
	return nil
}

func (s *Service) AppendVaccination(ctx context.Context, id, caller string, r VaccinationRecord) (err error) {
	defer s.observe("append_vaccination", time.Now(), &err)

	if r, err = r.normalized(); err != nil {
		return err
	}
	return s.appendRecord(ctx, id, caller, func(p *Passport, now int64) error {
		return p.AppendVaccination(r, now)
	})
}

func (s *Service) AppendHealth(ctx context.Context, id, caller string, r HealthRecord) (err error) {
	defer s.observe("append_health", time.Now(), &err)

	if r, err = r.normalized(); err != nil {
		return err
	}
	return s.appendRecord(ctx, id, caller, func(p *Passport, now int64) error {
		return p.AppendHealth(r, now)
	})
}

func (s *Service) AppendLocation(ctx context.Context, id, caller string, r LocationRecord) (err error) {
	defer s.observe("append_location", time.Now(), &err)

	if r, err = r.normalized(); err != nil {
		return err
	}
	return s.appendRecord(ctx, id, caller, func(p *Passport, now int64) error {
		return p.AppendLocation(r, now)
	})
}

// appendRecord: owner policy y capacidad se evalúan dentro de la misma transacción del ledger.
func (s *Service) appendRecord(ctx context.Context, id, caller string, apply func(p *Passport, now int64) error) error {
	caller = canonicalCaller(caller)
	now := s.now().Unix()
	_, err := s.ledger.Update(ctx, strings.TrimSpace(id), func(p *Passport) error {
		if err := s.ownerPolicy(*p, caller); err != nil {
			return err
		}
		return apply(p, now)
	})
	return err
}

// Verify marca una entrada de vaccination/health como verificada.
//
// Orden de chequeos: NotFound, Unauthorized (verifier policy), InvalidRecordKind, IndexOutOfRange.
// La policy puede ser remota, por eso se consulta fuera de la transacción del ledger.
func (s *Service) Verify(ctx context.Context, id, caller, kind string, index int) (err error) {
	defer s.observe("verify", time.Now(), &err)

	id = strings.TrimSpace(id)
	if _, err := s.ledger.Get(ctx, id); err != nil {
		return err
	}

	caller = canonicalCaller(caller)
	ok, err := s.verifierPolicy.CanVerify(ctx, caller)
	if err != nil {
		return fmt.Errorf("verifier policy: %w", err)
	}
	if !ok {
		return ErrUnauthorized
	}

	k, err := ParseVerifiableKind(kind)
	if err != nil {
		return err
	}

	now := s.now().Unix()
	changed := false
	_, err = s.ledger.Update(ctx, id, func(p *Passport) error {
		var err error
		changed, err = p.Verify(k, index, now)
		return err
	})
	if err != nil {
		return err
	}

	if changed {
		s.metrics.IncrementVerified(string(k))
		s.log.Info("passport record verified", map[string]any{
			"passport_id": id, "kind": string(k), "index": index, "verifier": caller,
		})
	}
	return nil
}

// DueVaccinations lista vacunas con next_due_date <= asOf.
func (s *Service) DueVaccinations(ctx context.Context, id string, asOf time.Time) ([]DueVaccination, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.DueVaccinations(asOf.Unix()), nil
}

func (s *Service) observe(op string, start time.Time, err *error) {
	s.metrics.Observe(op, Outcome(*err), start)
}

// Outcome traduce el error a un label estable para métricas y logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrIndexOutOfRange):
		return "index_out_of_range"
	case errors.Is(err, ErrInvalidRecordKind):
		return "invalid_record_kind"
	case errors.Is(err, ErrRecordTooLarge):
		return "record_too_large"
	default:
		return "error"
	}
}
