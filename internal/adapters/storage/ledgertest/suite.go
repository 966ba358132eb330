// Package ledgertest es el contrato que cumple toda implementación de passport.Ledger.
package ledgertest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/stretchr/testify/suite"

	"pet-passport/internal/domain/passport"
)

// LedgerSuite corre el contrato contra el ledger que devuelva NewLedger (uno limpio por test).
type LedgerSuite struct {
	suite.Suite
	NewLedger func() passport.Ledger

	ledger passport.Ledger
}

func (s *LedgerSuite) SetupTest() {
	s.Require().NotNil(s.NewLedger, "NewLedger is required")
	s.ledger = s.NewLedger()
}

func rex(id, owner string) passport.Passport {
	c := passport.UniformCapacity(3)
	return passport.Passport{
		ID:           id,
		Name:         "Rex",
		Species:      "Dog",
		Breed:        "Labrador",
		BirthDate:    -86400, // anterior a 1970
		Owner:        owner,
		LastUpdated:  1700000000,
		Capacity:     c,
		Vaccinations: make([]passport.VaccinationRecord, 0, c.Vaccinations),
		Health:       make([]passport.HealthRecord, 0, c.Health),
		Locations:    make([]passport.LocationRecord, 0, c.Locations),
	}
}

func (s *LedgerSuite) TestCreateAndGet() {
	ctx := context.Background()
	s.Require().NoError(s.ledger.Create(ctx, rex("rex-1", "owner-a")))

	got, err := s.ledger.Get(ctx, "rex-1")
	s.Require().NoError(err)
	s.Equal("rex-1", got.ID)
	s.Equal("owner-a", got.Owner)
	s.Equal(int64(-86400), got.BirthDate)
	s.Equal(passport.UniformCapacity(3), got.Capacity)
	s.Empty(got.Vaccinations)
}

func (s *LedgerSuite) TestCreateDuplicate() {
	ctx := context.Background()
	s.Require().NoError(s.ledger.Create(ctx, rex("rex-1", "owner-a")))

	err := s.ledger.Create(ctx, rex("rex-1", "owner-b"))
	s.ErrorIs(err, passport.ErrAlreadyExists)

	got, err := s.ledger.Get(ctx, "rex-1")
	s.Require().NoError(err)
	s.Equal("owner-a", got.Owner)
}

func (s *LedgerSuite) TestGetMissing() {
	_, err := s.ledger.Get(context.Background(), "missing")
	s.ErrorIs(err, passport.ErrNotFound)

	_, err = s.ledger.Update(context.Background(), "missing", func(*passport.Passport) error { return nil })
	s.ErrorIs(err, passport.ErrNotFound)
}

func (s *LedgerSuite) TestUpdatePersists() {
	ctx := context.Background()
	s.Require().NoError(s.ledger.Create(ctx, rex("rex-1", "owner-a")))

	out, err := s.ledger.Update(ctx, "rex-1", func(p *passport.Passport) error {
		if err := p.AppendVaccination(passport.VaccinationRecord{VaccineName: "Rabies", NextDueDate: 1}, 1700000100); err != nil {
			return err
		}
		_, err := p.Verify(passport.KindVaccination, 0, 1700000200)
		return err
	})
	s.Require().NoError(err)
	s.Len(out.Vaccinations, 1)

	got, err := s.ledger.Get(ctx, "rex-1")
	s.Require().NoError(err)
	s.Require().Len(got.Vaccinations, 1)
	s.True(got.Vaccinations[0].Verified)
	s.Equal(int64(1700000200), got.LastUpdated)
}

func (s *LedgerSuite) TestUpdateErrorDiscardsChanges() {
	ctx := context.Background()
	s.Require().NoError(s.ledger.Create(ctx, rex("rex-1", "owner-a")))

	boom := errors.New("boom")
	_, err := s.ledger.Update(ctx, "rex-1", func(p *passport.Passport) error {
		p.TransferOwner("owner-z", 1800000000)
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.ledger.Get(ctx, "rex-1")
	s.Require().NoError(err)
	s.Equal("owner-a", got.Owner)
	s.Equal(int64(1700000000), got.LastUpdated)
}

func (s *LedgerSuite) TestSnapshotsAreIsolated() {
	ctx := context.Background()
	s.Require().NoError(s.ledger.Create(ctx, rex("rex-1", "owner-a")))
	_, err := s.ledger.Update(ctx, "rex-1", func(p *passport.Passport) error {
		return p.AppendHealth(passport.HealthRecord{RecordType: "Checkup"}, 1700000100)
	})
	s.Require().NoError(err)

	snap, err := s.ledger.Get(ctx, "rex-1")
	s.Require().NoError(err)
	snap.Health[0].Verified = true
	snap.Owner = "mutated"

	got, err := s.ledger.Get(ctx, "rex-1")
	s.Require().NoError(err)
	s.False(got.Health[0].Verified)
	s.Equal("owner-a", got.Owner)
}

func (s *LedgerSuite) TestListByOwnerFollowsTransfers() {
	ctx := context.Background()
	s.Require().NoError(s.ledger.Create(ctx, rex("b-2", "owner-a")))
	s.Require().NoError(s.ledger.Create(ctx, rex("a-1", "owner-a")))
	s.Require().NoError(s.ledger.Create(ctx, rex("c-3", "owner-b")))

	list, err := s.ledger.ListByOwner(ctx, "owner-a")
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("a-1", list[0].ID)
	s.Equal("b-2", list[1].ID)

	_, err = s.ledger.Update(ctx, "a-1", func(p *passport.Passport) error {
		p.TransferOwner("owner-b", 1700000100)
		return nil
	})
	s.Require().NoError(err)

	list, err = s.ledger.ListByOwner(ctx, "owner-a")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("b-2", list[0].ID)

	list, err = s.ledger.ListByOwner(ctx, "owner-b")
	s.Require().NoError(err)
	s.Len(list, 2)

	list, err = s.ledger.ListByOwner(ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(list)
}

// TestConcurrentAppendsNeverExceedCapacity: N appends en paralelo sobre capacidad 3.
func (s *LedgerSuite) TestConcurrentAppendsNeverExceedCapacity() {
	ctx := context.Background()
	s.Require().NoError(s.ledger.Create(ctx, rex("rex-1", "owner-a")))

	const goroutines = 12
	var (
		wg       sync.WaitGroup
		ok, full atomic.Int32
	)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ledger.Update(ctx, "rex-1", func(p *passport.Passport) error {
				return p.AppendLocation(passport.LocationRecord{Location: "X", EventType: "Travel"}, 1700000100)
			})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, passport.ErrCapacityExceeded):
				full.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(3), ok.Load())
	s.Equal(int32(goroutines-3), full.Load())

	got, err := s.ledger.Get(ctx, "rex-1")
	s.Require().NoError(err)
	s.Len(got.Locations, 3)
}
