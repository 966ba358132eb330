package memory

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"pet-passport/internal/adapters/storage/ledgertest"
	"pet-passport/internal/domain/passport"
)

func TestPassportLedgerSuite(t *testing.T) {
	suite.Run(t, &ledgertest.LedgerSuite{NewLedger: NewPassportLedger})
}

func TestPassportLedger_RejectsEmptyID(t *testing.T) {
	l := NewPassportLedger()
	err := l.Create(t.Context(), passport.Passport{Capacity: passport.UniformCapacity(1)})
	if err == nil {
		t.Fatalf("expected error for empty id")
	}
}
