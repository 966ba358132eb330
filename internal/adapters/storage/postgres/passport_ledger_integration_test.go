//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"pet-passport/internal/adapters/storage/ledgertest"
	"pet-passport/internal/domain/passport"
	"pet-passport/internal/testutil/containers"
)

func TestPassportLedgerIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pg := containers.NewPostgresContainer(t)

	db, err := Open(pg.DSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))
	// dos veces: el schema es idempotente
	require.NoError(t, Migrate(ctx, db))

	suite.Run(t, &ledgertest.LedgerSuite{
		NewLedger: func() passport.Ledger {
			truncate(t, db)
			return NewPassportLedger(db)
		},
	})
}

func truncate(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.ExecContext(context.Background(), `TRUNCATE passports`)
	require.NoError(t, err)
}
