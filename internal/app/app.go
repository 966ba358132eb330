// Package app arma las dependencias del servicio y del CLI a partir de config.Config.
package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	jwtauth "pet-passport/internal/adapters/auth/jwt"
	"pet-passport/internal/adapters/auth/odin"
	"pet-passport/internal/adapters/capabilities/plansfeatures"
	"pet-passport/internal/adapters/storage/memory"
	pg "pet-passport/internal/adapters/storage/postgres"
	rds "pet-passport/internal/adapters/storage/redis"
	"pet-passport/internal/adapters/storage/sqlite"
	"pet-passport/internal/config"
	"pet-passport/internal/domain/passport"
	"pet-passport/internal/platform/logger"
	"pet-passport/internal/platform/metrics"
	"pet-passport/internal/ports/auth"
)

// CloseFunc libera la conexión del ledger. Nunca es nil.
type CloseFunc func() error

func noopClose() error { return nil }

// OpenLedger abre el backend configurado. Postgres aplica el schema al abrir.
func OpenLedger(ctx context.Context, cfg config.LedgerConfig) (passport.Ledger, CloseFunc, error) {
	switch cfg.Driver {
	case config.LedgerMemory, "":
		return memory.NewPassportLedger(), noopClose, nil

	case config.LedgerPostgres:
		db, err := pg.Open(cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := pg.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return pg.NewPassportLedger(db), db.Close, nil

	case config.LedgerSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return sqlite.NewPassportLedger(db), db.Close, nil

	case config.LedgerRedis:
		opts, err := goredis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := goredis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return rds.NewPassportLedger(client, cfg.RedisPrefix), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown ledger driver %q", cfg.Driver)
	}
}

// NewAuthVerifier devuelve nil en modo dev: el middleware acepta X-Debug-User-ID.
func NewAuthVerifier(cfg config.AuthConfig) (auth.AuthVerifier, error) {
	switch cfg.Mode {
	case config.AuthDev, "":
		return nil, nil
	case config.AuthJWT:
		v, err := jwtauth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
		if err != nil {
			return nil, err
		}
		return v, nil
	case config.AuthOdin:
		client, err := odin.NewClient(odin.Config{
			BaseURL: cfg.OdinBaseURL,
			APIKey:  cfg.OdinAPIKey,
			Timeout: cfg.OdinTimeout,
		})
		if err != nil {
			return nil, err
		}
		return odin.NewVerifier(client), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

func NewVerifierPolicy(cfg config.VerifiersConfig) (passport.VerifierPolicy, error) {
	switch cfg.Policy {
	case config.VerifierAny, "":
		return passport.AnyAuthenticated{}, nil
	case config.VerifierStatic:
		return passport.RegistryPolicy{Registry: passport.NewStaticRegistry(cfg.Allowlist...)}, nil
	case config.VerifierPlans:
		client, err := plansfeatures.NewClient(plansfeatures.Config{
			BaseURL: cfg.PlansBaseURL,
			APIKey:  cfg.PlansAPIKey,
			Timeout: cfg.PlansTimeout,
		})
		if err != nil {
			return nil, err
		}
		resolver := plansfeatures.NewResolver(client, cfg.AllowAll)
		return passport.RegistryPolicy{Registry: plansfeatures.VerifierRegistry{Resolver: resolver}}, nil
	default:
		return nil, fmt.Errorf("unknown verifier policy %q", cfg.Policy)
	}
}

// ServiceOptions traduce config a passport.Options.
func ServiceOptions(cfg config.Config, m *metrics.Metrics, log logger.Logger) (passport.Options, error) {
	policy, err := NewVerifierPolicy(cfg.Verifiers)
	if err != nil {
		return passport.Options{}, err
	}
	return passport.Options{
		Capacity:       passport.UniformCapacity(cfg.Passport.LogCapacity),
		MaxRecordBytes: cfg.Ledger.MaxRecordBytes,
		OwnerPolicy:    passport.RequireOwner,
		VerifierPolicy: policy,
		Metrics:        m,
		Logger:         log,
	}, nil
}
