package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"pet-passport/internal/domain/passport"
)

const (
	LedgerMemory   = "memory"
	LedgerPostgres = "postgres"
	LedgerSQLite   = "sqlite"
	LedgerRedis    = "redis"

	AuthDev  = "dev"  // X-Debug-User-ID
	AuthJWT  = "jwt"  // HS256 con secreto compartido
	AuthOdin = "odin" // verificación remota

	VerifierAny    = "any"    // cualquier identidad autenticada
	VerifierStatic = "static" // allowlist en config
	VerifierPlans  = "plans"  // capability passport:verify en plans-features
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Passport  PassportConfig  `yaml:"passport"`
	Auth      AuthConfig      `yaml:"auth"`
	Verifiers VerifiersConfig `yaml:"verifiers"`
}

type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	App    string `yaml:"app"`
}

type LedgerConfig struct {
	Driver         string `yaml:"driver"`
	DSN            string `yaml:"dsn"`
	SQLitePath     string `yaml:"sqlite_path"`
	RedisURL       string `yaml:"redis_url"`
	RedisPrefix    string `yaml:"redis_prefix"`
	MaxRecordBytes int    `yaml:"max_record_bytes"`
}

type PassportConfig struct {
	LogCapacity int `yaml:"log_capacity"`
}

type AuthConfig struct {
	Mode        string        `yaml:"mode"`
	JWTSecret   string        `yaml:"jwt_secret"`
	JWTIssuer   string        `yaml:"jwt_issuer"`
	OdinBaseURL string        `yaml:"odin_base_url"`
	OdinAPIKey  string        `yaml:"odin_api_key"`
	OdinTimeout time.Duration `yaml:"odin_timeout"`
}

type VerifiersConfig struct {
	Policy       string        `yaml:"policy"`
	Allowlist    []string      `yaml:"allowlist"`
	PlansBaseURL string        `yaml:"plans_base_url"`
	PlansAPIKey  string        `yaml:"plans_api_key"`
	PlansTimeout time.Duration `yaml:"plans_timeout"`
	// AllowAll responde true sin consultar plans-features (solo dev).
	AllowAll bool `yaml:"allow_all"`
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "text", App: "pet-passport"},
		Ledger: LedgerConfig{
			Driver:         LedgerMemory,
			SQLitePath:     "passports.db",
			RedisPrefix:    "pet-passport:",
			MaxRecordBytes: passport.DefaultMaxRecordBytes,
		},
		Passport:  PassportConfig{LogCapacity: passport.DefaultLogCapacity},
		Auth:      AuthConfig{Mode: AuthDev, OdinTimeout: 5 * time.Second},
		Verifiers: VerifiersConfig{Policy: VerifierAny, PlansTimeout: 5 * time.Second},
	}
}

// Load parte de Default, aplica el archivo YAML (si path no está vacío) y luego env.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv mantiene los nombres de env que ya usaba el servicio (PORT, DB_DSN, LOG_*).
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup("PORT"); ok && strings.TrimSpace(v) != "" {
		cfg.HTTP.Addr = ":" + strings.TrimSpace(v)
	}
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("APP_NAME", &cfg.Log.App)

	str("LEDGER_DRIVER", &cfg.Ledger.Driver)
	str("DB_DSN", &cfg.Ledger.DSN)
	str("SQLITE_PATH", &cfg.Ledger.SQLitePath)
	str("REDIS_URL", &cfg.Ledger.RedisURL)
	// DB_DSN sin driver explícito => postgres, como antes.
	if _, ok := lookup("LEDGER_DRIVER"); !ok && cfg.Ledger.DSN != "" && cfg.Ledger.Driver == LedgerMemory {
		cfg.Ledger.Driver = LedgerPostgres
	}

	if v, ok := lookup("PASSPORT_LOG_CAPACITY"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("PASSPORT_LOG_CAPACITY: %w", err)
		}
		cfg.Passport.LogCapacity = n
	}
	if v, ok := lookup("LEDGER_MAX_RECORD_BYTES"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("LEDGER_MAX_RECORD_BYTES: %w", err)
		}
		cfg.Ledger.MaxRecordBytes = n
	}

	str("AUTH_MODE", &cfg.Auth.Mode)
	str("JWT_SECRET", &cfg.Auth.JWTSecret)
	str("JWT_ISSUER", &cfg.Auth.JWTIssuer)
	str("ODIN_BASE_URL", &cfg.Auth.OdinBaseURL)
	str("ODIN_API_KEY", &cfg.Auth.OdinAPIKey)

	str("VERIFIER_POLICY", &cfg.Verifiers.Policy)
	if v, ok := lookup("VERIFIERS"); ok && strings.TrimSpace(v) != "" {
		cfg.Verifiers.Allowlist = splitList(v)
	}
	str("PLANS_BASE_URL", &cfg.Verifiers.PlansBaseURL)
	str("PLANS_API_KEY", &cfg.Verifiers.PlansAPIKey)
	if v, ok := lookup("ALLOW_ALL_CAPABILITIES"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("ALLOW_ALL_CAPABILITIES: %w", err)
		}
		cfg.Verifiers.AllowAll = b
	}

	return nil
}

func (c Config) Validate() error {
	switch c.Ledger.Driver {
	case LedgerMemory:
	case LedgerPostgres:
		if c.Ledger.DSN == "" {
			return fmt.Errorf("ledger.dsn is required for driver %q", c.Ledger.Driver)
		}
	case LedgerSQLite:
		if c.Ledger.SQLitePath == "" {
			return fmt.Errorf("ledger.sqlite_path is required for driver %q", c.Ledger.Driver)
		}
	case LedgerRedis:
		if c.Ledger.RedisURL == "" {
			return fmt.Errorf("ledger.redis_url is required for driver %q", c.Ledger.Driver)
		}
	default:
		return fmt.Errorf("unknown ledger driver %q", c.Ledger.Driver)
	}

	if err := passport.UniformCapacity(c.Passport.LogCapacity).Validate(); err != nil {
		return fmt.Errorf("passport.log_capacity: %w", err)
	}
	if need := passport.MaxEncodedSize(passport.UniformCapacity(c.Passport.LogCapacity)); need > c.Ledger.MaxRecordBytes {
		return fmt.Errorf("passport.log_capacity %d needs %d bytes, ledger.max_record_bytes is %d",
			c.Passport.LogCapacity, need, c.Ledger.MaxRecordBytes)
	}

	switch c.Auth.Mode {
	case AuthDev:
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required for mode %q", c.Auth.Mode)
		}
	case AuthOdin:
		if c.Auth.OdinBaseURL == "" || c.Auth.OdinAPIKey == "" {
			return fmt.Errorf("auth.odin_base_url and auth.odin_api_key are required for mode %q", c.Auth.Mode)
		}
	default:
		return fmt.Errorf("unknown auth mode %q", c.Auth.Mode)
	}

	switch c.Verifiers.Policy {
	case VerifierAny:
	case VerifierStatic:
		if len(c.Verifiers.Allowlist) == 0 {
			return fmt.Errorf("verifiers.allowlist must not be empty for policy %q", c.Verifiers.Policy)
		}
	case VerifierPlans:
		if !c.Verifiers.AllowAll && (c.Verifiers.PlansBaseURL == "" || c.Verifiers.PlansAPIKey == "") {
			return fmt.Errorf("verifiers.plans_base_url and verifiers.plans_api_key are required for policy %q", c.Verifiers.Policy)
		}
	default:
		return fmt.Errorf("unknown verifier policy %q", c.Verifiers.Policy)
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
