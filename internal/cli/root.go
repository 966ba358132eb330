package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pet-passport/internal/app"
	"pet-passport/internal/config"
	"pet-passport/internal/domain/passport"
	"pet-passport/internal/platform/logger"
)

// RootOptions son los flags globales de passportctl.
type RootOptions struct {
	Format string // "text" | "json"
	Config string
	DB     string // path SQLite; pisa ledger.driver
	As     string // identidad del caller
}

// ValidFormats son los formatos de salida aceptados.
var ValidFormats = []string{"text", "json"}

// Deps permite inyectar el servicio en tests.
type Deps struct {
	OpenService func(ctx context.Context, opts *RootOptions) (*passport.Service, func() error, error)
	LoadConfig  func(opts *RootOptions) (config.Config, error)
}

// DefaultDeps abre el ledger configurado. Sin driver explícito usa SQLite local.
func DefaultDeps() Deps {
	return Deps{
		OpenService: openService,
		LoadConfig:  loadConfig,
	}
}

func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return cfg, err
	}
	if opts.DB != "" {
		cfg.Ledger.Driver = config.LedgerSQLite
		cfg.Ledger.SQLitePath = opts.DB
	}
	// memory no tiene sentido entre invocaciones del CLI
	if cfg.Ledger.Driver == config.LedgerMemory {
		cfg.Ledger.Driver = config.LedgerSQLite
	}
	return cfg, cfg.Validate()
}

func openService(ctx context.Context, opts *RootOptions) (*passport.Service, func() error, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	ledger, closeLedger, err := app.OpenLedger(ctx, cfg.Ledger)
	if err != nil {
		return nil, nil, err
	}
	svcOpts, err := app.ServiceOptions(cfg, nil, logger.NewNop())
	if err != nil {
		_ = closeLedger()
		return nil, nil, err
	}
	return passport.NewService(ledger, svcOpts), closeLedger, nil
}

// NewRootCommand crea el comando raíz de passportctl.
func NewRootCommand(deps Deps) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "passportctl",
		Short: "passportctl - pet passport ledger client",
		Long:  "Create pet passports, append vaccination, health and location records, and verify them against the configured ledger.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			opts.As = strings.TrimSpace(opts.As)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "SQLite ledger path (overrides ledger.driver)")
	cmd.PersistentFlags().StringVar(&opts.As, "as", "", "caller identity")

	cmd.AddCommand(newCreateCommand(opts, deps))
	cmd.AddCommand(newShowCommand(opts, deps))
	cmd.AddCommand(newListCommand(opts, deps))
	cmd.AddCommand(newTransferCommand(opts, deps))
	cmd.AddCommand(newAddVaccinationCommand(opts, deps))
	cmd.AddCommand(newAddHealthCommand(opts, deps))
	cmd.AddCommand(newAddLocationCommand(opts, deps))
	cmd.AddCommand(newVerifyCommand(opts, deps))
	cmd.AddCommand(newDueCommand(opts, deps))
	cmd.AddCommand(newMetadataCommand(opts, deps))
	cmd.AddCommand(newTokenCommand(opts, deps))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// withService abre el servicio, corre fn y cierra el ledger.
func withService(cmd *cobra.Command, opts *RootOptions, deps Deps, fn func(svc *passport.Service) error) error {
	svc, closeFn, err := deps.OpenService(cmd.Context(), opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "open ledger", err)
	}
	defer func() { _ = closeFn() }()

	if err := fn(svc); err != nil {
		return domainError(err)
	}
	return nil
}

func requireCaller(opts *RootOptions) error {
	if opts.As == "" {
		return NewExitError(ExitCommandError, "--as is required for this command")
	}
	return nil
}
