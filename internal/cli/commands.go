package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pet-passport/internal/domain/passport"
)

func formatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}

func printPassport(cmd *cobra.Command, opts *RootOptions, p passport.Passport) error {
	return formatter(cmd, opts).Success(passport.NewPassportResponse(p), func(w io.Writer) {
		renderPassport(w, p)
	})
}

// showAfter relee el pasaporte después de una mutación.
func showAfter(cmd *cobra.Command, opts *RootOptions, svc *passport.Service, id string) error {
	p, err := svc.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	return printPassport(cmd, opts, p)
}

func newCreateCommand(opts *RootOptions, deps Deps) *cobra.Command {
	var id, name, species, breed, born string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a passport owned by --as",
		Example: `  passportctl create --as owner-a --name Rex --species Dog --breed Labrador --born 2020-01-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCaller(opts); err != nil {
				return err
			}
			birth, err := parseTime("born", born, true)
			if err != nil {
				return err
			}
			return withService(cmd, opts, deps, func(svc *passport.Service) error {
				p, err := svc.Create(cmd.Context(), passport.CreateInput{
					ID:        id,
					Name:      name,
					Species:   species,
					Breed:     breed,
					BirthDate: birth,
					Owner:     opts.As,
				})
				if err != nil {
					return err
				}
				return printPassport(cmd, opts, p)
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "passport id (default: random UUID)")
	cmd.Flags().StringVar(&name, "name", "", "pet name")
	cmd.Flags().StringVar(&species, "species", "", "pet species")
	cmd.Flags().StringVar(&breed, "breed", "", "pet breed")
	cmd.Flags().StringVar(&born, "born", "", "birth date (YYYY-MM-DD, RFC3339 or epoch seconds)")

	return cmd
}

func newShowCommand(opts *RootOptions, deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "show <passport-id>",
		Short: "Show a passport and its logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts, deps, func(svc *passport.Service) error {
				return showAfter(cmd, opts, svc, args[0])
			})
		},
	}
}

func newListCommand(opts *RootOptions, deps Deps) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List passports by owner (default: --as)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(owner) == "" {
				owner = opts.As
			}
			if owner == "" {
				return NewExitError(ExitCommandError, "--owner or --as is required")
			}
			return withService(cmd, opts, deps, func(svc *passport.Service) error {
				items, err := svc.ListByOwner(cmd.Context(), owner)
				if err != nil {
					return err
				}
				views := make([]passport.PassportResponse, 0, len(items))
				for _, p := range items {
					views = append(views, passport.NewPassportResponse(p))
				}
				return formatter(cmd, opts).Success(views, func(w io.Writer) {
					if len(items) == 0 {
						fmt.Fprintf(w, "No passports for %s\n", owner)
						return
					}
					for _, p := range items {
						fmt.Fprintf(w, "%s  %s (%s)  updated %s\n", p.ID, p.Name, p.Species, timestamp(p.LastUpdated))
					}
				})
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner identity")
	return cmd
}

func newTransferCommand(opts *RootOptions, deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <passport-id> <new-owner>",
		Short: "Transfer ownership (caller must be the current owner)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCaller(opts); err != nil {
				return err
			}
			return withService(cmd, opts, deps, func(svc *passport.Service) error {
				if err := svc.TransferOwner(cmd.Context(), args[0], opts.As, args[1]); err != nil {
					return err
				}
				return showAfter(cmd, opts, svc, args[0])
			})
		},
	}
}

func newAddVaccinationCommand(opts *RootOptions, deps Deps) *cobra.Command {
	var vaccine, administered, nextDue, vet string

	cmd := &cobra.Command{
		Use:   "add-vaccination <passport-id>",
		Short: "Append a vaccination record",
		Example: `  passportctl add-vaccination rex-1 --as owner-a --vaccine Rabies --administered 2024-01-10 --next-due 2025-01-10 --vet "Dr. Vet"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCaller(opts); err != nil {
				return err
			}
			adm, err := parseTime("administered", administered, false)
			if err != nil {
				return err
			}
			due, err := parseTime("next-due", nextDue, false)
			if err != nil {
				return err
			}
			return withService(cmd, opts, deps, func(svc *passport.Service) error {
				err := svc.AppendVaccination(cmd.Context(), args[0], opts.As, passport.VaccinationRecord{
					VaccineName:      vaccine,
					DateAdministered: adm,
					NextDueDate:      due,
					Veterinarian:     vet,
				})
				if err != nil {
					return err
				}
				return showAfter(cmd, opts, svc, args[0])
			})
		},
	}

	cmd.Flags().StringVar(&vaccine, "vaccine", "", "vaccine name")
	cmd.Flags().StringVar(&administered, "administered", "", "date administered")
	cmd.Flags().StringVar(&nextDue, "next-due", "", "next due date")
	cmd.Flags().StringVar(&vet, "vet", "", "veterinarian")
	return cmd
}

func newAddHealthCommand(opts *RootOptions, deps Deps) *cobra.Command {
	var recordType, date, description, vet string

	cmd := &cobra.Command{
		Use:   "add-health <passport-id>",
		Short: "Append a health record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCaller(opts); err != nil {
				return err
			}
			at, err := parseTime("date", date, false)
			if err != nil {
				return err
			}
			return withService(cmd, opts, deps, func(svc *passport.Service) error {
				err := svc.AppendHealth(cmd.Context(), args[0], opts.As, passport.HealthRecord{
					RecordType:   recordType,
					Date:         at,
					Description:  description,
					Veterinarian: vet,
				})
				if err != nil {
					return err
				}
				return showAfter(cmd, opts, svc, args[0])
			})
		},
	}

	cmd.Flags().StringVar(&recordType, "type", "", "record type (Checkup, Surgery, ...)")
	cmd.Flags().StringVar(&date, "date", "", "record date")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&vet, "vet", "", "veterinarian")
	return cmd
}

func newAddLocationCommand(opts *RootOptions, deps Deps) *cobra.Command {
	var location, at, event string

	cmd := &cobra.Command{
		Use:   "add-location <passport-id>",
		Short: "Append a location event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCaller(opts); err != nil {
				return err
			}
			ts, err := parseTime("at", at, false)
			if err != nil {
				return err
			}
			return withService(cmd, opts, deps, func(svc *passport.Service) error {
				err := svc.AppendLocation(cmd.Context(), args[0], opts.As, passport.LocationRecord{
					Location:  location,
					Timestamp: ts,
					EventType: event,
				})
				if err != nil {
					return err
				}
				return showAfter(cmd, opts, svc, args[0])
			})
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "location")
	cmd.Flags().StringVar(&at, "at", "", "event time")
	cmd.Flags().StringVar(&event, "event", "", "event type (Travel, Moved, ...)")
	return cmd
}

func newVerifyCommand(opts *RootOptions, deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <passport-id> <vaccination|health> <index>",
		Short: "Mark a vaccination or health record as verified",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCaller(opts); err != nil {
				return err
			}
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return WrapExitError(ExitCommandError, "index must be an integer", err)
			}
			return withService(cmd, opts, deps, func(svc *passport.Service) error {
				if err := svc.Verify(cmd.Context(), args[0], opts.As, args[1], index); err != nil {
					return err
				}
				return showAfter(cmd, opts, svc, args[0])
			})
		},
	}
}

func newDueCommand(opts *RootOptions, deps Deps) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "due <passport-id>",
		Short: "List vaccinations due on or before --as-of",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when := time.Now()
			if strings.TrimSpace(asOf) != "" {
				n, err := parseTime("as-of", asOf, false)
				if err != nil {
					return err
				}
				when = time.Unix(n, 0)
			}
			return withService(cmd, opts, deps, func(svc *passport.Service) error {
				due, err := svc.DueVaccinations(cmd.Context(), args[0], when)
				if err != nil {
					return err
				}
				return formatter(cmd, opts).Success(passport.NewDueVaccinationResponses(due), func(w io.Writer) {
					if len(due) == 0 {
						fmt.Fprintln(w, "No vaccinations due")
						return
					}
					for _, d := range due {
						fmt.Fprintf(w, "[%d] %s due %s\n", d.Index, d.Record.VaccineName, day(d.Record.NextDueDate))
					}
				})
			})
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date (default: now)")
	return cmd
}

func newMetadataCommand(opts *RootOptions, deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata <passport-id>",
		Short: "Show the token-style descriptor of a passport",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts, deps, func(svc *passport.Service) error {
				p, err := svc.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				m := p.Metadata()
				return formatter(cmd, opts).Success(passport.NewMetadataResponse(m), func(w io.Writer) {
					fmt.Fprintf(w, "name:   %s\nsymbol: %s\nuri:    %s\n", m.Name, m.Symbol, m.URI)
				})
			})
		},
	}
}

// parseTime acepta YYYY-MM-DD, RFC3339 o epoch segundos (puede ser negativo).
func parseTime(flag, s string, optional bool) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		if optional {
			return 0, nil
		}
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("--%s is required", flag))
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Unix(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Unix(), nil
	}
	return 0, NewExitError(ExitCommandError, fmt.Sprintf("--%s must be YYYY-MM-DD, RFC3339 or epoch seconds", flag))
}
