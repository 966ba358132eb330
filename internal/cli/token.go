package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	jwtauth "pet-passport/internal/adapters/auth/jwt"
)

type tokenView struct {
	Token     string `json:"token"`
	Subject   string `json:"subject"`
	ExpiresIn string `json:"expires_in"`
}

// newTokenCommand firma tokens HS256 con auth.jwt_secret para probar AUTH_MODE=jwt.
func newTokenCommand(opts *RootOptions, deps Deps) *cobra.Command {
	var email string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development bearer token for --as",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCaller(opts); err != nil {
				return err
			}
			cfg, err := deps.LoadConfig(opts)
			if err != nil {
				return WrapExitError(ExitCommandError, "load config", err)
			}
			v, err := jwtauth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
			if err != nil {
				return WrapExitError(ExitCommandError, "jwt", err)
			}
			tok, err := v.Issue(opts.As, email, ttl)
			if err != nil {
				return WrapExitError(ExitFailure, "issue token", err)
			}
			view := tokenView{Token: tok, Subject: opts.As, ExpiresIn: ttl.String()}
			return formatter(cmd, opts).Success(view, func(w io.Writer) {
				fmt.Fprintln(w, tok)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
