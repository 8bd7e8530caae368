package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/go-gcp-functions/internal/function/auth"
)

const defaultTokenTTL = time.Hour

type tokenOptions struct {
	subject string
	secret  string
	claims  map[string]string
	ttl     time.Duration
}

func newTokenCmd(global *globalOptions) *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an HS256 bearer token for a function",
		Long: `Token signs a JWT with the function's auth settings (function.auth.jwt_secret,
issuer, and audience). Extra claims are string values and are visible to
authorization rules as claims.<name>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runToken(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.subject, "subject", "s", "", "token subject")
	cmd.Flags().StringVar(&opts.secret, "secret", "", "signing secret (default: function.auth.jwt_secret)")
	cmd.Flags().StringToStringVarP(&opts.claims, "claim", "c", nil, "extra claim as name=value (repeatable)")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", defaultTokenTTL, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func runToken(cmd *cobra.Command, global *globalOptions, opts *tokenOptions) error {
	cfg, err := global.load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	authCfg := cfg.Function.Auth
	if opts.secret != "" {
		authCfg.JWTSecret = opts.secret
	}

	signer, err := auth.NewJWT(authCfg)
	if err != nil {
		return err
	}

	extra := make(map[string]any, len(opts.claims))
	for k, v := range opts.claims {
		extra[k] = v
	}

	token, err := signer.Sign(opts.subject, extra, opts.ttl)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
