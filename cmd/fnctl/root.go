package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/config"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/logging"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	profile   string
	configDir string
	logLevel  string
	overrides map[string]string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "fnctl",
		Short: "Invoke and authenticate against function services",
		Long: `fnctl talks to function services over HTTP.

Client settings (base URL, timeouts, retry, circuit breaker) come from the
same layered configuration the services use: configs/base.yaml, the
profile file, APP_ environment variables, then --set overrides.

Invoke an action:
  fnctl invoke dummies.get_dummy_by_id --data '{"dummy_id":"1"}'

Point the client at another deployment for one call:
  fnctl invoke dummies.get_dummies --set client.timeout=30s --set client.retry.max_attempts=1

Mint a token for a function with authorization enabled:
  fnctl token --subject alice --claim role=writer`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.profile, "profile", "p", "local", "configuration profile")
	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "configs", "directory holding the configuration files")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().StringToStringVar(&opts.overrides, "set", nil, "override a configuration key (key=value, repeatable)")

	cmd.AddCommand(newInvokeCmd(opts), newTokenCmd(opts))
	return cmd
}

func (o *globalOptions) load() (*config.Config, error) {
	values := make(map[string]any, len(o.overrides))
	for k, v := range o.overrides {
		values[k] = v
	}
	return config.Load(o.profile, config.WithConfigDir(o.configDir), config.WithOverrides(values))
}

func (o *globalOptions) logger(cmd *cobra.Command) *slog.Logger {
	return logging.New(o.logLevel, "text", cmd.ErrOrStderr())
}
