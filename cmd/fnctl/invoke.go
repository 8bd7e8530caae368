package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/go-gcp-functions/internal/adapters/clients/remote"
	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/httpclient"
)

type invokeOptions struct {
	url           string
	data          string
	correlationID string
	token         string
	timeout       time.Duration
}

func newInvokeCmd(global *globalOptions) *cobra.Command {
	opts := &invokeOptions{}

	cmd := &cobra.Command{
		Use:   "invoke <action>",
		Short: "Invoke a function action and print its result",
		Long: `Invoke posts the action name, a correlation ID, and the --data arguments
to the function and prints the JSON result. Error descriptions returned by
the function are printed with their code and status.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(cmd, global, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.url, "url", "u", "", "function base URL (default: client.base_url)")
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "JSON object with the action arguments")
	cmd.Flags().StringVar(&opts.correlationID, "correlation-id", "", "correlation ID (default: generated)")
	cmd.Flags().StringVarP(&opts.token, "token", "t", "", "bearer token sent with the request")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "request timeout (default: client.timeout)")

	return cmd
}

func runInvoke(cmd *cobra.Command, global *globalOptions, opts *invokeOptions, action string) error {
	cfg, err := global.load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.url != "" {
		cfg.Client.BaseURL = opts.url
	}
	if opts.timeout > 0 {
		cfg.Client.Timeout = opts.timeout
	}

	args := map[string]any{}
	if opts.data != "" {
		if err := json.Unmarshal([]byte(opts.data), &args); err != nil {
			return fmt.Errorf("--data must be a JSON object: %w", err)
		}
	}

	correlationID := opts.correlationID
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	logger := global.logger(cmd)
	client := remote.NewClient(httpclient.New(&cfg.Client, "fnctl", nil, logger), logger)
	if opts.token != "" {
		client = client.WithBearerToken(opts.token)
	}

	var result any
	found, err := client.Call(cmd.Context(), action, correlationID, args, &result)
	if err != nil {
		var appErr *domain.ApplicationError
		if errors.As(err, &appErr) {
			return fmt.Errorf("%s failed with %s (%d): %s", action, appErr.Code, appErr.Status, appErr.Message)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if !found {
		_, err := fmt.Fprintln(out, "(no content)")
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
