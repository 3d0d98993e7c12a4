// Package cli implements rqctl, the operator command line for the query service.
// It talks to the same pipelines as the HTTP API without going through the server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/rag"
	"github.com/akolanti/intelliquery/pkg/logger_i"
	"github.com/spf13/cobra"
)

// ServiceFactory builds the pipelines after the environment is loaded.
type ServiceFactory func(ctx context.Context) (rag.Service, error)

type app struct {
	factory    ServiceFactory
	service    rag.Service
	envFile    string
	jsonOutput bool
	verbose    bool
}

func NewRootCmd(factory ServiceFactory) *cobra.Command {
	a := &app{factory: factory}

	root := &cobra.Command{
		Use:          "rqctl",
		Short:        "Ingest documents and query them from the terminal",
		Long:         "rqctl drives the ingestion and query pipelines directly, using the same stores and providers as the API server.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadEnv(a.envFile)
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			// results go to stdout, logs stay on stderr
			logger_i.InitWithHandler(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "optional dotenv file")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "print results as JSON")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(a.setupCmd())
	root.AddCommand(a.ingestCmd())
	root.AddCommand(a.queryCmd())
	root.AddCommand(a.documentCmd())
	root.AddCommand(a.serveMCPCmd())
	return root
}

// pipelines builds the service on first use so --help never dials anything.
func (a *app) pipelines(ctx context.Context) (rag.Service, error) {
	if a.service != nil {
		return a.service, nil
	}
	svc, err := a.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialising services: %w", err)
	}
	a.service = svc
	return svc, nil
}

func (a *app) printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
