// Package main provides the biotdms binary entry point.
// biotdms is a research-data dashboard over a team-measurement
// knowledge graph: it loads Turtle ontologies and answers evidence,
// search, and pattern-matching queries from the command line or over
// HTTP.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/config"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/ontology"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/query"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "biotdms"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the loaded pieces the subcommands share.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	provider *ontology.Provider
	querier  *query.Querier
}

func rootCmd() *cobra.Command {
	var (
		ontologyPath string
		logLevel     string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Team-measurement knowledge graph explorer",
		Long: `biotdms explores a knowledge graph of team-measurement research:
constructs, the measures that operationalize them, and the published
effect-size evidence behind each link.

It provides:
- Faceted and semantic search over constructs and measures
- Similarity scoring from ad-hoc sensor patterns to catalogued measures
- Natural-language explanations grounded in study evidence
- Forest-plot and network payloads for the dashboard frontend`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&ontologyPath, "ontology", "", "Ontology directory (overrides config)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	loadApp := func() (*app, error) {
		logger := newLogger(logLevel)
		slog.SetDefault(logger)

		cfg, err := config.NewLoader(logger).Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if ontologyPath != "" {
			cfg.Ontology.Path = ontologyPath
		}

		provider := ontology.NewProvider(ontology.NewLoader(cfg.Ontology.Path, logger), logger)
		if err := provider.Load(); err != nil {
			return nil, fmt.Errorf("load ontology: %w", err)
		}

		return &app{
			cfg:      cfg,
			logger:   logger,
			provider: provider,
			querier:  query.New(provider.Store(), logger),
		}, nil
	}

	cmd.AddCommand(
		serveCmd(loadApp),
		statsCmd(loadApp),
		constructsCmd(loadApp),
		evidenceCmd(loadApp),
		searchCmd(loadApp),
		matchCmd(loadApp),
		explainCmd(loadApp),
		exportCmd(loadApp),
		embedCmd(loadApp),
		validateCmd(loadApp),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

func newLogger(level string) *slog.Logger {
	l := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
