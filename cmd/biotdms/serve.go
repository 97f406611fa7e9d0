package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/ontology"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/server"
)

func serveCmd(loadApp func() (*app, error)) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			engine, err := prepareEngine(ctx, a)
			if err != nil {
				return fmt.Errorf("prepare semantic index: %w", err)
			}

			if a.cfg.Ontology.Watch {
				watcher, err := ontology.NewWatcher(a.cfg.Ontology.Path, a.provider, a.logger)
				if err != nil {
					return fmt.Errorf("start ontology watcher: %w", err)
				}
				go func() {
					if err := watcher.Run(ctx); err != nil {
						a.logger.Error("ontology watcher stopped", slog.String("error", err.Error()))
					}
				}()
			}

			srv := server.New(server.Options{
				Addr:            a.cfg.Server.Addr,
				ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
				Provider:        a.provider,
				Semantic:        engine,
				Weights:         a.cfg.Scoring.Weights,
				Thresholds:      a.cfg.Explain.Thresholds,
				Logger:          a.logger,
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}
