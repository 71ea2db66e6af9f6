package main

import (
	"context"
	"net/http"
	"time"

	"github.com/dgallion1/papersect/internal/api"
	"github.com/dgallion1/papersect/internal/pipeline"
	"github.com/dgallion1/papersect/internal/rules"
	"github.com/spf13/cobra"
)

func serveCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the segmentation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := loadConfig(cmd, *gf)
			if err != nil {
				return err
			}
			log := newLogger(cmd.OutOrStdout(), cfg, true)

			rs, err := rules.Load(cfg.RulesPath)
			if err != nil {
				return err
			}
			store := rules.NewStore(rs)
			if cfg.RulesPath != "" {
				w, err := rules.Watch(cfg.RulesPath, store, log)
				if err != nil {
					return err
				}
				defer w.Stop()
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// Initialize pipeline.
			orch := pipeline.NewOrchestrator(cfg, store, log)
			orch.Start(ctx)

			// Initialize HTTP server.
			srv := api.NewServer(orch, log, cfg)

			httpServer := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      srv,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 120 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			// Graceful shutdown.
			go func() {
				<-ctx.Done()
				log.Info("shutting down...")

				orch.Stop()

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				httpServer.Shutdown(shutdownCtx)
			}()

			log.Info("starting papersect", "port", cfg.Port, "workers", cfg.Workers)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
}
