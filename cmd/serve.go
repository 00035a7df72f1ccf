package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/kilianp07/chargeplan/api/runs"
	"github.com/kilianp07/chargeplan/app"
	"github.com/kilianp07/chargeplan/infra/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planning API and metrics over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.API.Addr = serveAddr
		}
		svc, err := app.New(cfg)
		if err != nil {
			return err
		}
		log := logger.New("api")
		defer func() {
			if err := svc.Close(); err != nil {
				log.Errorf("service close: %v", err)
			}
		}()
		if err := cfg.Planner.Validate(svc.Catalog.Len()); err != nil {
			return err
		}
		mux := runs.NewMux(svc, svc.Catalog, cfg.Planner, svc.Store, cfg.API.Token, promhttp.Handler())
		return runs.Serve(ctx, cfg.API.Addr, mux, log)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}
