package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"scancam/internal/httpapi"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	var (
		addr        string
		corsOrigins string
		autostart   bool
		rescan      time.Duration
		scanWait    time.Duration
		maxBody     int64
		sim         simOptions
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scan service and its HTTP API",
		Example: "  scancam serve --device sim\n" +
			"  scancam serve --config scancam.yaml --device /dev/video0 --addr :9000",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if corsOrigins != "" {
				cfg.CORS.Enabled = true
				cfg.CORS.Origins = splitCSV(corsOrigins)
			}
			log := newLogger(cfg.Log, cmd.ErrOrStderr())

			svc, err := buildService(cfg, sim, rescan, log)
			if err != nil {
				return err
			}
			defer svc.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			httpapi.SetLogger(log)
			httpapi.SetBaseContext(ctx)
			httpapi.SetMaxBodyBytes(maxBody)
			httpapi.SetScanWaitTimeout(scanWait)
			httpapi.SetCORSOptions(cfg.CORS.Enabled, cfg.CORS.Origins, nil, nil)

			if autostart {
				if err := svc.StartPreview(); err != nil {
					// Keep serving; POST /preview/start retries.
					log.Warn().Err(err).Str("device", cfg.Device).Msg("camera not started")
				}
			}

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           httpapi.NewMux(svc),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errc := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Addr).Str("device", cfg.Device).Msg("scancam listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				log.Warn().Err(err).Msg("graceful shutdown error")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default from config, :8090)")
	cmd.Flags().StringVar(&corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins; enables CORS")
	cmd.Flags().BoolVar(&autostart, "autostart", true, "Open the camera and start scanning at startup")
	cmd.Flags().DurationVar(&rescan, "rescan-delay", time.Second, "Pause after a decode before scanning again (negative: stop)")
	cmd.Flags().DurationVar(&scanWait, "scan-wait-timeout", 30*time.Second, "Maximum wait for GET /scan/next")
	cmd.Flags().Int64Var(&maxBody, "max-body-bytes", 1<<16, "Maximum JSON request body size")
	cmd.Flags().IntVar(&sim.markEvery, "sim-mark-every", 30, "Simulated camera: every n-th frame carries a barcode")
	cmd.Flags().StringVar(&sim.text, "sim-text", "scancam", "Simulated camera: decoded barcode text")
	return cmd
}
