package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"roomdir/internal/directory"
	"roomdir/internal/httpapi"
	"roomdir/internal/metrics"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the room directory page and JSON API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.HTTPAddr = serveAddr
		}

		logger := httpapi.NewLogger(cfg.LogLevel)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		d, err := newDeps(ctx, cfg, logger, metrics.New())
		if err != nil {
			return err
		}
		defer d.Close()
		d.startPoller(ctx)

		opts := httpapi.Options{
			Fetcher:   d.client,
			Signal:    d.signal,
			Floorplan: d.floorplan,
			Metrics:   d.metrics,
		}
		if d.pool != nil {
			opts.DB = d.pool
		}
		h := httpapi.NewHandler(logger, opts)

		snap, err := directory.LoadAll(ctx, d.client)
		if err != nil {
			// Same as the page: an empty directory, not a dead service.
			logger.Error().Err(err).Msg("failed to load room directory")
			snap = directory.Snapshot{}
		}
		h.SetSnapshot(snap)
		logger.Info().
			Int("rooms", len(snap.Rooms)).
			Int("buildings", len(snap.Buildings)).
			Int("features", len(snap.Features)).
			Msg("room directory loaded")

		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           h.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info().Str("addr", cfg.HTTPAddr).Msg("roomdir listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case <-ctx.Done():
		case err := <-errCh:
			if err != nil {
				logger.Error().Err(err).Msg("http server error")
				return err
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		logger.Info().Msg("shutdown complete")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "override http_addr from config")
	rootCmd.AddCommand(serveCmd)
}
