package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/williampepple1/listing-scraper/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve [--addr :3000]",
	Short: "Serves the search pages over HTTP.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fatal("failed to load config", err)
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		registry, p, err := setup(cfg)
		if err != nil {
			fatal("failed to start", err)
		}

		mux := http.NewServeMux()
		h := web.NewHandler(registry, p, cfg.Server.DefaultSource, cfg.Server.RequestTimeout, slog.Default())
		h.RegisterRoutes(mux)

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			slog.Info("listening", "addr", cfg.Server.Addr, "sources", registry.Names())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fatal("http server error", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "err", err)
		}
		slog.Info("stopped")
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address, overrides server.addr and PORT")
	rootCmd.AddCommand(serveCmd)
}
