package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MeKo-Tech/scanbridge/internal/bridge"
	"github.com/MeKo-Tech/scanbridge/internal/docwatch"
	"github.com/MeKo-Tech/scanbridge/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bridge server",
	Long: `Start an HTTP server that exposes one scanner bridge.

The server provides the following endpoints:
  GET /channel - websocket command channel ({"id","method","arguments"})
  GET /events  - websocket result stream, one JSON event per frame
  GET /health  - health check endpoint
  GET /methods - list of implemented commands
  GET /metrics - Prometheus metrics

Examples:
  scanbridge serve --license-key KEY
  scanbridge serve --port 8080 --frames-dir ./frames
  scanbridge serve --document config.json --watch-document`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		if cmd.Flags().Changed("host") {
			cfg.Server.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("allowed-origins") {
			cfg.Server.AllowedOrigins, _ = cmd.Flags().GetStringSlice("allowed-origins")
		}
		if cmd.Flags().Changed("event-buffer") {
			cfg.Server.EventBuffer, _ = cmd.Flags().GetInt("event-buffer")
		}
		if cmd.Flags().Changed("shutdown-timeout") {
			cfg.Server.ShutdownTimeout, _ = cmd.Flags().GetInt("shutdown-timeout")
		}
		if cmd.Flags().Changed("frames-dir") {
			cfg.Engine.FramesDir, _ = cmd.Flags().GetString("frames-dir")
		}
		if cmd.Flags().Changed("frame-interval") {
			cfg.Engine.FrameIntervalMs, _ = cmd.Flags().GetInt("frame-interval")
		}
		if cmd.Flags().Changed("document") {
			cfg.Document.Path, _ = cmd.Flags().GetString("document")
		}
		if cmd.Flags().Changed("watch-document") {
			cfg.Document.Watch, _ = cmd.Flags().GetBool("watch-document")
		}

		// Rate limiting
		if cmd.Flags().Changed("rate-limit-enabled") {
			cfg.Server.RateLimit.Enabled, _ = cmd.Flags().GetBool("rate-limit-enabled")
		}
		if cmd.Flags().Changed("requests-per-minute") {
			cfg.Server.RateLimit.RequestsPerMinute, _ = cmd.Flags().GetInt("requests-per-minute")
		}
		if cmd.Flags().Changed("requests-per-hour") {
			cfg.Server.RateLimit.RequestsPerHour, _ = cmd.Flags().GetInt("requests-per-hour")
		}
		if cmd.Flags().Changed("max-requests-per-day") {
			cfg.Server.RateLimit.MaxRequestsPerDay, _ = cmd.Flags().GetInt("max-requests-per-day")
		}
		if cmd.Flags().Changed("max-data-per-day") {
			cfg.Server.RateLimit.MaxDataPerDay, _ = cmd.Flags().GetInt64("max-data-per-day")
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// The dispose hook detaches the server created below.
		var srv *server.Server
		b, settings, err := newBridge(cfg, bridge.Options{OnDispose: func() {
			if srv != nil {
				srv.Detach()
			}
		}})
		if err != nil {
			return err
		}
		defer settings.Teardown()

		srv = server.NewServer(cfg.ToServerConfig(), b)
		defer func() { _ = srv.Close() }()

		if cfg.Document.Path != "" && cfg.Document.Watch {
			w, err := docwatch.New(cfg.Document.Path, b)
			if err != nil {
				return fmt.Errorf("watch configuration document: %w", err)
			}
			go func() {
				if err := w.Run(ctx); err != nil {
					slog.Error("Document watcher stopped", "error", err)
				}
			}()
		}

		httpServer := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			slog.Info("Starting bridge server", "host", cfg.Server.Host, "port", cfg.Server.Port, "bridge", b.ID())
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Server error", "error", err)
				cancel()
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal", "signal", sig.String())
		case <-ctx.Done():
			slog.Info("Context cancelled, initiating shutdown")
		}

		slog.Info("Starting graceful shutdown", "timeout", cfg.ShutdownTimeout().String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer shutdownCancel()

		// Dispose first: it detaches the websocket channels, which Shutdown
		// does not wait for.
		slog.Info("Disposing bridge")
		if err := srv.Close(); err != nil {
			slog.Error("Bridge dispose error", "error", err)
		}

		slog.Info("Shutting down HTTP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		} else {
			slog.Info("HTTP server shutdown completed")
		}

		slog.Info("Graceful shutdown completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("host", "H", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().StringSlice("allowed-origins", []string{"*"}, "allowed browser origins for CORS and websocket upgrades")
	serveCmd.Flags().Int("event-buffer", 16, "result events buffered for a slow listener before dropping")
	serveCmd.Flags().Int("shutdown-timeout", 10, "shutdown timeout in seconds")
	// Engine flags
	serveCmd.Flags().String("frames-dir", "", "directory of images replayed as camera frames")
	serveCmd.Flags().Int("frame-interval", 100, "milliseconds between camera frames")
	serveCmd.Flags().String("document", "", "configuration document applied at startup")
	serveCmd.Flags().Bool("watch-document", false, "re-apply the configuration document when it changes")
	// Rate limiting flags
	serveCmd.Flags().Bool("rate-limit-enabled", false, "enable rate limiting")
	serveCmd.Flags().Int("requests-per-minute", 120, "maximum requests per minute per client")
	serveCmd.Flags().Int("requests-per-hour", 3000, "maximum requests per hour per client")
	serveCmd.Flags().Int("max-requests-per-day", 20000, "maximum requests per day per client")
	serveCmd.Flags().Int64("max-data-per-day", 512<<20, "maximum request bytes per day per client")
}
