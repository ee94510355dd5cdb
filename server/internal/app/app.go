// Package app assembles the launchdash HTTP server: REST API, WebSocket
// sessions, metrics, health check and the dashboard page on one port.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/launchdash/launchdash/server/internal/api"
	"github.com/launchdash/launchdash/server/internal/auth"
	"github.com/launchdash/launchdash/server/internal/chart"
	"github.com/launchdash/launchdash/server/internal/config"
	"github.com/launchdash/launchdash/server/internal/dataset"
	"github.com/launchdash/launchdash/server/internal/metrics"
	"github.com/launchdash/launchdash/server/internal/ui"
	"github.com/launchdash/launchdash/server/internal/ws"
)

const shutdownTimeout = 5 * time.Second

// Handler builds the combined HTTP handler. /api/ and /ws/session sit behind
// the API key middleware; /metrics, /healthz and the page do not.
func Handler(cfg *config.Config, ds *dataset.Dataset, m *metrics.Metrics, hub *ws.Hub) http.Handler {
	protect := auth.APIKey(cfg.Server.Auth.Mode, cfg.Server.Auth.EffectiveHeader(), cfg.Server.Auth.Key())

	charts := chart.New(cfg.Chart.Width, cfg.Chart.Height)
	slider := api.Slider{
		Min:   cfg.Slider.Min,
		Max:   cfg.Slider.Max,
		Step:  cfg.Slider.Step,
		Marks: cfg.Slider.Marks,
	}

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", protect(api.New(ds, charts, m, slider)))
	httpMux.Handle("/ws/session", protect(hub))
	httpMux.Handle("/metrics", m.Handler())
	httpMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","records":%d}`+"\n", ds.Len())
	})
	httpMux.Handle("/", ui.Handler(cfg.Server.UIDir))

	return LogRequests(httpMux)
}

// Run serves the dashboard until ctx is cancelled, then shuts the server
// down gracefully.
func Run(ctx context.Context, cfg *config.Config, ds *dataset.Dataset, m *metrics.Metrics) error {
	hub := ws.New(ds, m, ws.Options{
		PingPeriod:   cfg.Server.WebSocket.PingPeriod,
		WriteTimeout: cfg.Server.WebSocket.WriteTimeout,
	})
	go hub.Run(ctx)

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           Handler(cfg, ds, m, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: listen: %w", err)
	case <-ctx.Done():
	}

	slog.Info("launchdash shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	return nil
}
