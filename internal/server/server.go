package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ttvMolten/Egov-services-db/internal/config"
)

// readHeaderTimeout caps slow clients before the body timeout applies.
const readHeaderTimeout = 5 * time.Second

// newHTTPServer applies the configured timeouts and routes net/http's own
// errors (TLS handshakes, panics in handlers) into the service logger.
func newHTTPServer(cfg config.Config, router http.Handler, log *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: headerTimeout(cfg.ReadTimeout),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
	}
}

func headerTimeout(read time.Duration) time.Duration {
	if read > 0 && read < readHeaderTimeout {
		return read
	}
	return readHeaderTimeout
}

// Start serves until ctx is cancelled, then drains in-flight requests for
// at most cfg.ShutdownTimeout.
func Start(ctx context.Context, cfg config.Config, router http.Handler, log *slog.Logger) error {
	srv := newHTTPServer(cfg, router, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	log.Info("http server shutting down", "timeout", cfg.ShutdownTimeout)
	started := time.Now()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("http server stopped", "drain", time.Since(started).Round(time.Millisecond))
	return nil
}
