package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPService runs an HTTP server under a supervisor and shuts it down
// gracefully when the supervisor stops.
type HTTPService struct {
	server          HTTPServer
	log             *slog.Logger
	shutdownTimeout time.Duration
	// onShutdown runs after the server stopped accepting requests.
	onShutdown func(ctx context.Context) error
}

func NewHTTPService(log *slog.Logger, server HTTPServer, shutdownTimeout time.Duration, onShutdown func(ctx context.Context) error) *HTTPService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPService{
		server:          server,
		log:             log,
		shutdownTimeout: shutdownTimeout,
		onShutdown:      onShutdown,
	}
}

func (h *HTTPService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		h.log.Info("shutting down the server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				h.log.Error("graceful shutdown timed out.. forcing exit", "timeout", h.shutdownTimeout)
			}
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		if h.onShutdown != nil {
			if err := h.onShutdown(shutdownCtx); err != nil {
				h.log.Warn("shutdown hook failed", "errMsg", err.Error())
			}
		}
		h.log.Info("server successfully stopped")
		return ctx.Err()
	}
}

func (h *HTTPService) String() string {
	return "http-server"
}
