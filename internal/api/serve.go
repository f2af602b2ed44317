package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const shutdownGrace = 5 * time.Second

// Serve listens on addr and serves handler until ctx is done, then shuts
// down gracefully. ready, when set, receives the bound address.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger, ready func(net.Addr)) error {
	if ctx == nil {
		return errors.New("api: context is nil")
	}
	if addr == "" {
		return errors.New("api: addr is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if ready != nil {
		ready(listener.Addr())
	}
	logger.Info("api listening", zap.String("addr", listener.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		err := <-errCh
		logger.Info("api stopped")
		if errors.Is(err, http.ErrServerClosed) || err == nil {
			return nil
		}
		return err
	}
}
