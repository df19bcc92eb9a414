// internal/app/lifecycle/serve.go
package lifecycle

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// serve runs srv on ln until ctx is cancelled or Serve fails, then shuts the
// server down within grace.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration, logger *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
			if closeErr := srv.Close(); closeErr != nil {
				logger.Error("forced close failed", zap.Error(closeErr))
			}
		}
		return nil
	})

	return g.Wait()
}
