package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"vibromon/internal/httpapi"
	"vibromon/internal/observability"
)

// Serve exposes the classified source over the read-only JSON API.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path, err := a.Config.ResolveSource(opts.File)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	svc, err := a.newService(path, metrics)
	if err != nil {
		return err
	}
	if _, err := svc.Snapshot(ctx); err != nil {
		// keep serving; the API reports 503 until the source is readable
		a.Logger.Warn().Err(err).Str("path", path).Msg("initial source load failed")
	}

	serverCfg := a.Config.Server
	if opts.Addr != "" {
		serverCfg.Addr = opts.Addr
	}
	server := httpapi.NewServer(serverCfg, httpapi.NewRouter(svc, metrics, reg, a.Logger), a.Logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.Logger.Info().Msg("http server stopped")
	return nil
}
