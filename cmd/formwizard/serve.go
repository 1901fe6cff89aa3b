package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/goliatone/go-formwizard/pkg/httpapi"
	"github.com/goliatone/go-formwizard/pkg/submission"
)

const (
	sessionMaxAge = 24 * time.Hour
	sweepEvery    = 10 * time.Minute
)

func serve(ctx context.Context, e env) error {
	issuer, err := httpapi.NewIssuer(e.cfg.JWTSecret, e.cfg.TokenTTL)
	if err != nil {
		return err
	}
	p, err := pages(e.cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	backend := mockBackend(e.cfg)
	opts := []httpapi.Option{
		httpapi.WithIssuer(issuer),
		httpapi.WithPages(p),
		httpapi.WithRegistry(reg),
		httpapi.WithSimulatedBackend(backend),
		httpapi.WithLogger(e.logger),
	}
	var remote submission.Backend = backend
	if e.cfg.BackendURL != "" {
		remote = submission.NewHTTPBackend(e.cfg.BackendURL, submission.WithTokenSource(httpapi.ForwardToken()))
	}
	opts = append(opts, httpapi.WithSubmitter(
		submitter(e.cfg, e.catalog, remote, e.logger, submission.WithAuth(httpapi.TokenAuth())),
	))

	srv, err := httpapi.New(e.catalog, opts...)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              e.cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(sweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.ExpireSessions(sessionMaxAge)
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info().Str("addr", e.cfg.ListenAddr).Msg("listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	e.logger.Info().Msg("shutting down")
	return httpServer.Shutdown(shutdownCtx)
}
