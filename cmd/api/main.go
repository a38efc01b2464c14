package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/logging"
	"bookshelf/internal/lookup"
	"bookshelf/internal/platform/googlebooks"
	"bookshelf/internal/server"
	"bookshelf/internal/store"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, nil); err != nil {
		log.WithError(err).Fatal("server error")
	}
}

// run serves until ctx is cancelled, then drains in-flight requests. ready,
// if non-nil, receives the bound address once the listener is up.
func run(ctx context.Context, cfg config.Config, log logrus.FieldLogger, ready chan<- string) error {
	st, err := store.Open(ctx, store.Config{
		Driver:  cfg.Database.Driver,
		DSN:     cfg.Database.DSN,
		Timeout: cfg.Database.Timeout,
	}, log)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.EnsureSchema(ctx); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newHandler(ctx, cfg, st, log),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Lookup.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", listener.Addr().String()).Info("starting server")
		errCh <- httpServer.Serve(listener)
	}()
	if ready != nil {
		ready <- listener.Addr().String()
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func newHandler(ctx context.Context, cfg config.Config, st *store.Store, log logrus.FieldLogger) http.Handler {
	client := googlebooks.NewClient(googlebooks.Options{
		BaseURL:   cfg.Lookup.BaseURL,
		APIKey:    cfg.Lookup.APIKey,
		UserAgent: cfg.Lookup.UserAgent,
		Timeout:   cfg.Lookup.Timeout,
		RPS:       cfg.Lookup.RPS,
	})
	service := book.NewService(st.Books(), lookup.NewFetcher(client, log), log)

	return server.NewRouter(ctx, server.Deps{
		Books:  book.NewHTTPHandler(service, log),
		DB:     st,
		Log:    log,
		Config: cfg.Server,
	})
}
