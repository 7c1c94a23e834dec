package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/agendae/webhook-dispatch/config"
	"github.com/agendae/webhook-dispatch/dispatch"
	"github.com/agendae/webhook-dispatch/dispatch/postgres"
	"github.com/agendae/webhook-dispatch/dispatch/redis"
	"github.com/agendae/webhook-dispatch/dispatch/signature"
	"github.com/agendae/webhook-dispatch/internal/http/chi"
	"github.com/agendae/webhook-dispatch/metrics"
)

const TIMEOUT = 30 * time.Second

/* main wires the packages together: configuration, the store backend,
 * the dispatch service and the HTTP handlers. Imports flow in one
 * direction only: the application imports the business layer, which
 * imports the storage layer
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	repo, err := newRepository(ctx, cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer repo.Close(ctx)

	sender, err := newSender(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	s := dispatch.NewService(repo, repo, sender)
	s.MaxAttempts = cfg.GetMaxAttempts()
	s.BaseDelay = cfg.GetBaseDelay()

	collector := metrics.NewStoreCollector(repo, repo)
	exporter, err := metrics.NewOTelExporter(collector)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer exporter.Shutdown(ctx)

	r := chi.Handlers(ctx, s, exporter.ServeHTTP())
	http.Handle("/", r)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.GetPort(),
		Handler:      http.DefaultServeMux,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	fmt.Printf("Listening on port %s\n", cfg.GetPort())
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fmt.Println(err)
		return
	}
	err = <-errShutdown
	if err != nil {
		fmt.Println(err)
		return
	}
}

// newSender builds the delivery sender, signing when a secret is configured
func newSender(cfg *config.Config) (dispatch.Sender, error) {
	if cfg.SigningSecret == "" {
		return dispatch.NewHTTPSender(cfg.GetDeliveryTimeout()), nil
	}
	secret, err := signature.ParseSecret(cfg.SigningSecret)
	if err != nil {
		return nil, fmt.Errorf("parsing signing secret: %w", err)
	}
	return dispatch.NewSigningHTTPSender(cfg.GetDeliveryTimeout(), secret), nil
}

// newRepository selects the store backend from configuration
func newRepository(ctx context.Context, cfg *config.Config) (dispatch.Repository, error) {
	switch cfg.GetStorage() {
	case "redis":
		return redis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "postgres":
		repo, err := postgres.NewRepository(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := repo.CreateTables(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.GetStorage())
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
