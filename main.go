package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"golang.org/x/sync/errgroup"

	"github.com/DeterminateSystems/queuesimd/internal/config"
)

var (
	configPath = flag.String("config", "", "YAML config file; built-in lessons are used when empty")
	listenAddr = flag.String("listen", "", "Address to serve HTTP on, overrides the config file")
	verbosity  = flag.Int("v", 0, "Log verbosity")
)

func serve(ctx context.Context, log logr.Logger, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		// Cancelling ctx ends long-lived SSE streams so Shutdown can finish.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func main() {
	flag.Parse()

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %s", err)
	}
	if *listenAddr != "" {
		cfg.Listen = *listenAddr
	}

	broker := NewBroker()
	sessions := NewSessions(cfg.History, cfg.MaxSessions, broker, logger.WithName("session"))
	server := NewServer(cfg, sessions, broker, logger.WithName("http"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serve(ctx, logger.WithName("http"), cfg.Listen, server.Handler())
	})
	if *configPath != "" {
		g.Go(func() error {
			return config.Watch(ctx, logger.WithName("config"), *configPath, func(c *config.Config) {
				server.SetDisplay(c.Display)
				server.SetCatalog(c.Lessons)
				logger.Info("config reloaded", "lessons", len(c.Lessons))
			})
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error(err, "exiting")
		os.Exit(1)
	}
}
