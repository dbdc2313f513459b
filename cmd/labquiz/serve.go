package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/labquiz/internal/config"
	"github.com/iliyamo/labquiz/internal/gate"
	"github.com/iliyamo/labquiz/internal/queue"
	"github.com/iliyamo/labquiz/internal/repository"
	"github.com/iliyamo/labquiz/internal/router"
	"github.com/iliyamo/labquiz/internal/service"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var auditConsumer bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), auditConsumer)
		},
	}
	cmd.Flags().BoolVar(&auditConsumer, "audit-consumer", false, "Also consume and log grant audit events from RabbitMQ")
	return cmd
}

func runServe(ctx context.Context, auditConsumer bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSetup()
	if err != nil {
		return errors.Trace(err)
	}
	logger := s.logger
	defer func() { _ = logger.Sync() }()

	db, err := s.openDB(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	defer func() { _ = db.Close() }()

	var rdb *redis.Client
	if client, err := config.NewRedisClient(ctx, config.LoadRedisConfig()); err != nil {
		logger.Warn("redis unavailable, caching and rate limiting disabled", zap.Error(err))
	} else {
		rdb = client
		defer func() { _ = rdb.Close() }()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	g := gate.New(repository.NewGrantStore(db), logger, gate.NewMetrics(reg))

	qcfg := config.LoadQueueConfig()
	if auditConsumer {
		if qcfg.URL == "" {
			return errors.NotValidf("--audit-consumer without RABBITMQ_URL")
		}
		go func() {
			err := queue.StartAuditConsumer(ctx, qcfg.URL, qcfg.Queue, logger)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("audit consumer stopped", zap.Error(err))
			}
		}()
	}

	e := router.New(router.Deps{
		Cfg:       s.cfg,
		DB:        db,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Gate:      g,
		Audit:     service.NewGrantPublisher(qcfg, logger),
		Gatherer:  reg,
		Logger:    logger,
	})

	addr := ":" + s.cfg.Port
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", s.cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return errors.Annotate(err, "http server")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Annotate(e.Shutdown(shutdownCtx), "shutting down http server")
}
