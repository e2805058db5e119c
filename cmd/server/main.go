package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/epictutors/epic-tutors-server/internal/config"
	"github.com/epictutors/epic-tutors-server/internal/database"
	"github.com/epictutors/epic-tutors-server/internal/middleware"
	"github.com/epictutors/epic-tutors-server/internal/queue"
	"github.com/epictutors/epic-tutors-server/internal/router"
	"github.com/epictutors/epic-tutors-server/internal/service"
	"github.com/epictutors/epic-tutors-server/internal/store"
	"github.com/epictutors/epic-tutors-server/internal/token"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// logger config depends on cfg, so report with a bootstrap logger
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Info("redis unavailable; rate limiter and cache disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	qcfg := config.LoadQueueConfig()
	publisher := service.NewPublisher(qcfg, logger)
	if ap, ok := publisher.(*service.AuditPublisher); ok {
		defer func() { _ = ap.Close() }()
	}
	if qcfg.Enabled && qcfg.Consume {
		go func() {
			if err := queue.StartAuditConsumer(ctx, qcfg, logger.Named("audit")); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("audit consumer stopped", zap.Error(err))
			}
		}()
	}

	codec := token.NewCodec(cfg.TokenSecret, cfg.TokenTTL)
	e := router.New(router.Deps{
		Store:     st,
		Tokens:    codec,
		Publisher: publisher,
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb, logger),
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, codec, logger),
	}, logger)

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("store", cfg.StoreDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProd() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Store, error) {
	if cfg.StoreDriver == config.DriverMemory {
		logger.Warn("using in-memory store; data is lost on restart")
		return store.NewMemoryStore(), nil
	}
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := store.NewMySQLStore(db)
	if err := s.EnsureSchema(ctx, store.AllCollections...); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
