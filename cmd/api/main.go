package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"triage-assist/internal/config"
	"triage-assist/internal/db"
	apihttp "triage-assist/internal/http"
	"triage-assist/internal/oracle"
	"triage-assist/internal/repository"
	"triage-assist/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	anon := service.NewAnonymizer(cfg.SessionSecret)
	classifier := oracle.NewHTTPClient(cfg.OracleURL, cfg.OracleTimeout, logger)

	var (
		observer service.TurnObserver
		stats    apihttp.StatsProvider
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		if err := db.Ping(ctx, pool); err != nil {
			logger.Fatal("db ping", zap.Error(err))
		}
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
		recorder := service.NewTriageRecorder(repository.NewPgTriageEventRepository(pool), anon, logger)
		observer = recorder
		stats = recorder
	} else {
		logger.Warn("database not configured, triage log disabled")
	}

	var limiter service.SubmitRateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisSubmitRateLimiter(redisClient, anon, cfg.SubmitRateWindow, cfg.SubmitRateLimit)
		}
		cancel()
	}

	sessions := service.NewSessionManager(classifier, observer, cfg.SessionTTL, logger)
	go sessions.Run(ctx, cfg.SweepInterval)

	tokens := service.NewSessionTokenService(cfg.SessionSecret)
	convHandler := apihttp.NewConversationHandler(logger, sessions, tokens, limiter, stats)
	router := apihttp.NewRouter(logger, convHandler, tokens)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.OracleTimeout+5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("oracle_url", cfg.OracleURL))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
