package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/voicebook/internal/api/router"
	"github.com/wolfman30/voicebook/internal/assistant"
	"github.com/wolfman30/voicebook/internal/chat"
	appconfig "github.com/wolfman30/voicebook/internal/config"
	"github.com/wolfman30/voicebook/internal/http/handlers"
	"github.com/wolfman30/voicebook/internal/observability/metrics"
	"github.com/wolfman30/voicebook/internal/session"
	"github.com/wolfman30/voicebook/internal/webchat"
	"github.com/wolfman30/voicebook/pkg/logging"
)

func main() {
	// .env is optional and only read in development setups.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting voicebook API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	store := buildSessionStore(cfg, logger)

	assistantMetrics := metrics.NewAssistantMetrics(nil)
	engine := assistant.New(
		assistant.WithLogger(logger),
		assistant.WithRecorder(assistantMetrics),
	)
	service := chat.NewService(engine, store, logger)

	chatHandler := handlers.NewChatHandler(service, logger)
	webchatHandler := webchat.NewHandler(service, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        chatHandler,
		WebchatHandler:     webchatHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ChatRateLimit:      cfg.ChatRateLimit,
		ChatRateBurst:      cfg.ChatRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildSessionStore picks the persistence backend: Postgres when
// DATABASE_URL is set, Redis when REDIS_ADDR is set, process memory
// otherwise.
func buildSessionStore(cfg *appconfig.Config, logger *logging.Logger) session.Store {
	ctx := context.Background()

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		store := session.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Error("failed to ensure session schema", "error", err)
			os.Exit(1)
		}
		logger.Info("session store: postgres")
		return store
	}

	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis not reachable at startup", "error", err)
		}
		logger.Info("session store: redis", "addr", cfg.RedisAddr)
		return session.NewRedisStore(client, cfg.SessionTTL)
	}

	logger.Info("session store: memory")
	return session.NewMemoryStore()
}
