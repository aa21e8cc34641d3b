package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/catalog-service/internal/api"
	"github.com/example/catalog-service/internal/auth"
	"github.com/example/catalog-service/internal/clock"
	"github.com/example/catalog-service/internal/command"
	"github.com/example/catalog-service/internal/config"
	"github.com/example/catalog-service/internal/domain/user"
	"github.com/example/catalog-service/internal/email"
	"github.com/example/catalog-service/internal/infrastructure/kafka"
	"github.com/example/catalog-service/internal/infrastructure/store"
	"github.com/example/catalog-service/internal/infrastructure/tokens"
	"github.com/example/catalog-service/internal/query"
	"github.com/example/catalog-service/internal/slug"
	"github.com/google/uuid"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	db, err := store.Connect(cfg.DSN())
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := store.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Redis (reset tokens)
	redisClient, err := tokens.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		slog.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Kafka producer for catalog events
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		slog.Error("upload dir unavailable", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	// Stores
	categoryStore := store.NewCategoryStore(db)
	productStore := store.NewProductStore(db, cfg.UploadDir)
	carrierStore := store.NewCarrierStore(db)
	userStore := store.NewUserStore(db)
	readStore := store.NewReadStore(categoryStore, productStore, carrierStore)

	// Services and handlers
	sysClock := clock.System{}
	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	mailer := email.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailFrom, cfg.ResetURL)
	userService := user.NewService(userStore, tokens.NewRedisStore(redisClient), mailer,
		sysClock, uuid.NewString)

	commands := command.NewHandler(categoryStore, productStore, carrierStore,
		store.NewTransactor(db), sysClock, slug.Generator{}, producer)
	queries := query.NewHandler(readStore)

	router := api.NewRouter(
		api.NewCatalogHandlers(commands, queries),
		api.NewAuthHandlers(userService, tokenService),
		tokenService,
		cfg.UploadDir,
	)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", cfg.Addr(), "env", cfg.Env)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
