package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/erp/chatbot/internal/application/chat"
	appreference "github.com/erp/chatbot/internal/application/reference"
	"github.com/erp/chatbot/internal/domain/conversation"
	"github.com/erp/chatbot/internal/infrastructure/config"
	"github.com/erp/chatbot/internal/infrastructure/logger"
	"github.com/erp/chatbot/internal/infrastructure/persistence"
	"github.com/erp/chatbot/internal/infrastructure/search"
	"github.com/erp/chatbot/internal/infrastructure/session"
	"github.com/erp/chatbot/internal/interfaces/http/handler"
	"github.com/erp/chatbot/internal/interfaces/http/middleware"
	"github.com/erp/chatbot/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	defer func() { _ = log.Sync() }()

	log.Info("Starting chatbot server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()

	store := buildSessionStore(cfg, redisClient, log)

	repo := persistence.NewGormReferenceRepository(db.DB)
	nameIndex := search.NewRedisNameIndex(redisClient, log)
	resolver := appreference.NewResolverService(repo, nameIndex, cfg.Resolver.Timeout, log)

	poster := persistence.NewGormDocumentPoster(db.DB)
	chatService := chat.NewService(store, resolver, poster, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	router.NewRouter(engine).
		Register(handler.NewChatHandler(chatService)).
		Register(handler.NewSuggestHandler(resolver)).
		Register(handler.NewHealthHandler(db)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func buildSessionStore(cfg *config.Config, redisClient *redis.Client, log *zap.Logger) conversation.Store {
	switch cfg.Session.Backend {
	case "redis":
		log.Info("Using Redis session store", zap.Duration("ttl", cfg.Session.TTL))
		return session.NewRedisStore(redisClient, cfg.Session.TTL,
			session.WithLockTTL(cfg.Session.LockTTL))
	default:
		log.Info("Using in-memory session store", zap.Duration("ttl", cfg.Session.TTL))
		return session.NewInMemoryStore(cfg.Session.TTL)
	}
}
