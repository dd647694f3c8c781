package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/erp/chatbot/internal/domain/reference"
	"github.com/erp/chatbot/internal/infrastructure/config"
	"github.com/erp/chatbot/internal/infrastructure/logger"
	"github.com/erp/chatbot/internal/infrastructure/persistence"
	"github.com/erp/chatbot/internal/infrastructure/search"
)

// The indexer loads entity names from the reference database into the
// RediSearch autocomplete indexes. Run it after migrations and whenever
// the reference data changes; the suggest endpoints serve whatever the
// last run loaded.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	defer func() { _ = log.Sync() }()

	db, err := persistence.NewDatabase(&cfg.Database)
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	index := search.NewRedisNameIndex(redisClient, log)
	if err := index.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create search indexes", zap.Error(err))
	}

	repo := persistence.NewGormReferenceRepository(db.DB)
	for _, kind := range []reference.EntityKind{
		reference.EntityKindCustomer,
		reference.EntityKindVendor,
		reference.EntityKindItem,
	} {
		names, err := repo.ListNames(ctx, kind)
		if err != nil {
			log.Fatal("Failed to list names", zap.String("kind", kind.String()), zap.Error(err))
		}
		if err := index.Rebuild(ctx, kind, names); err != nil {
			log.Fatal("Failed to rebuild index", zap.String("kind", kind.String()), zap.Error(err))
		}
	}

	log.Info("Autocomplete indexes rebuilt")
}
