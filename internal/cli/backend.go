package cli

import (
	"context"

	"github.com/slotboard/slotboard/pkg/config"
	"github.com/slotboard/slotboard/pkg/store"
	"github.com/slotboard/slotboard/pkg/store/mongo"
	"github.com/slotboard/slotboard/pkg/store/redisbus"
)

// openStore builds the document backend the config selects.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return store.NewMemory(), nil
	case "mongo":
		return mongo.New(ctx, mongo.Options{
			URI:        cfg.Storage.MongoURI,
			Database:   cfg.Storage.MongoDatabase,
			Collection: cfg.Storage.MongoCollection,
		})
	default:
		return store.NewFileStore(cfg.Storage.Dir)
	}
}

// openInvalidator builds the invalidation transport: redis pub/sub when an
// address is configured, otherwise the in-process bus.
func openInvalidator(ctx context.Context, cfg *config.Config) (store.Invalidator, error) {
	if cfg.Storage.RedisAddr == "" {
		return store.NewBus(), nil
	}
	return redisbus.New(ctx, redisbus.Options{
		Addr:     cfg.Storage.RedisAddr,
		Password: cfg.Storage.RedisPassword,
		DB:       cfg.Storage.RedisDB,
	})
}
