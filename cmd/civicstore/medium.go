package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	jsonkv "github.com/forkthecity/microsite-store/internal/adapters/jsonfile/kvstore"
	memkv "github.com/forkthecity/microsite-store/internal/adapters/memory/kvstore"
	mongokv "github.com/forkthecity/microsite-store/internal/adapters/mongo/kvstore"
	postgres "github.com/forkthecity/microsite-store/internal/adapters/postgres"
	pgkv "github.com/forkthecity/microsite-store/internal/adapters/postgres/kvstore"
	sqlitekv "github.com/forkthecity/microsite-store/internal/adapters/sqlite/kvstore"
	"github.com/forkthecity/microsite-store/internal/platform/config"
	"github.com/forkthecity/microsite-store/internal/ports/out/kvstore"
)

// sqliteFile is the database file created under store.data_dir.
const sqliteFile = "civicstore.db"

// openMedium opens the configured backend. The returned func releases it.
func openMedium(ctx context.Context, cfg config.StoreConfig, log logrus.FieldLogger) (kvstore.Store, func(), error) {
	log = log.WithField("backend", cfg.Backend)
	switch cfg.Backend {
	case config.BackendMemory:
		log.Warn("memory backend: nothing outlives this process")
		return memkv.NewStore(cfg.QuotaBytes), func() {}, nil

	case config.BackendJSON:
		s, err := jsonkv.NewStore(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("json store: %w", err)
		}
		log.WithField("path", filepath.Join(cfg.DataDir, jsonkv.FileName)).Debug("medium opened")
		return s, func() {}, nil

	case config.BackendSQLite:
		path := filepath.Join(cfg.DataDir, sqliteFile)
		s, err := sqlitekv.NewStore(path)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite store: %w", err)
		}
		log.WithField("path", path).Debug("medium opened")
		return s, func() { _ = s.Close() }, nil

	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			return nil, nil, fmt.Errorf("postgres pool: %w", err)
		}
		if err := pgkv.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres schema: %w", err)
		}
		log.Debug("medium opened")
		return pgkv.NewStore(pool), pool.Close, nil

	case config.BackendMongo:
		s, err := mongokv.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, fmt.Errorf("mongo store: %w", err)
		}
		log.WithField("database", cfg.MongoDatabase).Debug("medium opened")
		return s, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.Close(closeCtx)
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
