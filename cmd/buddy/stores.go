package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MikeSquared-Agency/buddy/internal/config"
	"github.com/MikeSquared-Agency/buddy/internal/mongostore"
	"github.com/MikeSquared-Agency/buddy/internal/profile"
	"github.com/MikeSquared-Agency/buddy/internal/store"
)

// openedStore is the chosen profile backend. Store is nil when learning is
// off.
type openedStore struct {
	profile.Store
	name  string
	close func()
}

// storeKind resolves BUDDY_STORE=auto against the configured URLs.
func storeKind(cfg config.Config) string {
	if cfg.Store != "auto" {
		return cfg.Store
	}
	switch {
	case cfg.DatabaseURL != "":
		return "postgres"
	case cfg.MongoURI != "":
		return "mongo"
	}
	return "none"
}

// openStore connects the configured backend. An explicitly chosen backend
// that cannot be reached is an error; in auto mode Buddy falls back to
// running without learning.
func openStore(ctx context.Context, cfg config.Config) (openedStore, error) {
	kind := storeKind(cfg)
	s, err := connect(ctx, kind, cfg)
	if err != nil && cfg.Store == "auto" {
		slog.Warn("profile store unavailable", "store", kind, "error", err)
		return openedStore{name: "none", close: func() {}}, nil
	}
	return s, err
}

func connect(ctx context.Context, kind string, cfg config.Config) (openedStore, error) {
	if cfg.StoreTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.StoreTimeout)
		defer cancel()
	}

	switch kind {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return openedStore{}, fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return openedStore{}, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return openedStore{}, err
		}
		return openedStore{Store: db, name: kind, close: db.Close}, nil

	case "mongo":
		if cfg.MongoURI == "" {
			return openedStore{}, fmt.Errorf("MONGO_URI is required for the mongo store")
		}
		db, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return openedStore{}, err
		}
		if err := db.EnsureIndexes(ctx); err != nil {
			slog.Warn("failed to ensure mongo indexes", "error", err)
		}
		return openedStore{Store: db, name: kind, close: func() {
			db.Close(context.Background())
		}}, nil

	case "memory":
		return openedStore{Store: profile.NewMemoryStore(), name: kind, close: func() {}}, nil

	case "none":
		return openedStore{name: kind, close: func() {}}, nil
	}
	return openedStore{}, fmt.Errorf("unknown store %q", kind)
}
