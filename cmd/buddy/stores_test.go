package main

import (
	"context"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/buddy/internal/config"
)

func TestStoreKind(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"auto with postgres", config.Config{Store: "auto", DatabaseURL: "postgres://x", MongoURI: "mongodb://y"}, "postgres"},
		{"auto with mongo", config.Config{Store: "auto", MongoURI: "mongodb://y"}, "mongo"},
		{"auto with nothing", config.Config{Store: "auto"}, "none"},
		{"explicit memory", config.Config{Store: "memory", DatabaseURL: "postgres://x"}, "memory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storeKind(tt.cfg); got != tt.want {
				t.Errorf("storeKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	s, err := openStore(ctx, config.Config{Store: "memory", StoreTimeout: time.Second})
	if err != nil || s.Store == nil || s.name != "memory" {
		t.Fatalf("expected memory store, got %+v, %v", s, err)
	}
	s.close()

	s, err = openStore(ctx, config.Config{Store: "none", StoreTimeout: time.Second})
	if err != nil || s.Store != nil {
		t.Fatalf("expected no store, got %+v, %v", s, err)
	}

	if _, err := openStore(ctx, config.Config{Store: "postgres", StoreTimeout: time.Second}); err == nil {
		t.Error("expected error for postgres without DATABASE_URL")
	}
	if _, err := openStore(ctx, config.Config{Store: "sqlite", StoreTimeout: time.Second}); err == nil {
		t.Error("expected error for unknown store")
	}
}

func TestOpenStore_AutoFallsBack(t *testing.T) {
	cfg := config.Config{
		Store:        "auto",
		MongoURI:     "not-a-mongo-uri",
		StoreTimeout: time.Second,
	}
	s, err := openStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("auto mode should not fail: %v", err)
	}
	if s.Store != nil || s.name != "none" {
		t.Errorf("expected fallback to no store, got %q", s.name)
	}
}
