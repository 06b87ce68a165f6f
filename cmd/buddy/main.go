package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openai/openai-go/option"

	"github.com/MikeSquared-Agency/buddy/internal/anthropic"
	"github.com/MikeSquared-Agency/buddy/internal/api"
	"github.com/MikeSquared-Agency/buddy/internal/composer"
	"github.com/MikeSquared-Agency/buddy/internal/config"
	"github.com/MikeSquared-Agency/buddy/internal/extractor"
	"github.com/MikeSquared-Agency/buddy/internal/hermes"
	"github.com/MikeSquared-Agency/buddy/internal/knowledge"
	"github.com/MikeSquared-Agency/buddy/internal/llm"
	"github.com/MikeSquared-Agency/buddy/internal/openai"
	"github.com/MikeSquared-Agency/buddy/internal/orchestrator"
	"github.com/MikeSquared-Agency/buddy/internal/policy"
	"github.com/MikeSquared-Agency/buddy/internal/profile"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("buddy starting", "port", cfg.Port, "provider", cfg.LLMProvider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// LLM provider
	if cfg.APIKey() == "" {
		slog.Error("no API key configured for provider", "provider", cfg.LLMProvider)
		os.Exit(1)
	}
	completer := newCompleter(cfg)
	slog.Info("llm client ready", "provider", cfg.LLMProvider, "model", cfg.Model)

	// Profile store (optional; without one Buddy runs with learning off)
	store, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open profile store", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer store.close()
	var learner *profile.Learner
	if store.Store != nil {
		learner = profile.NewLearner(store.Store, slog.Default(), cfg.StoreTimeout)
		slog.Info("profile store ready", "store", store.name)
	} else {
		slog.Warn("no profile store, running without learning")
	}

	// Behavior library
	library, err := loadLibrary(cfg)
	if err != nil {
		slog.Error("failed to load behavior library", "error", err)
		os.Exit(1)
	}
	slog.Info("behavior library loaded", "scenarios", library.Len())
	if cfg.LibraryDir != "" && cfg.LibraryWatch {
		go func() {
			if err := knowledge.Watch(ctx, cfg.LibraryDir, library, slog.Default()); err != nil {
				slog.Error("library watcher stopped", "error", err)
			}
		}()
	}

	// NATS/Hermes
	hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer hermesClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	orch := orchestrator.New(
		extractor.New(completer, slog.Default(), cfg.LLMTimeout),
		policy.New(completer, slog.Default(), cfg.LLMTimeout),
		composer.New(completer, slog.Default(), cfg.LLMTimeout),
		library,
		learner,
		hermesClient,
		slog.Default(),
	)

	if err := hermesClient.Handle(hermes.SubjectChatRequest, hermes.QueueGroup, orch.HandleChatRequest); err != nil {
		slog.Error("failed to serve chat requests", "error", err)
		os.Exit(1)
	}
	if err := hermesClient.Handle(hermes.SubjectLearningRequest, hermes.QueueGroup, orch.HandleLearningRequest); err != nil {
		slog.Error("failed to serve learning requests", "error", err)
		os.Exit(1)
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, api.Info{
		Provider:         cfg.LLMProvider,
		Model:            cfg.Model,
		APIKeyConfigured: cfg.APIKey() != "",
		Store:            store.name,
		LearningEnabled:  orch.LearningEnabled(),
		Scenarios:        library.Len,
		NATSConnected:    hermesClient.Connected,
	})
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if err := hermesClient.Publish(hermes.SubjectRegistered, map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      cfg.Port,
		"learning":  orch.LearningEnabled(),
	}); err != nil {
		slog.Warn("failed to publish registration", "error", err)
	}

	slog.Info("buddy ready", "port", cfg.Port, "store", store.name)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown", "error", err)
	}
	slog.Info("buddy stopped")
}

func newCompleter(cfg config.Config) llm.Completer {
	if cfg.LLMProvider == "openai" {
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model, option.WithRequestTimeout(cfg.LLMTimeout))
	}
	return anthropic.NewClient(cfg.AnthropicAPIKey, cfg.Model, cfg.LLMTimeout)
}

func loadLibrary(cfg config.Config) (*knowledge.Library, error) {
	if cfg.LibraryDir == "" {
		return knowledge.Default(slog.Default())
	}
	entries, err := knowledge.Load(cfg.LibraryDir, slog.Default())
	if err != nil {
		return nil, err
	}
	return knowledge.NewLibrary(entries), nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
