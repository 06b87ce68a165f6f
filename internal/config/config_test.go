package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var allKeys = []string{
	"BUDDY_PORT", "NATS_URL", "NATS_TOKEN", "LOG_LEVEL", "LLM_PROVIDER",
	"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "OPENAI_BASE_URL", "BUDDY_MODEL",
	"LLM_TIMEOUT", "DATABASE_URL", "MONGO_URI", "MONGO_DATABASE", "BUDDY_STORE",
	"STORE_TIMEOUT", "BEHAVIOR_LIBRARY_DIR", "BEHAVIOR_LIBRARY_WATCH",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
	// Keep a developer's .env out of the test.
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Port != 8760 {
		t.Errorf("expected default port 8760, got %d", cfg.Port)
	}
	if cfg.NatsURL != "nats://hermes:4222" {
		t.Errorf("expected default nats url, got %s", cfg.NatsURL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.LLMProvider != "anthropic" {
		t.Errorf("expected default provider anthropic, got %s", cfg.LLMProvider)
	}
	if cfg.Model != "claude-sonnet-4-20250514" {
		t.Errorf("expected default model, got %s", cfg.Model)
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Errorf("expected 30s llm timeout, got %s", cfg.LLMTimeout)
	}
	if cfg.Store != "auto" {
		t.Errorf("expected store auto, got %s", cfg.Store)
	}
	if cfg.MongoDatabase != "buddy_ai" {
		t.Errorf("expected default mongo database, got %s", cfg.MongoDatabase)
	}
	if cfg.StoreTimeout != 5*time.Second {
		t.Errorf("expected 5s store timeout, got %s", cfg.StoreTimeout)
	}
	if cfg.LibraryDir != "" || !cfg.LibraryWatch {
		t.Errorf("expected embedded library with watch on, got %q %v", cfg.LibraryDir, cfg.LibraryWatch)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("BUDDY_PORT", "9999")
	t.Setenv("NATS_URL", "nats://custom:4222")
	t.Setenv("NATS_TOKEN", "s3cr3t-token")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("BUDDY_MODEL", "gpt-4o-mini")
	t.Setenv("LLM_TIMEOUT", "45s")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("BUDDY_STORE", "mongo")
	t.Setenv("STORE_TIMEOUT", "2s")
	t.Setenv("BEHAVIOR_LIBRARY_DIR", "/etc/buddy/library")
	t.Setenv("BEHAVIOR_LIBRARY_WATCH", "false")

	cfg := Load()

	if cfg.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Port)
	}
	if cfg.NatsToken != "s3cr3t-token" {
		t.Errorf("expected custom nats token, got %s", cfg.NatsToken)
	}
	if cfg.LLMProvider != "openai" || cfg.APIKey() != "sk-openai" {
		t.Errorf("expected openai provider with its key, got %s %q", cfg.LLMProvider, cfg.APIKey())
	}
	if cfg.OpenAIBaseURL != "http://localhost:11434/v1" {
		t.Errorf("expected custom base url, got %s", cfg.OpenAIBaseURL)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("expected custom model, got %s", cfg.Model)
	}
	if cfg.LLMTimeout != 45*time.Second {
		t.Errorf("expected 45s, got %s", cfg.LLMTimeout)
	}
	if cfg.Store != "mongo" || cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("unexpected store config %s %s", cfg.Store, cfg.MongoURI)
	}
	if cfg.StoreTimeout != 2*time.Second {
		t.Errorf("expected 2s, got %s", cfg.StoreTimeout)
	}
	if cfg.LibraryDir != "/etc/buddy/library" || cfg.LibraryWatch {
		t.Errorf("unexpected library config %q %v", cfg.LibraryDir, cfg.LibraryWatch)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("BUDDY_PORT", "notanumber")
	t.Setenv("LLM_TIMEOUT", "soon")
	t.Setenv("BEHAVIOR_LIBRARY_WATCH", "maybe")

	cfg := Load()

	if cfg.Port != 8760 {
		t.Errorf("expected default port on invalid value, got %d", cfg.Port)
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Errorf("expected default timeout on invalid value, got %s", cfg.LLMTimeout)
	}
	if !cfg.LibraryWatch {
		t.Error("expected default watch on invalid value")
	}
}

func TestLoad_Dotenv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("BUDDY_MODEL")
	os.Unsetenv("BUDDY_PORT")

	dir, _ := os.Getwd()
	content := "BUDDY_MODEL=from-dotenv\nBUDDY_PORT=7000\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("BUDDY_MODEL")
		os.Unsetenv("BUDDY_PORT")
	})

	cfg := Load()

	if cfg.Model != "from-dotenv" {
		t.Errorf("expected model from .env, got %s", cfg.Model)
	}
	if cfg.Port != 7000 {
		t.Errorf("expected port from .env, got %d", cfg.Port)
	}
}

func TestLoad_EnvWinsOverDotenv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BUDDY_MODEL", "from-env")

	dir, _ := os.Getwd()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("BUDDY_MODEL=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if cfg := Load(); cfg.Model != "from-env" {
		t.Errorf("expected environment to win, got %s", cfg.Model)
	}
}
