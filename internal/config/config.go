package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      int
	NatsURL   string
	NatsToken string
	LogLevel  string

	LLMProvider     string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	Model           string
	LLMTimeout      time.Duration

	Store         string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	StoreTimeout  time.Duration

	LibraryDir   string
	LibraryWatch bool
}

// Load reads the environment, after applying a .env file from the working
// directory if one exists. Variables already set win over the file.
func Load() Config {
	LoadDotenv(".env")

	return Config{
		Port:      envInt("BUDDY_PORT", 8760),
		NatsURL:   envStr("NATS_URL", "nats://hermes:4222"),
		NatsToken: envStr("NATS_TOKEN", ""),
		LogLevel:  envStr("LOG_LEVEL", "info"),

		LLMProvider:     envStr("LLM_PROVIDER", "anthropic"),
		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    envStr("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   envStr("OPENAI_BASE_URL", ""),
		Model:           envStr("BUDDY_MODEL", "claude-sonnet-4-20250514"),
		LLMTimeout:      envDuration("LLM_TIMEOUT", 30*time.Second),

		Store:         envStr("BUDDY_STORE", "auto"),
		DatabaseURL:   envStr("DATABASE_URL", ""),
		MongoURI:      envStr("MONGO_URI", ""),
		MongoDatabase: envStr("MONGO_DATABASE", "buddy_ai"),
		StoreTimeout:  envDuration("STORE_TIMEOUT", 5*time.Second),

		LibraryDir:   envStr("BEHAVIOR_LIBRARY_DIR", ""),
		LibraryWatch: envBool("BEHAVIOR_LIBRARY_WATCH", true),
	}
}

// LoadDotenv applies path to the environment. A missing file is not an error.
func LoadDotenv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read env file", "path", path, "error", err)
	}
}

// APIKey returns the key for the configured provider.
func (c Config) APIKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.AnthropicAPIKey
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
