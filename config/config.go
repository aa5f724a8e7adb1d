package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// Config holds application configuration. It is loaded once in main and
// passed to the components that need it.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string
	DataDir  string

	DatabaseURL string
	RedisURL    string
	CacheTTL    time.Duration

	JWTSecret  string
	SessionTTL time.Duration

	LLMProvider      string
	LLMTimeout       time.Duration
	GeminiAPIKey     string
	GeminiModel      string
	OpenRouterAPIKey string
	OpenRouterModel  string
	OpenRouterURL    string
}

// Load reads a .env file when present, then the process environment.
// Environment variables win over .env values.
func Load() (Config, bool, error) {
	envLoaded := godotenv.Load() == nil

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		Port:             v.GetString("PORT"),
		AppEnv:           v.GetString("APP_ENV"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		DataDir:          v.GetString("DATA_DIR"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		RedisURL:         v.GetString("REDIS_URL"),
		CacheTTL:         v.GetDuration("CACHE_TTL"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		SessionTTL:       v.GetDuration("SESSION_TTL"),
		LLMProvider:      strings.ToLower(v.GetString("LLM_PROVIDER")),
		LLMTimeout:       v.GetDuration("LLM_TIMEOUT"),
		GeminiAPIKey:     v.GetString("GEMINI_API_KEY"),
		GeminiModel:      v.GetString("GEMINI_MODEL"),
		OpenRouterAPIKey: v.GetString("OPENROUTER_API_KEY"),
		OpenRouterModel:  v.GetString("OPENROUTER_MODEL"),
		OpenRouterURL:    v.GetString("OPENROUTER_URL"),
	}

	return cfg, envLoaded, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("LLM_PROVIDER", ProviderGemini)
	v.SetDefault("LLM_TIMEOUT", "30s")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("OPENROUTER_MODEL", "openai/gpt-4o")
	v.SetDefault("OPENROUTER_URL", "https://openrouter.ai/api/v1/chat/completions")
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	switch c.LLMProvider {
	case ProviderGemini, ProviderOpenRouter:
	default:
		return errors.New("LLM_PROVIDER must be gemini or openrouter")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}
