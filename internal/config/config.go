package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Server     ServerConfig
	Generation GenerationConfig
	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Language   LanguageConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type GenerationConfig struct {
	Provider string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type LanguageConfig struct {
	Default      string
	ProfilesFile string
}

type LoggingConfig struct {
	Level  string
	File   string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("HOST", ""),
			Port:            getEnvInt("PORT", 5001),
			ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Generation: GenerationConfig{
			Provider: strings.ToLower(getEnv("GENERATION_PROVIDER", ProviderGemini)),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-flash-latest"),
			BaseURL: getEnv("GEMINI_BASE_URL", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		Language: LanguageConfig{
			Default:      strings.ToLower(getEnv("DEFAULT_LANGUAGE", "")),
			ProfilesFile: getEnv("LANGUAGE_PROFILES_FILE", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			File:   getEnv("LOG_FILE", ""),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks structural settings only. A missing API key is not an
// error: the process starts and the first generation call fails instead.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Generation.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("GENERATION_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, c.Generation.Provider)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// MissingCredential returns the name of the API key variable the selected
// provider needs when it is unset, or "" when the key is present.
func (c *Config) MissingCredential() string {
	switch c.Generation.Provider {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return "OPENAI_API_KEY"
		}
	default:
		if c.Gemini.APIKey == "" {
			return "GEMINI_API_KEY"
		}
	}
	return ""
}

// Model returns the model name of the selected provider.
func (c *Config) Model() string {
	if c.Generation.Provider == ProviderOpenAI {
		return c.OpenAI.Model
	}
	return c.Gemini.Model
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
