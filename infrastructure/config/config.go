package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Logging
	LogLevel string

	// CORS
	EnableCORS     bool
	AllowedOrigins []string

	// Model provider configuration
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string
	GroqModel    string
	GroqBaseURL  string
	SystemPrompt string

	// Enrichment caches
	WebsiteCacheSize int
	VideoCacheSize   int

	// API requests per minute per client IP, 0 disables limiting
	RateLimitPerMinute int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENABLE_CORS", true)
	v.SetDefault("ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("PROVIDER", "gemini")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("GROQ_MODEL", "llama-3.3-70b-versatile")
	v.SetDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1")
	v.SetDefault("SYSTEM_PROMPT", defaultSystemPrompt)
	v.SetDefault("WEBSITE_CACHE_SIZE", 128)
	v.SetDefault("VIDEO_CACHE_SIZE", 256)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 600)

	cfg := &Config{
		ServerAddress:    v.GetString("SERVER_ADDRESS"),
		Environment:      v.GetString("ENVIRONMENT"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		EnableCORS:       v.GetBool("ENABLE_CORS"),
		AllowedOrigins:   v.GetStringSlice("ALLOWED_ORIGINS"),
		Provider:         v.GetString("PROVIDER"),
		GeminiAPIKey:     v.GetString("GEMINI_API_KEY"),
		GeminiModel:      v.GetString("GEMINI_MODEL"),
		GroqAPIKey:       v.GetString("GROQ_API_KEY"),
		GroqModel:        v.GetString("GROQ_MODEL"),
		GroqBaseURL:      v.GetString("GROQ_BASE_URL"),
		SystemPrompt:     v.GetString("SYSTEM_PROMPT"),
		WebsiteCacheSize: v.GetInt("WEBSITE_CACHE_SIZE"),
		VideoCacheSize:   v.GetInt("VIDEO_CACHE_SIZE"),

		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.Provider {
	case "gemini", "groq":
	default:
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}

	if c.IsProduction() {
		if c.Provider == "gemini" && c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required in production")
		}
		if c.Provider == "groq" && c.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required in production")
		}
	}

	return nil
}

// ProviderAPIKey returns the API key for the configured provider
func (c *Config) ProviderAPIKey() string {
	if c.Provider == "groq" {
		return c.GroqAPIKey
	}
	return c.GeminiAPIKey
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

const defaultSystemPrompt = "You are a helpful assistant embedded in an infinite canvas workspace. " +
	"Content from canvas elements connected to this conversation is provided as context. " +
	"Use it to ground your answers, and say so when the context does not cover the question."
