package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Placeholder credentials shipped in example configs. Submissions are
// rejected while these are still in place, but startup is allowed so
// translation keeps working without a CreoleCentric account.
const (
	PlaceholderAPIKey = "DEV_KEY_123"
	PlaceholderUserID = "dev"
)

type Config struct {
	// Server
	APIPort            string
	CorsAllowedOrigins string // Comma-separated allowed origins (empty = *, dev mode)
	StaticDir          string // Directory served at / (empty or missing = disabled)

	// CreoleCentric (TTS provider)
	CreoleCentricAPIKey  string
	CreoleCentricUserID  string
	CreoleCentricBaseURL string

	// Translation (public Google endpoint, no key required)
	TranslateBaseURL string

	// Translation cache
	RedisURL          string // Empty = in-memory cache
	TranslateCacheTTL int    // Seconds; <= 0 means entries never expire
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:              getEnv("API_PORT", "3000"),
		CorsAllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", ""),
		StaticDir:            getEnv("STATIC_DIR", "public"),
		CreoleCentricAPIKey:  getEnv("CREOLECENTRIC_API_KEY", PlaceholderAPIKey),
		CreoleCentricUserID:  getEnv("CREOLECENTRIC_USER_ID", PlaceholderUserID),
		CreoleCentricBaseURL: getEnv("CREOLECENTRIC_BASE_URL", "https://api.creolecentric.com/v1"),
		TranslateBaseURL:     getEnv("TRANSLATE_BASE_URL", "https://translate.googleapis.com"),
		RedisURL:             getEnv("REDIS_URL", ""),
		TranslateCacheTTL:    getEnvInt("TRANSLATE_CACHE_TTL", 3600),
	}

	// Credentials are deliberately not validated here: placeholder
	// detection happens at submission time so the rest of the API
	// stays usable.
	return cfg, nil
}

// HasPlaceholderCredentials reports whether the operator never replaced
// the sentinel CreoleCentric credentials.
func (c *Config) HasPlaceholderCredentials() bool {
	return c.CreoleCentricAPIKey == PlaceholderAPIKey || c.CreoleCentricUserID == PlaceholderUserID
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}
