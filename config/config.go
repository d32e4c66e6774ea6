package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Meilisearch MeilisearchConfig
	Indexer     IndexerConfig
	HTTP        HTTPConfig
	Auth        AuthConfig
}

type MeilisearchConfig struct {
	Host    string
	APIKey  string
	Timeout time.Duration
}

type IndexerConfig struct {
	ChunkSize  int
	MaxRetries int
	RetryDelay time.Duration
}

type HTTPConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
}

type AuthConfig struct {
	Secret  string
	Enabled bool
}

// ConfigurationError reports a missing or unusable required setting. It is
// fatal: no operation may be attempted without a valid configuration.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Field + " is not set"
}

func Load() (*Config, error) {
	host := getEnvOrDefault("MEILISEARCH_HOST", "")
	if host == "" {
		return nil, &ConfigurationError{Field: "MEILISEARCH_HOST"}
	}
	apiKey := getEnvOrDefault("MEILISEARCH_API_KEY", "")
	if apiKey == "" {
		return nil, &ConfigurationError{Field: "MEILISEARCH_API_KEY"}
	}

	authSecret := getEnvOrDefault("SEARCH_AUTH_SECRET", "")

	cfg := &Config{
		Meilisearch: MeilisearchConfig{
			Host:    host,
			APIKey:  apiKey,
			Timeout: getEnvDuration("MEILISEARCH_TIMEOUT", 15*time.Second),
		},
		Indexer: IndexerConfig{
			ChunkSize:  getEnvInt("SEARCH_CHUNK_SIZE", 1000),
			MaxRetries: getEnvInt("SEARCH_MAX_RETRIES", 3),
			RetryDelay: getEnvDuration("SEARCH_RETRY_DELAY", 500*time.Millisecond),
		},
		HTTP: HTTPConfig{
			Addr:              getEnvOrDefault("HTTP_ADDR", ":9300"),
			ReadHeaderTimeout: 5 * time.Second,
		},
		Auth: AuthConfig{
			Secret:  authSecret,
			Enabled: authSecret != "",
		},
	}
	return cfg, nil
}

// EntityTypes reads the comma-separated entity type list registered for this
// deployment.
func EntityTypes() []string {
	raw := getEnvOrDefault("SEARCH_ENTITY_TYPES", "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
