package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_RequiredSettings(t *testing.T) {
	t.Run("missing host", func(t *testing.T) {
		t.Setenv("MEILISEARCH_HOST", "")
		t.Setenv("MEILISEARCH_API_KEY", "secret")

		_, err := Load()
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("Load() error = %v, want ConfigurationError", err)
		}
		if cfgErr.Field != "MEILISEARCH_HOST" {
			t.Errorf("Field = %q, want MEILISEARCH_HOST", cfgErr.Field)
		}
	})

	t.Run("missing api key", func(t *testing.T) {
		t.Setenv("MEILISEARCH_HOST", "http://localhost:7700")
		t.Setenv("MEILISEARCH_API_KEY", "")

		_, err := Load()
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("Load() error = %v, want ConfigurationError", err)
		}
		if cfgErr.Field != "MEILISEARCH_API_KEY" {
			t.Errorf("Field = %q, want MEILISEARCH_API_KEY", cfgErr.Field)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MEILISEARCH_HOST", "http://localhost:7700")
	t.Setenv("MEILISEARCH_API_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Indexer.ChunkSize != 1000 {
		t.Errorf("ChunkSize = %d, want 1000", cfg.Indexer.ChunkSize)
	}
	if cfg.Indexer.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.Indexer.MaxRetries)
	}
	if cfg.Indexer.RetryDelay != 500*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 500ms", cfg.Indexer.RetryDelay)
	}
	if cfg.HTTP.Addr != ":9300" {
		t.Errorf("Addr = %q, want :9300", cfg.HTTP.Addr)
	}
	if cfg.Auth.Enabled {
		t.Error("Auth should be disabled without a secret")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MEILISEARCH_HOST", "http://meili:7700")
	t.Setenv("MEILISEARCH_API_KEY", "secret")
	t.Setenv("SEARCH_CHUNK_SIZE", "250")
	t.Setenv("SEARCH_RETRY_DELAY", "2s")
	t.Setenv("SEARCH_AUTH_SECRET", "token-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Indexer.ChunkSize != 250 {
		t.Errorf("ChunkSize = %d, want 250", cfg.Indexer.ChunkSize)
	}
	if cfg.Indexer.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.Indexer.RetryDelay)
	}
	if !cfg.Auth.Enabled || cfg.Auth.Secret != "token-secret" {
		t.Errorf("Auth = %+v, want enabled with secret", cfg.Auth)
	}
}

func TestEntityTypes(t *testing.T) {
	t.Setenv("SEARCH_ENTITY_TYPES", "blog.post, shop.order ,")
	got := EntityTypes()
	if len(got) != 2 || got[0] != "blog.post" || got[1] != "shop.order" {
		t.Errorf("EntityTypes() = %v", got)
	}

	t.Setenv("SEARCH_ENTITY_TYPES", "")
	if got := EntityTypes(); got != nil {
		t.Errorf("EntityTypes() with empty env = %v, want nil", got)
	}
}
