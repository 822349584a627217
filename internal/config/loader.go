package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "BISHBASH_"
	envFileVar = "BISHBASH_CONFIG"
	dotEnvFile = ".env"
)

// legacyKeys are the unprefixed variables the serverless deployments already set.
var legacyKeys = map[string]func(*Config) *string{
	"OPENAI_API_KEY": func(c *Config) *string { return &c.OpenAIAPIKey },
	"GEMINI_API_KEY": func(c *Config) *string { return &c.GeminiAPIKey },
	"BING_API_KEY":   func(c *Config) *string { return &c.BingAPIKey },
	"SERPAPI_KEY":    func(c *Config) *string { return &c.SerpAPIKey },
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if BISHBASH_CONFIG is set
//  3. env (prefix BISHBASH_); a .env file in the working directory is read first
//  4. legacy unprefixed API key variables fill keys that are still empty
func Load(_ context.Context) (*Config, error) {
	// A missing .env is the normal case in production.
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, dotEnvFile, err)
	}

	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// BISHBASH_CACHE_SIZE -> cache_size. Underscores are kept to match the koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	for name, field := range legacyKeys {
		if dst := field(&cfg); *dst == "" {
			*dst = os.Getenv(name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks invariants that would otherwise surface as confusing runtime failures.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LLMProvider != ProviderOpenAI && c.LLMProvider != ProviderGemini:
		return fmt.Errorf("%w: llm_provider must be %q or %q, got %q", ErrInvalidConfig, ProviderOpenAI, ProviderGemini, c.LLMProvider)
	case c.UpstreamTimeoutMS <= 0:
		return fmt.Errorf("%w: upstream_timeout_ms must be positive", ErrInvalidConfig)
	case c.CacheTTLSeconds < 0:
		return fmt.Errorf("%w: cache_ttl_seconds must not be negative", ErrInvalidConfig)
	}
	return nil
}
