// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keys are flat snake_case so they map 1:1 onto BISHBASH_* env vars.
// - New() builds a Config with defaults; Load() layers file and env on top.
// - External errors are wrapped with this package's sentinel errors.
package config

import "time"

// LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// UserAgent is sent on every outbound request.
	UserAgent string `koanf:"user_agent"`
	// UpstreamTimeoutMS bounds each third-party call.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// LLMProvider selects the chat backend: openai or gemini.
	LLMProvider   string `koanf:"llm_provider"`
	OpenAIAPIKey  string `koanf:"openai_api_key"`
	OpenAIModel   string `koanf:"openai_model"`
	OpenAIBaseURL string `koanf:"openai_base_url"`
	GeminiAPIKey  string `koanf:"gemini_api_key"`
	GeminiModel   string `koanf:"gemini_model"`

	BingAPIKey     string `koanf:"bing_api_key"`
	BingBaseURL    string `koanf:"bing_base_url"`
	SerpAPIKey     string `koanf:"serpapi_key"`
	SerpAPIBaseURL string `koanf:"serpapi_base_url"`
	RedditBaseURL  string `koanf:"reddit_base_url"`
	RDAPBaseURL    string `koanf:"rdap_base_url"`
	FCABaseURL     string `koanf:"fca_base_url"`
	// DNSServer is host:port of the resolver used for domain checks.
	DNSServer string `koanf:"dns_server"`

	// TablesDir optionally points at extra static-table YAML files.
	TablesDir string `koanf:"tables_dir"`

	// CacheSize bounds the verdict cache; 0 disables it.
	CacheSize       int `koanf:"cache_size"`
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// RateLimitRPS and RateLimitBurst shape the per-client limiter on LLM endpoints.
	// RateLimitRPS <= 0 disables limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// NewsSummary asks the LLM for a digest on /api/freshNews.
	NewsSummary bool `koanf:"news_summary"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8080",
		UserAgent:         "Mozilla/5.0 (BishBash.ai MVP; +https://bishbash.ai)",
		UpstreamTimeoutMS: 15_000,
		LLMProvider:       ProviderOpenAI,
		OpenAIModel:       "gpt-4o-mini",
		OpenAIBaseURL:     "https://api.openai.com",
		GeminiModel:       "gemini-2.5-flash",
		BingBaseURL:       "https://api.bing.microsoft.com",
		SerpAPIBaseURL:    "https://serpapi.com",
		RedditBaseURL:     "https://www.reddit.com",
		RDAPBaseURL:       "https://rdap.org",
		FCABaseURL:        "https://register.fca.org.uk",
		DNSServer:         "1.1.1.1:53",
		CacheSize:         1024,
		CacheTTLSeconds:   600,
		RateLimitRPS:      1,
		RateLimitBurst:    5,
	}
}

// UpstreamTimeout returns UpstreamTimeoutMS as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
