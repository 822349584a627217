// Package service implements the advice and trust-check pipelines behind the HTTP API.
//
// Each pipeline follows the same shape: normalize the input, consult the static
// tables, call the configured providers, classify the evidence and return a
// verdict. Providers are optional; a missing one narrows the evidence instead
// of failing the request, except where a pipeline cannot answer without it.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/gilberto978/bishbash-api/internal/adapters/cache"
	"github.com/gilberto978/bishbash-api/internal/adapters/dnscheck"
	"github.com/gilberto978/bishbash-api/internal/adapters/llm"
	"github.com/gilberto978/bishbash-api/internal/adapters/regulator"
	"github.com/gilberto978/bishbash-api/internal/adapters/search"
	"github.com/gilberto978/bishbash-api/internal/adapters/whois"
	"github.com/gilberto978/bishbash-api/internal/domain/registry"
	"github.com/gilberto978/bishbash-api/pkg/logger"
)

// Endpoint names used for cache keys, metrics and logs.
const (
	EndpointAsk      = "ask"
	EndpointShove    = "bishbash"
	EndpointBroker   = "checkBroker"
	EndpointSketch   = "sketchCheck"
	EndpointDealer   = "dealerCheck"
	EndpointNews     = "freshNews"
	defaultCacheSize = 1024
	defaultCacheTTL  = 10 * time.Minute
)

// Service runs the pipelines. Configure it with Options, then call Start before serving.
type Service struct {
	mu sync.RWMutex

	registry *registry.Registry
	llm      llm.Completer
	web      search.WebSearcher
	serp     search.WebSearcher
	forum    search.WebSearcher
	news     search.NewsSearcher
	fca      regulator.Checker
	cysec    regulator.Checker
	whois    whois.Looker
	dns      dnscheck.Checker

	// Configuration
	tablesDir   string
	cacheSize   int
	cacheTTL    time.Duration
	newsSummary bool
	now         func() time.Time

	brokerCache *cache.Cache[*BrokerReport]
	sketchCache *cache.Cache[*SketchReport]
	dealerCache *cache.Cache[*DealerReport]

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRegistry uses reg instead of loading the static tables on Start.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Service) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithTablesDir merges YAML tables from dir on top of the embedded ones.
func WithTablesDir(dir string) Option {
	return func(s *Service) {
		s.tablesDir = dir
	}
}

// WithLLM sets the chat completion backend.
func WithLLM(c llm.Completer) Option {
	return func(s *Service) {
		if c != nil {
			s.llm = c
		}
	}
}

// WithWebSearch sets the general web search used for broker aggregation and CySEC notices.
func WithWebSearch(ws search.WebSearcher) Option {
	return func(s *Service) {
		if ws != nil {
			s.web = ws
		}
	}
}

// WithSerpAPI sets the reputation search used by domain and dealer checks.
func WithSerpAPI(ws search.WebSearcher) Option {
	return func(s *Service) {
		if ws != nil {
			s.serp = ws
		}
	}
}

// WithForumSearch sets the forum search (Reddit) used by dealer checks.
func WithForumSearch(ws search.WebSearcher) Option {
	return func(s *Service) {
		if ws != nil {
			s.forum = ws
		}
	}
}

// WithNewsSearch sets the headline source.
func WithNewsSearch(ns search.NewsSearcher) Option {
	return func(s *Service) {
		if ns != nil {
			s.news = ns
		}
	}
}

// WithRegulators sets the FCA and CySEC checkers. Either may be nil.
func WithRegulators(fca, cysec regulator.Checker) Option {
	return func(s *Service) {
		if fca != nil {
			s.fca = fca
		}
		if cysec != nil {
			s.cysec = cysec
		}
	}
}

// WithWhois sets the registration data lookup.
func WithWhois(w whois.Looker) Option {
	return func(s *Service) {
		if w != nil {
			s.whois = w
		}
	}
}

// WithDNS sets the DNS checker.
func WithDNS(d dnscheck.Checker) Option {
	return func(s *Service) {
		if d != nil {
			s.dns = d
		}
	}
}

// WithCache bounds the verdict caches. size <= 0 disables caching.
func WithCache(size int, ttl time.Duration) Option {
	return func(s *Service) {
		s.cacheSize = size
		if ttl >= 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithNewsSummary enables the LLM digest on news results.
func WithNewsSummary(enabled bool) Option {
	return func(s *Service) {
		s.newsSummary = enabled
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cacheSize: defaultCacheSize,
		cacheTTL:  defaultCacheTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the static tables and allocates the caches.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if s.registry == nil {
		reg, err := registry.Load(s.tablesDir)
		if err != nil {
			return err
		}
		s.registry = reg
	}

	s.brokerCache = cache.New[*BrokerReport](s.cacheSize, s.cacheTTL)
	s.sketchCache = cache.New[*SketchReport](s.cacheSize, s.cacheTTL)
	s.dealerCache = cache.New[*DealerReport](s.cacheSize, s.cacheTTL)

	s.started = true
	s.logger.Info(ctx, "bishbash service started",
		logger.Bool("llm", s.llm != nil),
		logger.Bool("web_search", s.web != nil),
		logger.Bool("serpapi", s.serp != nil),
		logger.Bool("news", s.news != nil),
		logger.Int("cache_size", s.cacheSize),
	)
	return nil
}

// Stop drops cached verdicts. The service can be started again.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.brokerCache.Purge()
	s.sketchCache.Purge()
	s.dealerCache.Purge()
	s.started = false
	s.logger.Info(context.Background(), "bishbash service stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
		"providers": map[string]bool{
			"llm":     s.llm != nil,
			"web":     s.web != nil,
			"serpapi": s.serp != nil,
			"forum":   s.forum != nil,
			"news":    s.news != nil,
			"fca":     s.fca != nil,
			"cysec":   s.cysec != nil,
			"whois":   s.whois != nil,
			"dns":     s.dns != nil,
		},
		"cacheSize": s.cacheSize,
	}
	if s.llm != nil {
		stats["llmProvider"] = s.llm.Provider()
	}
	if s.started {
		stats["tables"] = s.registry.Counts()
		stats["cached"] = map[string]int{
			EndpointBroker: s.brokerCache.Len(),
			EndpointSketch: s.sketchCache.Len(),
			EndpointDealer: s.dealerCache.Len(),
		}
	}
	return stats
}

// ready returns the registry or ErrNotStarted.
func (s *Service) ready(op string) (*registry.Registry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, &Error{Op: op, Kind: ErrNotStarted, Message: "Service not started"}
	}
	return s.registry, nil
}

// dealerSearch prefers SerpAPI and falls back to the general web search.
func (s *Service) dealerSearch() search.WebSearcher {
	if s.serp != nil {
		return s.serp
	}
	return s.web
}
