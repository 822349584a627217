package service

import (
	"context"

	"github.com/gilberto978/bishbash-api/internal/adapters/dnscheck"
	"github.com/gilberto978/bishbash-api/internal/adapters/llm"
	"github.com/gilberto978/bishbash-api/internal/adapters/regulator"
	"github.com/gilberto978/bishbash-api/internal/adapters/search"
	"github.com/gilberto978/bishbash-api/internal/adapters/upstream"
	"github.com/gilberto978/bishbash-api/internal/adapters/whois"
	"github.com/gilberto978/bishbash-api/internal/config"
	"github.com/gilberto978/bishbash-api/pkg/logger"
)

// FromConfig builds a Service with every provider cfg has credentials for.
// Keyless providers (Reddit, FCA, RDAP, DNS) are always wired.
func FromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) (*Service, error) {
	hc := upstream.New(
		upstream.WithTimeout(cfg.UpstreamTimeout()),
		upstream.WithUserAgent(cfg.UserAgent),
	)

	completer, err := llm.FromConfig(ctx, cfg, hc)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithLogger(log),
		WithTablesDir(cfg.TablesDir),
		WithLLM(completer),
		WithForumSearch(search.NewReddit(hc, cfg.RedditBaseURL)),
		WithWhois(whois.NewRDAP(hc, cfg.RDAPBaseURL)),
		WithDNS(dnscheck.NewResolver(cfg.DNSServer, cfg.UpstreamTimeout())),
		WithCache(cfg.CacheSize, cfg.CacheTTL()),
		WithNewsSummary(cfg.NewsSummary),
	}

	fca := regulator.NewFCA(hc, cfg.FCABaseURL)
	if cfg.BingAPIKey != "" {
		bing := search.NewBing(hc, cfg.BingAPIKey, cfg.BingBaseURL)
		opts = append(opts,
			WithWebSearch(bing),
			WithNewsSearch(bing),
			WithRegulators(fca, regulator.NewCySEC(bing)),
		)
	} else {
		opts = append(opts, WithRegulators(fca, nil))
	}
	if cfg.SerpAPIKey != "" {
		opts = append(opts, WithSerpAPI(search.NewSerpAPI(hc, cfg.SerpAPIKey, cfg.SerpAPIBaseURL)))
	}

	return New(opts...), nil
}
