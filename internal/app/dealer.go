package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gilberto978/bishbash-api/internal/adapters/cache"
	"github.com/gilberto978/bishbash-api/internal/adapters/dnscheck"
	"github.com/gilberto978/bishbash-api/internal/adapters/llm"
	"github.com/gilberto978/bishbash-api/internal/adapters/search"
	"github.com/gilberto978/bishbash-api/internal/adapters/whois"
	"github.com/gilberto978/bishbash-api/internal/domain/domainname"
	"github.com/gilberto978/bishbash-api/internal/domain/evidence"
	"github.com/gilberto978/bishbash-api/internal/domain/registry"
	"github.com/gilberto978/bishbash-api/internal/domain/verdict"
	"github.com/gilberto978/bishbash-api/pkg/logger"
	"github.com/gilberto978/bishbash-api/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	dealerResults     = 10
	youngDomainDays   = 180
	noResolveRedFlag  = "Domain does not resolve"
	dealerTemperature = 0.3
	dealerMaxTokens   = 200
)

// DealerReport is the verdict for a watch dealer domain.
type DealerReport struct {
	Domain     string           `json:"domain"`
	Verdict    string           `json:"verdict"`
	Color      string           `json:"color"`
	Summary    string           `json:"summary"`
	Dealer     *registry.Dealer `json:"dealer,omitempty"`
	ScamReport *registry.Report `json:"scam_report,omitempty"`
	Whois      *whois.Record    `json:"whois,omitempty"`
	DNS        *dnscheck.Result `json:"dns,omitempty"`
	evidence.Report

	level verdict.Verdict
}

// Level returns the classification behind the display label.
func (r *DealerReport) Level() verdict.Verdict { return r.level }

// CheckDealer classifies a watch dealer domain. Only the static tables can
// make a dealer Trusted or a Scam; live evidence can at most raise High Risk.
func (s *Service) CheckDealer(ctx context.Context, query string) (*DealerReport, error) {
	const op = "service.CheckDealer"
	reg, err := s.ready(op)
	if err != nil {
		return nil, err
	}

	domain, err := domainname.Normalize(query)
	if err != nil {
		return nil, invalid(op, "Missing query term")
	}

	if rep, ok := reg.ScamReport(domain); ok {
		metrics.RecordStaticTableHit(registry.TableScammerBlacklist)
		out := s.finishDealer(domain, verdict.Scam,
			fmt.Sprintf("Reported by %s on %s: %s", rep.Source, rep.Date, rep.Reason),
			evidence.Report{
				RedFlags: []string{rep.Reason},
				Sources:  []evidence.Source{{Title: rep.Source, URL: rep.URL}},
			})
		out.ScamReport = &rep
		return out, nil
	}
	if dealer, ok := reg.TrustedDealer(domain); ok {
		metrics.RecordStaticTableHit(registry.TableTrustedDealers)
		out := s.finishDealer(domain, verdict.Trusted, dealer.Info, evidence.Report{})
		out.Dealer = &dealer
		return out, nil
	}

	key := cache.Key(EndpointDealer, domain)
	if cached, ok := s.dealerCache.Get(key); ok {
		metrics.RecordVerdict(EndpointDealer, string(cached.level))
		return cached, nil
	}

	var (
		rec          *whois.Record
		dns          *dnscheck.Result
		forum, pages []search.Result
	)
	// Every branch is optional; failures only narrow the evidence.
	var g errgroup.Group
	if s.whois != nil {
		g.Go(func() error {
			r, err := s.whois.Lookup(ctx, domain)
			if err != nil {
				s.logger.Warn(ctx, "whois lookup failed", logger.String("domain", domain), logger.Error(err))
				return nil
			}
			rec = &r
			return nil
		})
	}
	if s.dns != nil {
		g.Go(func() error {
			r, err := s.dns.Check(ctx, domain)
			if err != nil {
				s.logger.Warn(ctx, "dns check failed", logger.String("domain", domain), logger.Error(err))
				return nil
			}
			dns = &r
			return nil
		})
	}
	if s.forum != nil {
		g.Go(func() error {
			forum = s.searchQuietly(ctx, s.forum, `"`+domain+`"`)
			return nil
		})
	}
	if ws := s.dealerSearch(); ws != nil {
		g.Go(func() error {
			pages = s.searchQuietly(ctx, ws, domain+" scam OR review OR legit watch dealer")
			return nil
		})
	}
	_ = g.Wait()

	var c evidence.Collector
	if rec != nil && rec.Found && rec.AgeDays >= 0 && rec.AgeDays < youngDomainDays {
		c.AddRedFlag(fmt.Sprintf("Domain registered %d days ago", rec.AgeDays))
	}
	if dns != nil && !dns.Resolves {
		c.AddRedFlag(noResolveRedFlag)
	}
	for _, r := range forum {
		c.Observe(r.Title, r.URL, r.Snippet)
	}
	for _, r := range pages {
		c.Observe(r.Title, r.URL, r.Snippet)
	}
	report := c.Report()

	v := verdict.Caution
	if len(report.RedFlags) > 0 {
		v = verdict.HighRisk
	}

	summary := dealerSummary(domain, v, report, dns)
	if s.llm != nil && (len(report.Reviews) > 0 || len(report.RedFlags) > 0) {
		if text, err := s.summarizeDealer(ctx, domain, report); err != nil {
			s.logger.Warn(ctx, "dealer summary failed", logger.String("domain", domain), logger.Error(err))
		} else if strings.TrimSpace(text) != "" {
			summary = text
		}
	}

	out := s.finishDealer(domain, v, summary, report)
	out.Whois = rec
	out.DNS = dns
	s.dealerCache.Add(key, out)
	return out, nil
}

func (s *Service) searchQuietly(ctx context.Context, ws search.WebSearcher, q string) []search.Result {
	results, err := ws.Search(ctx, q, dealerResults)
	if err != nil {
		s.logger.Warn(ctx, "dealer search failed", logger.String("query", q), logger.Error(err))
		return nil
	}
	if len(results) > dealerResults {
		results = results[:dealerResults]
	}
	return results
}

func (s *Service) summarizeDealer(ctx context.Context, domain string, report evidence.Report) (string, error) {
	var b strings.Builder
	for _, f := range report.RedFlags {
		b.WriteString("Red flag: " + f + "\n")
	}
	for _, r := range report.Reviews {
		b.WriteString("Review: " + r + "\n")
	}
	return s.llm.Complete(ctx, llm.Prompt{
		System:      dealerSystemPrompt,
		User:        fmt.Sprintf(dealerUserPrompt, domain, b.String()),
		Temperature: dealerTemperature,
		MaxTokens:   dealerMaxTokens,
	})
}

func dealerSummary(domain string, v verdict.Verdict, report evidence.Report, dns *dnscheck.Result) string {
	var summary string
	switch {
	case v == verdict.HighRisk:
		summary = fmt.Sprintf("%d red flag(s) found for %s. Verify the dealer independently before paying.", len(report.RedFlags), domain)
	case len(report.Reviews) > 0:
		summary = fmt.Sprintf("No red flags found for %s, but it is not on the trusted dealer list. Verify before paying.", domain)
	default:
		summary = fmt.Sprintf("Not enough public evidence about %s. Verify the dealer independently before paying.", domain)
	}
	if dns != nil && dns.Resolves && !dns.HasMX {
		summary += " The domain has no mail (MX) records."
	}
	return summary
}

func (s *Service) finishDealer(domain string, v verdict.Verdict, summary string, report evidence.Report) *DealerReport {
	metrics.RecordVerdict(EndpointDealer, string(v))
	return &DealerReport{
		Domain:  domain,
		Verdict: v.Label(),
		Color:   v.Color(),
		Summary: summary,
		Report:  normalizeReport(report),
		level:   v,
	}
}
