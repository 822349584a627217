package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gilberto978/bishbash-api/internal/adapters/cache"
	"github.com/gilberto978/bishbash-api/internal/adapters/llm"
	"github.com/gilberto978/bishbash-api/internal/adapters/upstream"
	"github.com/gilberto978/bishbash-api/internal/domain/domainname"
	"github.com/gilberto978/bishbash-api/internal/domain/evidence"
	"github.com/gilberto978/bishbash-api/internal/domain/registry"
	"github.com/gilberto978/bishbash-api/internal/domain/verdict"
	"github.com/gilberto978/bishbash-api/pkg/logger"
	"github.com/gilberto978/bishbash-api/pkg/metrics"
)

const (
	sketchResults     = 10
	sketchSnippets    = 5
	sketchTemperature = 0.3
	sketchMaxTokens   = 200
	aiUnavailable     = "AI unavailable. Review sources below for context."
)

var (
	warningListSources = []evidence.Source{
		{Title: "FCA Warning List", URL: "https://www.fca.org.uk/consumers/warning-list-search"},
		{Title: "CySEC Warnings", URL: "https://www.cysec.gov.cy/en-GB/entities/investment-firms/cyprus-investment-firms-cif/warnings/"},
		{Title: "ASIC Warnings", URL: "https://asic.gov.au/online-services/search-warning-list/"},
	}
	registerSources = []evidence.Source{
		{Title: "FCA Register", URL: "https://register.fca.org.uk"},
		{Title: "ASIC Licensees", URL: "https://connectonline.asic.gov.au"},
		{Title: "CySEC Entities", URL: "https://www.cysec.gov.cy"},
	}
)

// SketchReport is the verdict for a domain.
type SketchReport struct {
	Domain  string            `json:"domain"`
	Verdict string            `json:"verdict"`
	Summary string            `json:"summary"`
	Sources []evidence.Source `json:"sources"`

	level verdict.Verdict
}

// Level returns the classification behind the display label.
func (r *SketchReport) Level() verdict.Verdict { return r.level }

// SketchCheck classifies a domain from the regulator tables, a reputation search and an LLM verdict.
func (s *Service) SketchCheck(ctx context.Context, query string) (*SketchReport, error) {
	const op = "service.SketchCheck"
	reg, err := s.ready(op)
	if err != nil {
		return nil, err
	}

	domain, err := domainname.Normalize(query)
	if err != nil {
		return nil, invalid(op, "Missing query term")
	}

	if reg.RegulatorBlacklisted(domain) {
		metrics.RecordStaticTableHit(registry.TableRegulatorBlacklist)
		return s.finishSketch(domain, verdict.HighRisk,
			fmt.Sprintf("This domain (%s) appears on regulator warning lists.", domain), warningListSources), nil
	}
	if summary, ok := reg.TrustedBroker(domain); ok {
		metrics.RecordStaticTableHit(registry.TableTrustedBrokers)
		return s.finishSketch(domain, verdict.Trusted, summary, registerSources), nil
	}

	key := cache.Key(EndpointSketch, domain)
	if cached, ok := s.sketchCache.Get(key); ok {
		metrics.RecordVerdict(EndpointSketch, string(cached.level))
		return cached, nil
	}

	if s.serp == nil {
		return nil, notConfigured(op, "Missing SERPAPI_KEY")
	}
	q := domain + " scam fraud complaints reviews site:trustpilot.com OR site:reddit.com OR site:bbb.org OR site:forexpeacearmy.com"
	// Provider failures degrade the report, which is then not cached.
	cacheable := true
	results, err := s.serp.Search(ctx, q, sketchResults)
	switch {
	case errors.Is(err, upstream.ErrStatus):
		s.logger.Warn(ctx, "sketch search rejected", logger.String("domain", domain), logger.Error(err))
		results, cacheable = nil, false
	case err != nil:
		s.logger.Warn(ctx, "sketch search failed", logger.String("domain", domain), logger.Error(err))
		return nil, upstreamErr(op, "Internal error", err, true)
	}

	snippets := make([]string, 0, sketchSnippets)
	sources := make([]evidence.Source, 0, len(results))
	for i, r := range results {
		if i < sketchSnippets {
			snippets = append(snippets, r.Snippet)
		}
		sources = append(sources, evidence.Source{Title: r.Title, URL: r.URL})
	}
	sources = evidence.DedupSources(sources, sketchResults)

	var out *SketchReport
	if s.llm == nil {
		out = s.finishSketch(domain, verdict.Caution, aiUnavailable, sources)
	} else {
		msg, err := s.llm.Complete(ctx, llm.Prompt{
			System:      sketchSystemPrompt,
			User:        fmt.Sprintf(sketchUserPrompt, domain, strings.Join(snippets, " ")),
			Temperature: sketchTemperature,
			MaxTokens:   sketchMaxTokens,
		})
		var apiErr *llm.APIError
		switch {
		case errors.As(err, &apiErr):
			s.logger.Warn(ctx, "sketch provider error", logger.String("domain", domain), logger.Error(err))
			msg, cacheable = "", false
		case err != nil:
			s.logger.Warn(ctx, "sketch completion failed", logger.String("domain", domain), logger.Error(err))
			return nil, upstreamErr(op, "Internal error", err, true)
		}
		out = s.finishSketch(domain, verdict.ParseLLM(msg), msg, sources)
	}

	if cacheable {
		s.sketchCache.Add(key, out)
	}
	return out, nil
}

func (s *Service) finishSketch(domain string, v verdict.Verdict, summary string, sources []evidence.Source) *SketchReport {
	metrics.RecordVerdict(EndpointSketch, string(v))
	cp := make([]evidence.Source, len(sources))
	copy(cp, sources)
	return &SketchReport{
		Domain:  domain,
		Verdict: v.Label(),
		Summary: summary,
		Sources: cp,
		level:   v,
	}
}
