package service

import (
	"context"
	"errors"
	"strings"

	"github.com/gilberto978/bishbash-api/internal/adapters/cache"
	"github.com/gilberto978/bishbash-api/internal/adapters/regulator"
	"github.com/gilberto978/bishbash-api/internal/adapters/search"
	"github.com/gilberto978/bishbash-api/internal/adapters/upstream"
	"github.com/gilberto978/bishbash-api/internal/domain/domainname"
	"github.com/gilberto978/bishbash-api/internal/domain/evidence"
	"github.com/gilberto978/bishbash-api/internal/domain/keywords"
	"github.com/gilberto978/bishbash-api/internal/domain/registry"
	"github.com/gilberto978/bishbash-api/internal/domain/verdict"
	"github.com/gilberto978/bishbash-api/pkg/logger"
	"github.com/gilberto978/bishbash-api/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	brokerResults  = 20
	cysecMaxLinks  = 3
	allowedNote    = "Recognized, long-established broker. Verify entity & license number by region."
	deniedNote     = "Broker frequently cited in complaints/blacklists. Proceed with extreme caution."
	deniedRedFlag  = "Listed in community reports / watchdog sites."
	noEvidenceNote = "No clear regulator or review evidence found in top results. Verify directly on official registers (FCA, CySEC, ASIC). Treat with caution."

	fcaAuthorised = "FCA: Authorised (match found on register)"
	fcaWarning    = "FCA: Possible warning/unauthorised signal on register"
	cysecWarning  = "CySEC: Warning likely (see links)"
)

// BrokerReport is the verdict for a broker name.
type BrokerReport struct {
	Name string `json:"name"`
	evidence.Report
	Verdict verdict.Verdict `json:"verdict"`
	Color   string          `json:"color"`
}

// CheckBroker classifies a broker by name: static lists first, then regulator
// registers and an aggregated web search.
func (s *Service) CheckBroker(ctx context.Context, broker string) (*BrokerReport, error) {
	const op = "service.CheckBroker"
	reg, err := s.ready(op)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(broker)
	if name == "" {
		return nil, invalid(op, "Missing broker name")
	}

	switch reg.BrokerName(name) {
	case registry.Allowed:
		metrics.RecordStaticTableHit(registry.TableBrokerNames)
		return s.finishBroker(name, evidence.Report{Reviews: []string{allowedNote}}, verdict.Trusted), nil
	case registry.Denied:
		metrics.RecordStaticTableHit(registry.TableBrokerNames)
		return s.finishBroker(name, evidence.Report{
			Reviews:  []string{deniedNote},
			RedFlags: []string{deniedRedFlag},
		}, verdict.HighRisk), nil
	}

	key := cache.Key(EndpointBroker, domainname.NormalizeName(name))
	if cached, ok := s.brokerCache.Get(key); ok {
		metrics.RecordVerdict(EndpointBroker, string(cached.Verdict))
		return cached, nil
	}

	var (
		fca, cysec regulator.Check
		results    []search.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fca = s.checkRegulator(gctx, s.fca, name)
		return nil
	})
	g.Go(func() error {
		cysec = s.checkRegulator(gctx, s.cysec, name)
		return nil
	})
	g.Go(func() error {
		var err error
		results, err = s.aggregate(gctx, name)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn(ctx, "broker aggregation failed", logger.String("broker", name), logger.Error(err))
		return nil, upstreamErr(op, "Error fetching broker info", err, false)
	}

	var c evidence.Collector
	if fca.URL != "" {
		c.AddSource(evidence.Source{Title: "FCA Register Search", URL: fca.URL})
	}
	switch fca.Status {
	case keywords.SignalAuthorised:
		c.AddRegulation(fcaAuthorised)
	case keywords.SignalWarning:
		c.AddRedFlag(fcaWarning)
	}
	for i, u := range cysec.URLs {
		if i == cysecMaxLinks {
			break
		}
		c.AddSource(evidence.Source{Title: "CySEC (warning search)", URL: u})
	}
	if cysec.Status == keywords.SignalWarning {
		c.AddRedFlag(cysecWarning)
	}
	for _, r := range results {
		c.Observe(r.Title, r.URL, r.Snippet)
	}

	report := c.Report()
	v := verdict.Trusted
	switch {
	case len(report.RedFlags) > 0:
		v = verdict.HighRisk
	case len(report.Regulation) == 0 && len(report.Reviews) == 0:
		v = verdict.Caution
		report.Reviews = append(report.Reviews, noEvidenceNote)
	}

	out := s.finishBroker(name, report, v)
	s.brokerCache.Add(key, out)
	return out, nil
}

func (s *Service) finishBroker(name string, report evidence.Report, v verdict.Verdict) *BrokerReport {
	metrics.RecordVerdict(EndpointBroker, string(v))
	return &BrokerReport{Name: name, Report: normalizeReport(report), Verdict: v, Color: v.Color()}
}

func (s *Service) checkRegulator(ctx context.Context, c regulator.Checker, name string) regulator.Check {
	if c == nil {
		return regulator.Check{Status: keywords.SignalUnknown}
	}
	return c.Check(ctx, name)
}

// aggregate runs the broker reputation query. A missing key or a rejected
// request contributes no results; only transport failures are errors.
func (s *Service) aggregate(ctx context.Context, name string) ([]search.Result, error) {
	if s.web == nil {
		return nil, nil
	}
	q := name + ` broker reviews regulation Trustpilot license warning complaints fraud unauthorized banned "license revoked" FCA CySEC ASIC CFTC NFA`
	results, err := s.web.Search(ctx, q, brokerResults)
	switch {
	case errors.Is(err, search.ErrNoKey), errors.Is(err, upstream.ErrStatus):
		s.logger.Warn(ctx, "broker web search unavailable", logger.Error(err))
		return nil, nil
	case err != nil:
		return nil, err
	}
	if len(results) > brokerResults {
		results = results[:brokerResults]
	}
	return results, nil
}

// normalizeReport replaces nil lists so they encode as [].
func normalizeReport(r evidence.Report) evidence.Report {
	if r.Regulation == nil {
		r.Regulation = []string{}
	}
	if r.Reviews == nil {
		r.Reviews = []string{}
	}
	if r.RedFlags == nil {
		r.RedFlags = []string{}
	}
	if r.Sources == nil {
		r.Sources = []evidence.Source{}
	}
	return r
}
