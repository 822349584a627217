package service_test

import (
	"context"
	"sync"

	"github.com/gilberto978/bishbash-api/internal/adapters/dnscheck"
	"github.com/gilberto978/bishbash-api/internal/adapters/llm"
	"github.com/gilberto978/bishbash-api/internal/adapters/regulator"
	"github.com/gilberto978/bishbash-api/internal/adapters/search"
	"github.com/gilberto978/bishbash-api/internal/adapters/whois"
	"github.com/gilberto978/bishbash-api/pkg/metrics"
)

// verdictCount reads the verdicts_total counter for endpoint and v.
func verdictCount(endpoint, v string) float64 {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() != "bishbash_api_verdicts_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["endpoint"] == endpoint && labels["verdict"] == v {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

type fakeLLM struct {
	mu      sync.Mutex
	answer  string
	err     error
	prompts []llm.Prompt
}

func (f *fakeLLM) Complete(_ context.Context, p llm.Prompt) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, p)
	return f.answer, f.err
}

func (f *fakeLLM) Provider() string { return "openai" }

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *fakeLLM) last() llm.Prompt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prompts[len(f.prompts)-1]
}

type fakeSearch struct {
	mu      sync.Mutex
	results []search.Result
	err     error
	queries []string
}

func (f *fakeSearch) Search(_ context.Context, query string, _ int) ([]search.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func (f *fakeSearch) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type fakeNews struct {
	headlines []search.Headline
	err       error
}

func (f *fakeNews) News(context.Context, string) ([]search.Headline, error) {
	return f.headlines, f.err
}

type fakeRegulator struct {
	check regulator.Check
}

func (f *fakeRegulator) Check(context.Context, string) regulator.Check {
	return f.check
}

type fakeWhois struct {
	rec whois.Record
	err error
}

func (f *fakeWhois) Lookup(context.Context, string) (whois.Record, error) {
	return f.rec, f.err
}

type fakeDNS struct {
	res dnscheck.Result
	err error
}

func (f *fakeDNS) Check(context.Context, string) (dnscheck.Result, error) {
	return f.res, f.err
}
