// Package dnscheck verifies that a domain resolves and accepts mail.
package dnscheck

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gilberto978/bishbash-api/internal/adapters/upstream"
	"github.com/gilberto978/bishbash-api/pkg/metrics"
	"github.com/miekg/dns"
)

const (
	providerDNS    = "dns"
	defaultServer  = "1.1.1.1:53"
	defaultTimeout = 2 * time.Second
)

// ErrLookup is returned when a query fails or the nameserver answers with an error rcode.
var ErrLookup = errors.New("dns lookup failed")

// Result summarises a domain's DNS presence.
type Result struct {
	Resolves  bool     `json:"resolves"`
	HasMX     bool     `json:"has_mx"`
	Addresses []string `json:"addresses,omitempty"`
}

// Checker inspects a domain's DNS records.
type Checker interface {
	Check(ctx context.Context, domain string) (Result, error)
}

// Resolver queries one nameserver directly.
type Resolver struct {
	client *dns.Client
	server string
}

// NewResolver creates a Resolver for server (host:port). An empty server selects 1.1.1.1:53.
func NewResolver(server string, timeout time.Duration) *Resolver {
	if server == "" {
		server = defaultServer
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Resolver{
		client: &dns.Client{Net: "udp", Timeout: timeout},
		server: server,
	}
}

// Check implements Checker. NXDOMAIN or an empty answer is a negative result.
// Any other failure of either query is an error, since the result would be a guess.
func (r *Resolver) Check(ctx context.Context, domain string) (Result, error) {
	ctx, span := upstream.StartSpan(ctx, providerDNS, "A+MX")
	defer span.End()
	start := time.Now()

	fail := func(err error) (Result, error) {
		err = fmt.Errorf("%w: %s: %w", ErrLookup, domain, err)
		metrics.RecordUpstream(providerDNS, metrics.OutcomeError, float64(time.Since(start).Milliseconds()))
		upstream.End(span, err)
		return Result{}, err
	}

	var res Result
	aAnswers, err := r.query(ctx, domain, dns.TypeA)
	if err != nil {
		return fail(err)
	}
	for _, rr := range aAnswers {
		if a, ok := rr.(*dns.A); ok {
			res.Addresses = append(res.Addresses, a.A.String())
		}
	}
	res.Resolves = len(res.Addresses) > 0

	mxAnswers, err := r.query(ctx, domain, dns.TypeMX)
	if err != nil {
		return fail(err)
	}
	for _, rr := range mxAnswers {
		if _, ok := rr.(*dns.MX); ok {
			res.HasMX = true
			break
		}
	}

	metrics.RecordUpstream(providerDNS, metrics.OutcomeOK, float64(time.Since(start).Milliseconds()))
	return res, nil
}

func (r *Resolver) query(ctx context.Context, domain string, qtype uint16) ([]dns.RR, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), qtype)
	msg.RecursionDesired = true

	resp, _, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%s: empty response", dns.TypeToString[qtype])
	}
	switch resp.Rcode {
	case dns.RcodeSuccess:
		return resp.Answer, nil
	case dns.RcodeNameError:
		return nil, nil
	default:
		return nil, fmt.Errorf("%s: rcode %s", dns.TypeToString[qtype], dns.RcodeToString[resp.Rcode])
	}
}
