// Package upstream is the shared HTTP plumbing for third-party API clients.
//
// Every call opens an OpenTelemetry span on the global tracer and records a
// provider/outcome metric. Without an SDK installed the spans are no-ops.
package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gilberto978/bishbash-api/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the OpenTelemetry tracer name.
const TracerName = "bishbash"

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
	maxErrorBody   = 512
)

// Response is a fully read upstream response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Client performs instrumented requests.
type Client struct {
	http      *http.Client
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d, Transport: c.http.Transport}
		}
	}
}

// WithUserAgent sets the User-Agent sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{http: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends req and reads the whole body. Only transport failures are errors;
// callers decide what a status means. Use Expect for the common 2xx case.
func (c *Client) Do(ctx context.Context, provider string, req *http.Request) (*Response, error) {
	ctx, span := StartSpan(ctx, provider, req.Method+" "+req.URL.Host+req.URL.Path)
	defer span.End()

	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		metrics.RecordUpstream(provider, metrics.OutcomeError, elapsedMs(start))
		End(span, err)
		return nil, fmt.Errorf("%s: %w", provider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordUpstream(provider, metrics.OutcomeError, elapsedMs(start))
		End(span, err)
		return nil, fmt.Errorf("%s: read body: %w", provider, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	metrics.RecordUpstream(provider, outcome(resp.StatusCode), elapsedMs(start))
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// Get builds a GET request with headers and sends it.
func (c *Client) Get(ctx context.Context, provider, url string, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", provider, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(ctx, provider, req)
}

// Doer sends requests for one provider through a Client. Its Do method has
// the shape SDKs accept in place of an *http.Client.
type Doer struct {
	client   *Client
	provider string
}

// Doer returns a Doer bound to provider.
func (c *Client) Doer(provider string) *Doer {
	return &Doer{client: c, provider: provider}
}

// Do replays the buffered body as a fresh *http.Response. A non-2xx reply
// without a JSON body becomes a *StatusError, since there is nothing for the
// caller to decode.
func (d *Doer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.client.Do(req.Context(), d.provider, req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() && !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		return nil, Expect(d.provider, resp)
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", resp.Status, http.StatusText(resp.Status)),
		StatusCode:    resp.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        resp.Header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       req,
	}, nil
}

// Expect turns a non-2xx response into a *StatusError.
func Expect(provider string, resp *Response) error {
	if resp.OK() {
		return nil
	}
	body := string(resp.Body)
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &StatusError{Provider: provider, Code: resp.Status, Body: body}
}

// StartSpan opens a client span for a provider call.
func StartSpan(ctx context.Context, provider, op string) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, provider+" "+op,
		trace.WithAttributes(attribute.String("upstream.provider", provider)),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// End records err on span, if any. It does not end the span.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func outcome(status int) string {
	switch {
	case status >= 200 && status < 300:
		return metrics.OutcomeOK
	case status == http.StatusNotFound:
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
