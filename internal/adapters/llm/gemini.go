package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/gilberto978/bishbash-api/internal/adapters/upstream"
	"github.com/gilberto978/bishbash-api/pkg/metrics"
	"google.golang.org/genai"
)

const (
	providerGemini     = "gemini"
	defaultGeminiModel = "gemini-2.5-flash"
)

// Gemini talks to the Gemini API through the official SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// GeminiOption configures a Gemini client.
type GeminiOption func(*genai.ClientConfig, *Gemini)

// WithGeminiModel overrides the model.
func WithGeminiModel(model string) GeminiOption {
	return func(_ *genai.ClientConfig, g *Gemini) {
		if model != "" {
			g.model = model
		}
	}
}

// WithGeminiBaseURL points the SDK at another host, e.g. a test server.
func WithGeminiBaseURL(base string) GeminiOption {
	return func(cc *genai.ClientConfig, _ *Gemini) {
		cc.HTTPOptions.BaseURL = base
	}
}

// NewGemini creates a client for the Gemini API backend.
func NewGemini(ctx context.Context, apiKey string, opts ...GeminiOption) (*Gemini, error) {
	cc := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	g := &Gemini{model: defaultGeminiModel}
	for _, opt := range opts {
		opt(cc, g)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	g.client = client
	return g, nil
}

// Provider implements Completer.
func (g *Gemini) Provider() string { return providerGemini }

// Complete implements Completer.
func (g *Gemini) Complete(ctx context.Context, p Prompt) (string, error) {
	ctx, span := upstream.StartSpan(ctx, providerGemini, "GenerateContent")
	defer span.End()

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(p.Temperature)),
	}
	if p.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}
	if p.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(p.MaxTokens) //nolint:gosec // bounded by callers
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(p.User), cfg)
	if err != nil {
		metrics.RecordUpstream(providerGemini, metrics.OutcomeError, float64(time.Since(start).Milliseconds()))
		upstream.End(span, err)
		return "", fmt.Errorf("gemini.Complete: %w", err)
	}
	metrics.RecordUpstream(providerGemini, metrics.OutcomeOK, float64(time.Since(start).Milliseconds()))
	return resp.Text(), nil
}
