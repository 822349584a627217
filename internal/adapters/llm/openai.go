package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gilberto978/bishbash-api/internal/adapters/upstream"
	openai "github.com/sashabaranov/go-openai"
)

const (
	providerOpenAI     = "openai"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultOpenAIBase  = "https://api.openai.com"
)

// OpenAI talks to the chat completions endpoint through go-openai. Requests
// go through the shared upstream client so they are traced and counted.
type OpenAI struct {
	client  *openai.Client
	model   string
	baseURL string
}

// OpenAIOption configures an OpenAI client.
type OpenAIOption func(*OpenAI)

// WithOpenAIModel overrides the model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		if model != "" {
			o.model = model
		}
	}
}

// WithOpenAIBaseURL points the client at another host, e.g. a test server or proxy.
// The /v1 API prefix is appended.
func WithOpenAIBaseURL(base string) OpenAIOption {
	return func(o *OpenAI) {
		if base != "" {
			o.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewOpenAI creates a client. hc may be nil.
func NewOpenAI(hc *upstream.Client, apiKey string, opts ...OpenAIOption) *OpenAI {
	if hc == nil {
		hc = upstream.New()
	}
	o := &OpenAI{model: defaultOpenAIModel, baseURL: defaultOpenAIBase}
	for _, opt := range opts {
		opt(o)
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = o.baseURL + "/v1"
	cfg.HTTPClient = hc.Doer(providerOpenAI)
	o.client = openai.NewClientWithConfig(cfg)
	return o
}

// Provider implements Completer.
func (o *OpenAI) Provider() string { return providerOpenAI }

// Complete implements Completer.
func (o *OpenAI) Complete(ctx context.Context, p Prompt) (string, error) {
	const op = "openai.Complete"

	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if p.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: p.System})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: p.User})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    msgs,
		Temperature: float32(p.Temperature),
		MaxTokens:   max(p.MaxTokens, 0),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, mapOpenAIError(err))
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// mapOpenAIError converts go-openai errors into this package's error types.
func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{Provider: providerOpenAI, Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &upstream.StatusError{Provider: providerOpenAI, Code: reqErr.HTTPStatusCode}
	}
	return err
}
