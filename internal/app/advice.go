package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gilberto978/bishbash-api/internal/adapters/llm"
	"github.com/gilberto978/bishbash-api/internal/domain/keywords"
	"github.com/gilberto978/bishbash-api/pkg/logger"
	"github.com/gilberto978/bishbash-api/pkg/metrics"
)

const (
	defaultShoveQuery = "Give me brutal life advice"
	adviceFallback    = "No response"
	shoveFallback     = "No response."
	adviceTemperature = 0.9
	shoveTemperature  = 0.8
	shoveMaxTokens    = 280
)

// CrisisResponse is the help-seeking answer given instead of advice.
type CrisisResponse struct {
	Illusion string `json:"illusion"`
	Reframe  string `json:"reframe"`
	Clarity  string `json:"clarity"`
	Shove    string `json:"shove"`
}

// String joins the four parts into one answer.
func (c CrisisResponse) String() string {
	return strings.Join([]string{c.Illusion, c.Reframe, c.Clarity, c.Shove}, " ")
}

// Answer is the reply to an advice request.
type Answer struct {
	Answer string `json:"answer"`
}

// ShoveResult is either a model answer or, for crisis prompts, the fixed four-part response.
type ShoveResult struct {
	Answer string          `json:"-"`
	Crisis *CrisisResponse `json:"-"`
}

// Payload returns the JSON body for the result.
func (r ShoveResult) Payload() any {
	if r.Crisis != nil {
		return r.Crisis
	}
	return Answer{Answer: r.Answer}
}

// Advise answers a free-form question with the brutal advice persona.
func (s *Service) Advise(ctx context.Context, question string) (Answer, error) {
	const op = "service.Advise"
	if _, err := s.ready(op); err != nil {
		return Answer{}, err
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, invalid(op, "Missing 'question' in body.")
	}
	if keywords.IsCrisis(question) {
		metrics.RecordCrisisRedirect()
		return Answer{Answer: Crisis.String()}, nil
	}
	if s.llm == nil {
		return Answer{}, notConfigured(op, "LLM not configured")
	}

	text, err := s.llm.Complete(ctx, llm.Prompt{
		System:      adviceSystemPrompt,
		User:        question,
		Temperature: adviceTemperature,
	})
	if err != nil {
		s.logger.Warn(ctx, "advice completion failed", logger.String("op", op), logger.Error(err))
		var apiErr *llm.APIError
		if errors.As(err, &apiErr) {
			return Answer{}, upstreamErr(op, apiErr.Message, err, false)
		}
		return Answer{}, upstreamErr(op, fmt.Sprintf("Failed to connect to %s", providerName(s.llm)), err, false)
	}
	if strings.TrimSpace(text) == "" {
		text = adviceFallback
	}
	return Answer{Answer: text}, nil
}

// Shove gives a four-part brutal answer. An empty query asks for general advice.
func (s *Service) Shove(ctx context.Context, query string) (ShoveResult, error) {
	const op = "service.Shove"
	if _, err := s.ready(op); err != nil {
		return ShoveResult{}, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		query = defaultShoveQuery
	}
	if keywords.IsCrisis(query) {
		metrics.RecordCrisisRedirect()
		c := Crisis
		return ShoveResult{Crisis: &c}, nil
	}
	if s.llm == nil {
		return ShoveResult{}, &Error{Op: op, Kind: ErrNotConfigured, Message: "Server error", Detail: "LLM not configured"}
	}

	text, err := s.llm.Complete(ctx, llm.Prompt{
		System:      shoveSystemPrompt,
		User:        query,
		Temperature: shoveTemperature,
		MaxTokens:   shoveMaxTokens,
	})
	var apiErr *llm.APIError
	switch {
	case errors.As(err, &apiErr):
		// A provider error body carries no answer.
		s.logger.Warn(ctx, "shove provider error", logger.String("op", op), logger.Error(err))
		text = ""
	case err != nil:
		s.logger.Warn(ctx, "shove completion failed", logger.String("op", op), logger.Error(err))
		return ShoveResult{}, upstreamErr(op, "Server error", err, true)
	}
	if strings.TrimSpace(text) == "" {
		text = shoveFallback
	}
	return ShoveResult{Answer: text}, nil
}

func providerName(c llm.Completer) string {
	switch c.Provider() {
	case "gemini":
		return "Gemini"
	default:
		return "OpenAI"
	}
}
