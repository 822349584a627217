// Package llm provides chat completion clients for the advice and summary features.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Prompt is a single-turn chat request.
type Prompt struct {
	System      string
	User        string
	Temperature float64
	// MaxTokens <= 0 leaves the provider default.
	MaxTokens int
}

// Completer returns the model's reply to a prompt. An empty reply is not an error.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
	// Provider names the backend, e.g. "openai".
	Provider() string
}

// ErrAPI is matched by *APIError.
var ErrAPI = errors.New("llm api error")

// APIError carries an error message reported by the provider in its response body.
type APIError struct {
	Provider string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: api error (status %d): %s", e.Provider, e.Status, e.Message)
}

// Is makes errors.Is(err, ErrAPI) true.
func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}
