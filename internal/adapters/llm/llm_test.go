package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gilberto978/bishbash-api/internal/adapters/llm"
	"github.com/gilberto978/bishbash-api/internal/adapters/upstream"
	"github.com/gilberto978/bishbash-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIComplete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Stop whining."}}]}`))
	}))
	defer srv.Close()

	c := llm.NewOpenAI(nil, "sk-test", llm.WithOpenAIBaseURL(srv.URL+"/"))
	answer, err := c.Complete(context.Background(), llm.Prompt{
		System:      "be brutal",
		User:        "advice?",
		Temperature: 0.8,
		MaxTokens:   280,
	})
	require.NoError(t, err)
	assert.Equal(t, "Stop whining.", answer)
	assert.Equal(t, "openai", c.Provider())

	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.InDelta(t, 0.8, got["temperature"], 1e-9)
	assert.InDelta(t, 280, got["max_tokens"], 1e-9)
	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "advice?", msgs[1].(map[string]any)["content"])
}

func TestOpenAIOmitsUnsetFields(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := llm.NewOpenAI(upstream.New(), "k", llm.WithOpenAIBaseURL(srv.URL), llm.WithOpenAIModel("gpt-test"))
	answer, err := c.Complete(context.Background(), llm.Prompt{User: "hi"})
	require.NoError(t, err)
	assert.Empty(t, answer)

	assert.Equal(t, "gpt-test", got["model"])
	assert.NotContains(t, got, "max_tokens")
	assert.Len(t, got["messages"], 1)
}

func TestOpenAIAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := llm.NewOpenAI(nil, "bad", llm.WithOpenAIBaseURL(srv.URL)).Complete(context.Background(), llm.Prompt{User: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrAPI))

	var apiErr *llm.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Incorrect API key provided", apiErr.Message)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestOpenAIStatusWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := llm.NewOpenAI(nil, "k", llm.WithOpenAIBaseURL(srv.URL)).Complete(context.Background(), llm.Prompt{User: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, upstream.ErrStatus))
	assert.False(t, errors.Is(err, llm.ErrAPI))
}

func TestOpenAIStatusWithEmptyJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := llm.NewOpenAI(nil, "k", llm.WithOpenAIBaseURL(srv.URL)).Complete(context.Background(), llm.Prompt{User: "x"})
	require.Error(t, err)
	var se *upstream.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.False(t, errors.Is(err, llm.ErrAPI))
}

func TestOpenAITransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := llm.NewOpenAI(nil, "k", llm.WithOpenAIBaseURL(base)).Complete(context.Background(), llm.Prompt{User: "x"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, llm.ErrAPI))
	assert.False(t, errors.Is(err, upstream.ErrStatus))
}

func TestGeminiComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-test:generateContent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"TRUSTED - fine"}]}}]}`))
	}))
	defer srv.Close()

	g, err := llm.NewGemini(context.Background(), "g-key",
		llm.WithGeminiBaseURL(srv.URL+"/"),
		llm.WithGeminiModel("gemini-test"),
	)
	require.NoError(t, err)
	assert.Equal(t, "gemini", g.Provider())

	answer, err := g.Complete(context.Background(), llm.Prompt{System: "s", User: "u", Temperature: 0.3, MaxTokens: 200})
	require.NoError(t, err)
	assert.Equal(t, "TRUSTED - fine", answer)
}

func TestFromConfig(t *testing.T) {
	cfg := config.New()

	c, err := llm.FromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, c)

	cfg.OpenAIAPIKey = "sk"
	c, err = llm.FromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "openai", c.Provider())

	cfg.LLMProvider = config.ProviderGemini
	c, err = llm.FromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, c)

	cfg.LLMProvider = "other"
	_, err = llm.FromConfig(context.Background(), cfg, nil)
	require.Error(t, err)
}
