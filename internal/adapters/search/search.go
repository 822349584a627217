// Package search wraps the web, news and forum search APIs used as evidence sources.
package search

import (
	"context"
	"errors"
	"strings"
)

// ErrNoKey is returned when a client is used without its API key.
var ErrNoKey = errors.New("search api key not configured")

// Result is one web or forum hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Headline is one news article.
type Headline struct {
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
	Source    string `json:"source"`
	URL       string `json:"url"`
	Timestamp string `json:"timestamp"`
}

// WebSearcher runs a web query. count <= 0 leaves the provider default.
type WebSearcher interface {
	Search(ctx context.Context, query string, count int) ([]Result, error)
}

// NewsSearcher returns the freshest headlines for a topic.
type NewsSearcher interface {
	News(ctx context.Context, topic string) ([]Headline, error)
}

func trimBase(base, fallback string) string {
	if base == "" {
		base = fallback
	}
	return strings.TrimRight(base, "/")
}

func truncate[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
