package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gilberto978/bishbash-api/internal/adapters/llm"
	"github.com/gilberto978/bishbash-api/internal/adapters/search"
	"github.com/gilberto978/bishbash-api/pkg/logger"
)

const (
	newsHeadlines     = 5
	newsPlaceholder   = "AI summary not enabled yet (coming soon)."
	newsTemperature   = 0.3
	newsMaxTokens     = 120
	newsFailedMessage = "Error fetching news"
)

// NewsReport is the daily digest for a topic.
type NewsReport struct {
	Topic     string            `json:"topic"`
	Date      string            `json:"date"`
	Headlines []search.Headline `json:"headlines"`
	Summary   string            `json:"summary"`
}

// FreshNews returns today's top headlines for a topic.
func (s *Service) FreshNews(ctx context.Context, topic string) (*NewsReport, error) {
	const op = "service.FreshNews"
	if _, err := s.ready(op); err != nil {
		return nil, err
	}

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, invalid(op, "Missing topic")
	}
	if s.news == nil {
		return nil, notConfigured(op, newsFailedMessage)
	}

	headlines, err := s.news.News(ctx, topic)
	if err != nil {
		s.logger.Warn(ctx, "news search failed", logger.String("topic", topic), logger.Error(err))
		return nil, upstreamErr(op, newsFailedMessage, err, false)
	}
	if len(headlines) > newsHeadlines {
		headlines = headlines[:newsHeadlines]
	}
	if headlines == nil {
		headlines = []search.Headline{}
	}

	out := &NewsReport{
		Topic:     topic,
		Date:      s.now().UTC().Format("2006-01-02"),
		Headlines: headlines,
		Summary:   newsPlaceholder,
	}
	if s.newsSummary && s.llm != nil && len(headlines) > 0 {
		if text, err := s.digest(ctx, topic, headlines); err != nil {
			s.logger.Warn(ctx, "news digest failed", logger.String("topic", topic), logger.Error(err))
		} else if strings.TrimSpace(text) != "" {
			out.Summary = text
		}
	}
	return out, nil
}

func (s *Service) digest(ctx context.Context, topic string, headlines []search.Headline) (string, error) {
	var b strings.Builder
	for _, h := range headlines {
		fmt.Fprintf(&b, "- %s (%s): %s\n", h.Title, h.Source, h.Snippet)
	}
	return s.llm.Complete(ctx, llm.Prompt{
		System:      newsSystemPrompt,
		User:        fmt.Sprintf(newsUserPrompt, topic, b.String()),
		Temperature: newsTemperature,
		MaxTokens:   newsMaxTokens,
	})
}
