package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gilberto978/bishbash-api/internal/adapters/upstream"
	"github.com/tidwall/gjson"
)

const (
	providerBing     = "bing"
	providerBingNews = "bing_news"
	defaultBingBase  = "https://api.bing.microsoft.com"
	newsCount        = 8
)

// Bing is a Bing Web Search v7 and News Search client.
type Bing struct {
	http    *upstream.Client
	apiKey  string
	baseURL string
}

// NewBing creates a Bing client. hc may be nil and an empty base selects the public endpoint.
func NewBing(hc *upstream.Client, apiKey, baseURL string) *Bing {
	if hc == nil {
		hc = upstream.New()
	}
	return &Bing{http: hc, apiKey: apiKey, baseURL: trimBase(baseURL, defaultBingBase)}
}

// Search implements WebSearcher.
func (b *Bing) Search(ctx context.Context, query string, count int) ([]Result, error) {
	const op = "bing.Search"

	params := url.Values{"q": {query}}
	if count > 0 {
		params.Set("count", strconv.Itoa(count))
	}
	body, err := b.get(ctx, providerBing, "/v7.0/search?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out []Result
	gjson.GetBytes(body, "webPages.value").ForEach(func(_, v gjson.Result) bool {
		out = append(out, Result{
			Title:   v.Get("name").String(),
			URL:     v.Get("url").String(),
			Snippet: v.Get("snippet").String(),
		})
		return true
	})
	return truncate(out, count), nil
}

// News implements NewsSearcher with a one-day freshness window.
func (b *Bing) News(ctx context.Context, topic string) ([]Headline, error) {
	const op = "bing.News"

	params := url.Values{
		"q":         {topic},
		"freshness": {"Day"},
		"count":     {strconv.Itoa(newsCount)},
	}
	body, err := b.get(ctx, providerBingNews, "/v7.0/news/search?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out []Headline
	gjson.GetBytes(body, "value").ForEach(func(_, v gjson.Result) bool {
		source := v.Get("provider.0.name").String()
		if source == "" {
			source = "Unknown"
		}
		out = append(out, Headline{
			Title:     v.Get("name").String(),
			Snippet:   v.Get("description").String(),
			Source:    source,
			URL:       v.Get("url").String(),
			Timestamp: v.Get("datePublished").String(),
		})
		return true
	})
	return out, nil
}

func (b *Bing) get(ctx context.Context, provider, path string) ([]byte, error) {
	if b.apiKey == "" {
		return nil, ErrNoKey
	}
	resp, err := b.http.Get(ctx, provider, b.baseURL+path, map[string]string{
		"Ocp-Apim-Subscription-Key": b.apiKey,
	})
	if err != nil {
		return nil, err
	}
	if err := upstream.Expect(provider, resp); err != nil {
		return nil, err
	}
	return resp.Body, nil
}
