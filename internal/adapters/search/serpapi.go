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
	providerSerpAPI    = "serpapi"
	defaultSerpAPIBase = "https://serpapi.com"
)

// SerpAPI runs Bing queries through serpapi.com.
type SerpAPI struct {
	http    *upstream.Client
	apiKey  string
	baseURL string
}

// NewSerpAPI creates a SerpAPI client. hc may be nil and an empty base selects the public endpoint.
func NewSerpAPI(hc *upstream.Client, apiKey, baseURL string) *SerpAPI {
	if hc == nil {
		hc = upstream.New()
	}
	return &SerpAPI{http: hc, apiKey: apiKey, baseURL: trimBase(baseURL, defaultSerpAPIBase)}
}

// Search implements WebSearcher.
func (s *SerpAPI) Search(ctx context.Context, query string, count int) ([]Result, error) {
	const op = "serpapi.Search"
	if s.apiKey == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoKey)
	}

	params := url.Values{
		"engine":  {"bing"},
		"q":       {query},
		"api_key": {s.apiKey},
	}
	if count > 0 {
		params.Set("count", strconv.Itoa(count))
	}
	resp, err := s.http.Get(ctx, providerSerpAPI, s.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := upstream.Expect(providerSerpAPI, resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if msg := gjson.GetBytes(resp.Body, "error"); msg.Exists() {
		return nil, fmt.Errorf("%s: %s", op, msg.String())
	}

	var out []Result
	gjson.GetBytes(resp.Body, "organic_results").ForEach(func(_, v gjson.Result) bool {
		out = append(out, Result{
			Title:   v.Get("title").String(),
			URL:     v.Get("link").String(),
			Snippet: v.Get("snippet").String(),
		})
		return true
	})
	return truncate(out, count), nil
}
