package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gilberto978/bishbash-api/internal/adapters/upstream"
	"github.com/tidwall/gjson"
)

const (
	providerReddit    = "reddit"
	defaultRedditBase = "https://www.reddit.com"
	maxSnippet        = 300
)

// Reddit searches public posts. No key is needed.
type Reddit struct {
	http    *upstream.Client
	baseURL string
}

// NewReddit creates a Reddit client. hc may be nil.
func NewReddit(hc *upstream.Client, baseURL string) *Reddit {
	if hc == nil {
		hc = upstream.New()
	}
	return &Reddit{http: hc, baseURL: trimBase(baseURL, defaultRedditBase)}
}

// Search implements WebSearcher. URLs are absolute permalinks.
func (r *Reddit) Search(ctx context.Context, query string, count int) ([]Result, error) {
	const op = "reddit.Search"

	params := url.Values{"q": {query}, "sort": {"relevance"}}
	if count > 0 {
		params.Set("limit", strconv.Itoa(count))
	}
	resp, err := r.http.Get(ctx, providerReddit, r.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := upstream.Expect(providerReddit, resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out []Result
	gjson.GetBytes(resp.Body, "data.children.#.data").ForEach(func(_, v gjson.Result) bool {
		link := v.Get("permalink").String()
		if strings.HasPrefix(link, "/") {
			link = defaultRedditBase + link
		}
		snippet := strings.TrimSpace(v.Get("selftext").String())
		if r := []rune(snippet); len(r) > maxSnippet {
			snippet = string(r[:maxSnippet])
		}
		title := v.Get("title").String()
		if sub := v.Get("subreddit").String(); sub != "" {
			title = "r/" + sub + ": " + title
		}
		out = append(out, Result{Title: title, URL: link, Snippet: snippet})
		return true
	})
	return truncate(out, count), nil
}
