// Package regulator checks broker names against regulator registers and warning notices.
package regulator

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gilberto978/bishbash-api/internal/adapters/search"
	"github.com/gilberto978/bishbash-api/internal/adapters/upstream"
	"github.com/gilberto978/bishbash-api/internal/domain/keywords"
)

const (
	providerFCA    = "fca"
	defaultFCABase = "https://register.fca.org.uk"
	maxFirmLinks   = 5
)

// Check is the outcome of one regulator lookup.
type Check struct {
	Status keywords.Signal
	// URL is the register search page, set whenever the page was fetched.
	URL string
	// URLs are related pages: firm profiles or warning notices.
	URLs []string
}

// Checker looks a broker name up with one regulator. It never fails; problems surface as SignalError.
type Checker interface {
	Check(ctx context.Context, name string) Check
}

// FCA scrapes the UK Financial Conduct Authority register search page.
type FCA struct {
	http    *upstream.Client
	baseURL string
}

// NewFCA creates an FCA register checker. hc may be nil.
func NewFCA(hc *upstream.Client, baseURL string) *FCA {
	if hc == nil {
		hc = upstream.New()
	}
	if baseURL == "" {
		baseURL = defaultFCABase
	}
	return &FCA{http: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

// Check implements Checker.
func (f *FCA) Check(ctx context.Context, name string) Check {
	pageURL := f.baseURL + "/s/search?q=" + url.QueryEscape(name)

	resp, err := f.http.Get(ctx, providerFCA, pageURL, nil)
	if err != nil {
		return Check{Status: keywords.SignalError}
	}
	if resp.Status != 200 {
		return Check{Status: keywords.SignalUnknown}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return Check{Status: keywords.SignalUnknown, URL: pageURL}
	}

	var firms []string
	doc.Find("a[href*='/s/firm']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if href, ok := s.Attr("href"); ok {
			firms = append(firms, f.absolute(href))
		}
		return len(firms) < maxFirmLinks
	})

	return Check{
		Status: keywords.RegisterSignal(doc.Text()),
		URL:    pageURL,
		URLs:   firms,
	}
}

func (f *FCA) absolute(href string) string {
	if strings.HasPrefix(href, "/") {
		return f.baseURL + href
	}
	return href
}

// CySEC looks for warning notices on cysec.gov.cy through a web search.
type CySEC struct {
	search search.WebSearcher
}

// NewCySEC creates a CySEC checker backed by ws.
func NewCySEC(ws search.WebSearcher) *CySEC {
	return &CySEC{search: ws}
}

// Check implements Checker.
func (c *CySEC) Check(ctx context.Context, name string) Check {
	if c.search == nil {
		return Check{Status: keywords.SignalUnknown}
	}
	results, err := c.search.Search(ctx, name+" warning site:cysec.gov.cy", 0)
	switch {
	case errors.Is(err, search.ErrNoKey), errors.Is(err, upstream.ErrStatus):
		return Check{Status: keywords.SignalUnknown}
	case err != nil:
		return Check{Status: keywords.SignalError}
	}

	urls := make([]string, 0, len(results))
	var combined strings.Builder
	for _, r := range results {
		urls = append(urls, r.URL)
		combined.WriteString(r.Title)
		combined.WriteByte(' ')
		combined.WriteString(r.Snippet)
		combined.WriteByte(' ')
	}
	return Check{Status: keywords.WarningSignal(combined.String()), URLs: urls}
}
