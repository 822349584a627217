// Package evidence collects and deduplicates the snippets and sources behind a verdict.
package evidence

import (
	"strings"

	"github.com/gilberto978/bishbash-api/internal/domain/keywords"
	"github.com/samber/lo"
)

// Default caps applied to reports.
const (
	DefaultItemLimit   = 8
	DefaultSourceLimit = 10
)

// Source is a cited page.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Dedup drops empty strings and repeats, keeping first occurrences, and caps the result at limit.
// limit <= 0 selects DefaultItemLimit. The result is never nil.
func Dedup(items []string, limit int) []string {
	if limit <= 0 {
		limit = DefaultItemLimit
	}
	out := lo.Uniq(lo.Compact(items))
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// DedupSources keeps the first source per URL, skips sources without one, and caps at limit.
// limit <= 0 selects DefaultSourceLimit. The result is never nil.
func DedupSources(sources []Source, limit int) []Source {
	if limit <= 0 {
		limit = DefaultSourceLimit
	}
	withURL := lo.Filter(sources, func(s Source, _ int) bool { return s.URL != "" })
	out := lo.UniqBy(withURL, func(s Source) string { return s.URL })
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []Source{}
	}
	return out
}

// Report is the deduplicated evidence attached to a verdict.
type Report struct {
	Regulation []string `json:"regulation"`
	Reviews    []string `json:"reviews"`
	RedFlags   []string `json:"red_flags"`
	Sources    []Source `json:"sources"`
}

// Collector accumulates evidence from search results. The zero value is ready to use.
type Collector struct {
	regulation []string
	reviews    []string
	redFlags   []string
	sources    []Source
}

// AddRegulation records a regulator finding.
func (c *Collector) AddRegulation(s ...string) { c.regulation = append(c.regulation, s...) }

// AddReview records a review finding.
func (c *Collector) AddReview(s ...string) { c.reviews = append(c.reviews, s...) }

// AddRedFlag records a red flag.
func (c *Collector) AddRedFlag(s ...string) { c.redFlags = append(c.redFlags, s...) }

// AddSource cites a page.
func (c *Collector) AddSource(s ...Source) { c.sources = append(c.sources, s...) }

// Observe classifies a search result, cites it, and files its snippet under every matching bucket.
// The title stands in when the snippet is empty.
func (c *Collector) Observe(title, url, snippet string) keywords.Categories {
	c.AddSource(Source{Title: title, URL: url})

	cats := keywords.Classify(title + " " + snippet)
	text := snippet
	if strings.TrimSpace(text) == "" {
		text = title
	}
	if cats.Regulation {
		c.AddRegulation(text)
	}
	if cats.Review {
		c.AddReview(text)
	}
	if cats.RedFlag {
		c.AddRedFlag(text)
	}
	return cats
}

// Report returns deduplicated lists capped at the default limits.
func (c *Collector) Report() Report {
	return Report{
		Regulation: Dedup(c.regulation, DefaultItemLimit),
		Reviews:    Dedup(c.reviews, DefaultItemLimit),
		RedFlags:   Dedup(c.redFlags, DefaultItemLimit),
		Sources:    DedupSources(c.sources, DefaultSourceLimit),
	}
}
