// Package domainname turns user queries into comparable domain names and broker names.
package domainname

import (
	"errors"
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrEmpty is returned for blank queries.
var ErrEmpty = errors.New("empty query")

// Normalize reduces a user query to a bare lowercase host.
// A query without a dot is treated as a .com name, so "etoro" becomes "etoro.com".
// Scheme, credentials, port, path and a leading "www." are removed and IDNs are punycoded.
func Normalize(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", ErrEmpty
	}
	if !strings.Contains(q, ".") {
		q = strings.ToLower(q) + ".com"
	}

	raw := q
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	host := ""
	if u, err := url.Parse(raw); err == nil {
		host = u.Hostname()
	}
	if host == "" {
		host = q
	}

	host = strings.TrimSuffix(strings.ToLower(host), ".")
	host = strings.TrimPrefix(host, "www.")
	if ascii, err := idna.Lookup.ToASCII(host); err == nil && ascii != "" {
		host = ascii
	}
	if host == "" {
		return "", ErrEmpty
	}
	return host, nil
}

// Registrable returns the eTLD+1 of domain, or domain itself when it has none.
func Registrable(domain string) string {
	reg, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return domain
	}
	return reg
}

// Candidates lists domain followed by each parent down to its registrable domain.
// "a.b.example.co.uk" yields a.b.example.co.uk, b.example.co.uk, example.co.uk.
func Candidates(domain string) []string {
	out := []string{domain}
	stop := Registrable(domain)
	for d := domain; d != stop; {
		i := strings.IndexByte(d, '.')
		if i < 0 {
			break
		}
		d = d[i+1:]
		out = append(out, d)
	}
	return out
}

// stripMarks returns a fresh chain; transform.Chain keeps state and is not safe for concurrent use.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// NormalizeName lowercases a broker or dealer name, collapses whitespace and strips diacritics.
func NormalizeName(name string) string {
	folded, _, err := transform.String(stripMarks(), name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}
