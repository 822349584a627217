// Package whois looks up domain registration data over RDAP.
package whois

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gilberto978/bishbash-api/internal/adapters/upstream"
	"github.com/tidwall/gjson"
)

const (
	providerRDAP    = "rdap"
	defaultRDAPBase = "https://rdap.org"
)

// Record is the registration data relevant to trust checks.
type Record struct {
	Found      bool      `json:"found"`
	Registered time.Time `json:"registered,omitzero"`
	Expires    time.Time `json:"expires,omitzero"`
	Registrar  string    `json:"registrar,omitempty"`
	// AgeDays is -1 when the registration date is unknown.
	AgeDays int `json:"age_days"`
}

// Looker returns the registration record for a domain.
type Looker interface {
	Lookup(ctx context.Context, domain string) (Record, error)
}

// RDAP is an RDAP client. The default base bootstraps through rdap.org.
type RDAP struct {
	http    *upstream.Client
	baseURL string
	now     func() time.Time
}

// Option configures an RDAP client.
type Option func(*RDAP)

// WithClock overrides the time source used for AgeDays.
func WithClock(now func() time.Time) Option {
	return func(r *RDAP) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRDAP creates an RDAP client. hc may be nil.
func NewRDAP(hc *upstream.Client, baseURL string, opts ...Option) *RDAP {
	if hc == nil {
		hc = upstream.New()
	}
	if baseURL == "" {
		baseURL = defaultRDAPBase
	}
	r := &RDAP{http: hc, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup implements Looker. An unknown domain is Found=false, not an error.
func (r *RDAP) Lookup(ctx context.Context, domain string) (Record, error) {
	const op = "rdap.Lookup"

	resp, err := r.http.Get(ctx, providerRDAP, r.baseURL+"/domain/"+url.PathEscape(domain), map[string]string{
		"Accept": "application/rdap+json, application/json",
	})
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", op, err)
	}
	if resp.Status == http.StatusNotFound {
		return Record{AgeDays: -1}, nil
	}
	if err := upstream.Expect(providerRDAP, resp); err != nil {
		return Record{}, fmt.Errorf("%s: %w", op, err)
	}

	rec := Record{Found: true, AgeDays: -1}
	body := gjson.ParseBytes(resp.Body)

	body.Get("events").ForEach(func(_, ev gjson.Result) bool {
		at, err := time.Parse(time.RFC3339, ev.Get("eventDate").String())
		if err != nil {
			return true
		}
		switch ev.Get("eventAction").String() {
		case "registration":
			rec.Registered = at
		case "expiration":
			rec.Expires = at
		}
		return true
	})

	body.Get("entities").ForEach(func(_, ent gjson.Result) bool {
		if !hasRole(ent, "registrar") {
			return true
		}
		rec.Registrar = vcardName(ent)
		return rec.Registrar == ""
	})

	if !rec.Registered.IsZero() {
		rec.AgeDays = int(r.now().Sub(rec.Registered).Hours() / 24)
	}
	return rec, nil
}

func hasRole(ent gjson.Result, role string) bool {
	for _, r := range ent.Get("roles").Array() {
		if r.String() == role {
			return true
		}
	}
	return false
}

// vcardName reads the "fn" property of a jCard: ["vcard", [["fn", {}, "text", "Name"], ...]].
func vcardName(ent gjson.Result) string {
	for _, prop := range ent.Get("vcardArray.1").Array() {
		if prop.Get("0").String() == "fn" {
			return prop.Get("3").String()
		}
	}
	return ""
}
