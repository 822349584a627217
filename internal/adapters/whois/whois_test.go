package whois_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gilberto978/bishbash-api/internal/adapters/whois"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rdapBody = `{
  "objectClassName": "domain",
  "ldhName": "FRESH-WATCHES.COM",
  "events": [
    {"eventAction": "registration", "eventDate": "2026-09-14T00:00:00Z"},
    {"eventAction": "expiration", "eventDate": "2027-09-14T00:00:00Z"},
    {"eventAction": "last changed", "eventDate": "not a date"}
  ],
  "entities": [
    {"roles": ["abuse"], "vcardArray": ["vcard", [["fn", {}, "text", "Abuse Desk"]]]},
    {"roles": ["registrar"], "vcardArray": ["vcard", [["version", {}, "text", "4.0"], ["fn", {}, "text", "NameCheap, Inc."]]]}
  ]
}`

func TestRDAPLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/domain/fresh-watches.com":
			_, _ = w.Write([]byte(rdapBody))
		case "/domain/broken.com":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	c := whois.NewRDAP(nil, srv.URL, whois.WithClock(func() time.Time { return now }))

	rec, err := c.Lookup(context.Background(), "fresh-watches.com")
	require.NoError(t, err)
	assert.True(t, rec.Found)
	assert.Equal(t, 30, rec.AgeDays)
	assert.Equal(t, "NameCheap, Inc.", rec.Registrar)
	assert.Equal(t, 2027, rec.Expires.Year())

	rec, err = c.Lookup(context.Background(), "unknown.com")
	require.NoError(t, err)
	assert.False(t, rec.Found)
	assert.Equal(t, -1, rec.AgeDays)

	_, err = c.Lookup(context.Background(), "broken.com")
	require.Error(t, err)
}
