// Package registry holds the static allow and deny tables consulted before any external lookup.
//
// The tables ship embedded as YAML under data/. Load merges extra YAML files from a directory on
// top, so operators can extend the lists without a rebuild. Every file uses the same document
// shape and may fill any subset of the sections.
package registry

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/gilberto978/bishbash-api/internal/domain/domainname"
	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

// Table names, used for metrics and stats.
const (
	TableBrokerNames        = "broker_names"
	TableTrustedBrokers     = "trusted_brokers"
	TableRegulatorBlacklist = "regulator_blacklist"
	TableTrustedDealers     = "trusted_dealers"
	TableScammerBlacklist   = "scammer_blacklist"
)

// Listing is the classification a broker name table gives.
type Listing int

// Broker name listings.
const (
	Unlisted Listing = iota
	Allowed
	Denied
)

// Dealer is a trusted watch dealer.
type Dealer struct {
	Name   string `yaml:"name" json:"name"`
	Domain string `yaml:"domain" json:"domain"`
	Info   string `yaml:"info" json:"info"`
}

// Report is a community scam report.
type Report struct {
	Domain string `yaml:"domain" json:"domain"`
	Source string `yaml:"source" json:"source"`
	Date   string `yaml:"date" json:"date"`
	URL    string `yaml:"url" json:"url"`
	Reason string `yaml:"reason" json:"reason"`
}

type document struct {
	Brokers struct {
		Allow []string `yaml:"allow"`
		Deny  []string `yaml:"deny"`
	} `yaml:"brokers"`
	TrustedBrokers     map[string]string `yaml:"trusted_brokers"`
	RegulatorBlacklist []string          `yaml:"regulator_blacklist"`
	TrustedDealers     []Dealer          `yaml:"trusted_dealers"`
	ScammerBlacklist   []Report          `yaml:"scammer_blacklist"`
}

// domainSet matches domains exactly or by glob. Values carry the payload.
type domainSet[T any] struct {
	exact map[string]T
	globs []globEntry[T]
}

type globEntry[T any] struct {
	pattern string
	g       glob.Glob
	value   T
}

func newDomainSet[T any]() *domainSet[T] {
	return &domainSet[T]{exact: make(map[string]T)}
}

func (s *domainSet[T]) add(key string, value T) error {
	key = cleanDomain(key)
	if key == "" {
		return fmt.Errorf("%w: empty domain", ErrInvalidTable)
	}
	if !strings.ContainsAny(key, "*?[{") {
		s.exact[key] = value
		return nil
	}
	g, err := glob.Compile(key, '.')
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidGlob, key, err)
	}
	for i := range s.globs {
		if s.globs[i].pattern == key {
			s.globs[i].value = value
			return nil
		}
	}
	s.globs = append(s.globs, globEntry[T]{pattern: key, g: g, value: value})
	return nil
}

// lookup tries domain and each parent down to the registrable domain, exact entries first.
func (s *domainSet[T]) lookup(domain string) (T, bool) {
	candidates := domainname.Candidates(cleanDomain(domain))
	for _, c := range candidates {
		if v, ok := s.exact[c]; ok {
			return v, true
		}
	}
	for _, c := range candidates {
		for _, e := range s.globs {
			if e.g.Match(c) {
				return e.value, true
			}
		}
	}
	var zero T
	return zero, false
}

func (s *domainSet[T]) size() int {
	return len(s.exact) + len(s.globs)
}

// Registry is an immutable set of static tables. It is safe for concurrent use.
type Registry struct {
	allowNames map[string]struct{}
	denyNames  map[string]struct{}

	trustedBrokers     *domainSet[string]
	regulatorBlacklist *domainSet[struct{}]
	trustedDealers     *domainSet[Dealer]
	scammerBlacklist   *domainSet[Report]
}

// New returns the embedded tables.
func New() (*Registry, error) {
	return Load("")
}

// Load returns the embedded tables merged with every *.yaml and *.yml file in dir.
// Files are applied in lexical order; later entries replace earlier ones with the same key.
// An empty dir loads the embedded tables only.
func Load(dir string) (*Registry, error) {
	r := &Registry{
		allowNames:         make(map[string]struct{}),
		denyNames:          make(map[string]struct{}),
		trustedBrokers:     newDomainSet[string](),
		regulatorBlacklist: newDomainSet[struct{}](),
		trustedDealers:     newDomainSet[Dealer](),
		scammerBlacklist:   newDomainSet[Report](),
	}

	if err := r.mergeFS(embedded, "data/*.yaml"); err != nil {
		return nil, err
	}
	if dir == "" {
		return r, nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTable, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidTable, dir)
	}
	fsys := os.DirFS(dir)
	if err := r.mergeFS(fsys, "*.yaml", "*.yml"); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) mergeFS(fsys fs.FS, patterns ...string) error {
	var names []string
	for _, p := range patterns {
		matches, err := fs.Glob(fsys, p)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTable, err)
		}
		names = append(names, matches...)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.mergeFile(fsys, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) mergeFile(fsys fs.FS, name string) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidTable, name, err)
	}
	defer func() { _ = f.Close() }()

	var doc document
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: %w", ErrInvalidTable, name, err)
	}
	if err := r.merge(&doc); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (r *Registry) merge(doc *document) error {
	for _, n := range doc.Brokers.Allow {
		if k := domainname.NormalizeName(n); k != "" {
			r.allowNames[k] = struct{}{}
		}
	}
	for _, n := range doc.Brokers.Deny {
		if k := domainname.NormalizeName(n); k != "" {
			r.denyNames[k] = struct{}{}
		}
	}
	for d, summary := range doc.TrustedBrokers {
		if err := r.trustedBrokers.add(d, summary); err != nil {
			return err
		}
	}
	for _, d := range doc.RegulatorBlacklist {
		if err := r.regulatorBlacklist.add(d, struct{}{}); err != nil {
			return err
		}
	}
	for _, dealer := range doc.TrustedDealers {
		if err := r.trustedDealers.add(dealer.Domain, dealer); err != nil {
			return err
		}
	}
	for _, rep := range doc.ScammerBlacklist {
		if err := r.scammerBlacklist.add(rep.Domain, rep); err != nil {
			return err
		}
	}
	return nil
}

// BrokerName classifies a broker name. Deny wins when a name is on both lists.
func (r *Registry) BrokerName(name string) Listing {
	key := domainname.NormalizeName(name)
	if _, ok := r.denyNames[key]; ok {
		return Denied
	}
	if _, ok := r.allowNames[key]; ok {
		return Allowed
	}
	return Unlisted
}

// TrustedBroker returns the summary for a trusted broker domain.
func (r *Registry) TrustedBroker(domain string) (string, bool) {
	return r.trustedBrokers.lookup(domain)
}

// RegulatorBlacklisted reports whether domain is on a regulator warning list.
func (r *Registry) RegulatorBlacklisted(domain string) bool {
	_, ok := r.regulatorBlacklist.lookup(domain)
	return ok
}

// TrustedDealer returns the dealer registered for domain.
func (r *Registry) TrustedDealer(domain string) (Dealer, bool) {
	return r.trustedDealers.lookup(domain)
}

// ScamReport returns the community report filed for domain.
func (r *Registry) ScamReport(domain string) (Report, bool) {
	return r.scammerBlacklist.lookup(domain)
}

// Counts returns the number of entries per table.
func (r *Registry) Counts() map[string]int {
	return map[string]int{
		TableBrokerNames:        len(r.allowNames) + len(r.denyNames),
		TableTrustedBrokers:     r.trustedBrokers.size(),
		TableRegulatorBlacklist: r.regulatorBlacklist.size(),
		TableTrustedDealers:     r.trustedDealers.size(),
		TableScammerBlacklist:   r.scammerBlacklist.size(),
	}
}

func cleanDomain(d string) string {
	d = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(d)), ".")
	return strings.TrimPrefix(d, "www.")
}
