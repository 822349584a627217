// Package keywords classifies free text into evidence buckets and detects crisis phrases.
package keywords

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// Bucket names an evidence category.
type Bucket string

// Evidence buckets.
const (
	Regulation Bucket = "regulation"
	Review     Bucket = "review"
	RedFlag    Bucket = "red_flag"
)

// Signal is the outcome of a regulator page or warning search heuristic.
type Signal string

// Regulator signals.
const (
	SignalAuthorised Signal = "authorised"
	SignalWarning    Signal = "warning"
	SignalUnknown    Signal = "unknown"
	SignalError      Signal = "error"
)

var (
	regulationWords = []string{
		"fca", "cysec", "asic", "cftc", "nfa", "fsca", "bafin", "finma", "mas",
		"license", "licence", "regulated", "authorised", "authorized", "register",
		"regulator", "compliance", "authorisation", "authorization",
	}
	reviewWords = []string{
		"trustpilot", "review", "rating", "forexbrokers", "daytrading", "traders union",
		"forex peace army", "reddit", "feedback", "complaints board", "sitejabber",
	}
	redFlagWords = []string{
		"scam", "fraud", "warning", "unauthorized", "unauthorised", "blacklist", "revoked",
		"unlicensed", "ban", "banned", "not regulated", "report a scam", "victim", "chargeback",
	}

	crisisPattern = regexp.MustCompile(`(?i)(suicide|kill myself|self-harm|want to die)`)

	buckets = map[Bucket][]string{
		Regulation: regulationWords,
		Review:     reviewWords,
		RedFlag:    redFlagWords,
	}
)

// Categories reports which buckets a text falls into.
type Categories struct {
	Regulation bool
	Review     bool
	RedFlag    bool
}

// Any reports whether at least one bucket matched.
func (c Categories) Any() bool {
	return c.Regulation || c.Review || c.RedFlag
}

// Classify tests text against every bucket. Keywords are plain substrings,
// so "ban" also matches "bank".
func Classify(text string) Categories {
	lower := strings.ToLower(text)
	return Categories{
		Regulation: contains(lower, buckets[Regulation]),
		Review:     contains(lower, buckets[Review]),
		RedFlag:    contains(lower, buckets[RedFlag]),
	}
}

// Words returns a copy of the keyword list for b.
func Words(b Bucket) []string {
	var src []string
	switch b {
	case Regulation:
		src = regulationWords
	case Review:
		src = reviewWords
	case RedFlag:
		src = redFlagWords
	}
	return append([]string(nil), src...)
}

// IsCrisis reports whether text contains a self-harm phrase.
func IsCrisis(text string) bool {
	return crisisPattern.MatchString(text)
}

// RegisterSignal classifies an FCA register search page.
// An unauthorised or firm-warning marker outranks an authorised one.
func RegisterSignal(page string) Signal {
	lower := strings.ToLower(page)
	unauthorised := strings.Contains(lower, "unauthorised") || strings.Contains(lower, "unauthorized")
	warning := strings.Contains(lower, "warning") && strings.Contains(lower, "firm")
	switch {
	case unauthorised || warning:
		return SignalWarning
	case strings.Contains(lower, "authorised") || strings.Contains(lower, "authorized"):
		return SignalAuthorised
	default:
		return SignalUnknown
	}
}

// WarningSignal classifies the combined text of a regulator-scoped web search.
func WarningSignal(text string) Signal {
	lower := strings.ToLower(text)
	for _, w := range []string{"warning", "unauthorised", "unauthorized"} {
		if strings.Contains(lower, w) {
			return SignalWarning
		}
	}
	return SignalUnknown
}

func contains(lower string, words []string) bool {
	return lo.SomeBy(words, func(w string) bool { return strings.Contains(lower, w) })
}
