// Package verdict defines the trust classification returned by every check endpoint.
package verdict

import "regexp"

// Verdict is a trust classification.
type Verdict string

// Known verdicts, ordered from least to most severe.
const (
	Trusted  Verdict = "TRUSTED"
	Caution  Verdict = "CAUTION"
	HighRisk Verdict = "HIGH RISK"
	Scam     Verdict = "SCAM"
)

var (
	highRiskPattern = regexp.MustCompile(`(?i)high risk`)
	trustedPattern  = regexp.MustCompile(`(?i)trusted`)
)

// Color returns the traffic-light color clients render for v.
func (v Verdict) Color() string {
	switch v {
	case Trusted:
		return "green"
	case HighRisk, Scam:
		return "red"
	default:
		return "amber"
	}
}

// Label returns the display label with its emoji.
func (v Verdict) Label() string {
	switch v {
	case Trusted:
		return "✅ Trusted"
	case HighRisk:
		return "🚨 High Risk"
	case Scam:
		return "⛔ Scam"
	default:
		return "⚠️ Caution"
	}
}

// Severity orders verdicts; higher is worse. Unknown values rank as Caution.
func (v Verdict) Severity() int {
	switch v {
	case Trusted:
		return 0
	case HighRisk:
		return 2
	case Scam:
		return 3
	default:
		return 1
	}
}

// Valid reports whether v is one of the known verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case Trusted, Caution, HighRisk, Scam:
		return true
	}
	return false
}

// Worst returns the more severe of a and b.
func Worst(a, b Verdict) Verdict {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// ParseLLM maps free-form model output to a verdict.
// "high risk" wins over "trusted"; anything else is Caution. Models are never trusted to say Scam.
func ParseLLM(text string) Verdict {
	switch {
	case highRiskPattern.MatchString(text):
		return HighRisk
	case trustedPattern.MatchString(text):
		return Trusted
	default:
		return Caution
	}
}
