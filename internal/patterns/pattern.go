// Package patterns holds the declarative, ordered pattern tables the
// evidence extractors run against display names, bios, and messages.
//
// Patterns are the system's stable external contract: a pattern's ID and
// weight are config, not implementation detail. Changing either is a
// config change and must ship with its own regression case (see
// internal/regression). Regex iteration always proceeds in the order
// patterns are declared here — never map order — so that scoring stays
// deterministic across runs.
package patterns

import (
	"regexp"

	"github.com/rawblock/claims-engine/pkg/models"
)

// CoOccurrence names a second regex that must also match the same text
// for the primary pattern's hit to be accepted. Used for rules like
// evaluating_schedule, which requires schedule language AND investment
// language in the same message.
type CoOccurrence struct {
	Regex        *regexp.Regexp
	RejectReason models.ReasonCode
}

// Pattern is a single named, weighted regex rule. PatternID is the stable
// identifier referenced by EvidenceRef and by regression fixtures.
type Pattern struct {
	ID              string
	Regex           *regexp.Regexp
	LabelType       models.LabelType
	Label           string
	Weight          float64
	DependencyGroup models.DependencyGroup
	CoOccurs        *CoOccurrence
}

// MustCompile builds a Pattern from a regex literal, panicking on a bad
// regex — pattern tables are compiled once at process startup and a bad
// literal there is a programmer error (PatternCompilationError in the
// error taxonomy), not a runtime condition to recover from.
func MustCompile(id, expr string, labelType models.LabelType, label string, weight float64, depGroup models.DependencyGroup) Pattern {
	return Pattern{
		ID:              id,
		Regex:           regexp.MustCompile(expr),
		LabelType:       labelType,
		Label:           label,
		Weight:          weight,
		DependencyGroup: depGroup,
	}
}

// WithCoOccurrence attaches a co-occurrence requirement to a pattern,
// returning the modified copy.
func (p Pattern) WithCoOccurrence(expr string, reason models.ReasonCode) Pattern {
	p.CoOccurs = &CoOccurrence{Regex: regexp.MustCompile(expr), RejectReason: reason}
	return p
}

// Matches reports whether text satisfies the pattern, including any
// attached co-occurrence requirement.
func (p Pattern) Matches(text string) (ok bool, gated bool) {
	if !p.Regex.MatchString(text) {
		return false, false
	}
	if p.CoOccurs != nil && !p.CoOccurs.Regex.MatchString(text) {
		return false, true
	}
	return true, false
}
