package regression

import (
	"fmt"

	"github.com/rawblock/claims-engine/internal/evidence"
	"github.com/rawblock/claims-engine/internal/scorer"
	"github.com/rawblock/claims-engine/internal/taxonomy"
	"github.com/rawblock/claims-engine/pkg/models"
)

// CaseResult is one case's outcome: the raw scoring result plus every
// mismatch against its expected/forbidden assertions. Passed is true iff
// Mismatches is empty.
type CaseResult struct {
	Name       string
	Result     models.ScoringResult
	Mismatches []string
	Passed     bool
}

// Report is the outcome of running every case in a Fixture.
type Report struct {
	Cases  []CaseResult
	Passed bool
}

// Run executes every case in the fixture against cfg and returns a
// Report. It touches no database — extraction and scoring run directly.
func Run(fx *Fixture, cfg *taxonomy.Config) Report {
	refDate, err := cfg.Decay.ReferenceDate()
	if err != nil {
		refDate = taxonomy.Decay{}.ReferenceDateFallback()
	}

	report := Report{Passed: true}
	for _, c := range fx.Cases {
		bundle := c.Bundle(refDate)
		result := scorer.Score(bundle, cfg)
		mismatches := checkCase(c, result)
		cr := CaseResult{Name: c.Name, Result: result, Mismatches: mismatches, Passed: len(mismatches) == 0}
		report.Cases = append(report.Cases, cr)
		if !cr.Passed {
			report.Passed = false
		}
	}
	return report
}

func checkCase(c Case, result models.ScoringResult) []string {
	var mismatches []string

	if c.ExpectedGated {
		if len(result.Claims) != 0 {
			mismatches = append(mismatches, fmt.Sprintf("expectedGated but %d claim(s) were emitted", len(result.Claims)))
		}
		return mismatches
	}

	for _, exp := range c.Expected {
		if !anyClaimMatches(result.Claims, exp) {
			mismatches = append(mismatches, fmt.Sprintf("missing expected claim %s", describe(exp)))
		}
	}
	for _, forb := range c.Forbidden {
		if anyClaimMatches(result.Claims, forb) {
			mismatches = append(mismatches, fmt.Sprintf("found forbidden claim %s", describe(forb)))
		}
	}
	return mismatches
}

func anyClaimMatches(claims []models.Claim, a Assertion) bool {
	for _, claim := range claims {
		if string(claim.Predicate) != a.Predicate {
			continue
		}
		if a.Value != "" && !valuesEqual(a.Predicate, claim.ObjectValue, a.Value) {
			continue
		}
		if a.Status != "" && string(claim.Status) != a.Status {
			continue
		}
		return true
	}
	return false
}

// valuesEqual applies fuzzy equality via NormalizeOrgName for the
// free-text affiliation predicate, and exact equality everywhere else —
// NormalizeOrgName is also the key the scorer deduplicates affiliation
// claims by.
func valuesEqual(predicate, a, b string) bool {
	if predicate == string(models.PredicateAffiliatedWith) {
		return evidence.NormalizeOrgName(a) == evidence.NormalizeOrgName(b)
	}
	return a == b
}

func describe(a Assertion) string {
	s := a.Predicate
	if a.Value != "" {
		s += "=" + a.Value
	}
	if a.Status != "" {
		s += " (status=" + a.Status + ")"
	}
	return s
}
