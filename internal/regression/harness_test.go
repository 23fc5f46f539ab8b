package regression

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rawblock/claims-engine/internal/taxonomy"
	"github.com/rawblock/claims-engine/pkg/models"
)

func harnessConfig() *taxonomy.Config {
	return &taxonomy.Config{
		Version: "v0.5.8",
		Gating:  taxonomy.Gating{MinClaimConfidence: 0.35, MinNonMembershipEvidence: 1},
		Decay:   taxonomy.Decay{ReferenceDateRFC3339: "2026-07-29T00:00:00Z", HalfLifeDays: 30},
		RolePriors: map[models.GroupKind]map[models.Role]float64{
			models.GroupKindBD: {}, models.GroupKindWork: {}, models.GroupKindGeneralChat: {}, models.GroupKindUnknown: {},
		},
		IntentPriors: map[models.GroupKind]map[models.Intent]float64{
			models.GroupKindBD: {}, models.GroupKindWork: {}, models.GroupKindGeneralChat: {}, models.GroupKindUnknown: {},
		},
		OrgTypes: []string{"market_maker", "vc", "exchange"},
	}
}

func TestRunPassesOnSatisfiedAssertions(t *testing.T) {
	fx := &Fixture{Cases: []Case{
		{
			Name:        "vc name",
			DisplayName: "Kate | Bloccelerate VC",
			Expected: []Assertion{
				{Predicate: "has_role", Value: "investor_analyst"},
				// fuzzy affiliation equality via the normalized org name
				{Predicate: "affiliated_with", Value: "bloccelerate   vc"},
			},
			Forbidden: []Assertion{
				{Predicate: "has_role", Value: "builder"},
			},
		},
	}}

	report := Run(fx, harnessConfig())
	if !report.Passed {
		t.Fatalf("expected pass, mismatches: %v", report.Cases[0].Mismatches)
	}
}

func TestRunFailsOnMissingExpected(t *testing.T) {
	fx := &Fixture{Cases: []Case{
		{
			Name:     "nothing here",
			Expected: []Assertion{{Predicate: "has_role", Value: "builder"}},
		},
	}}

	report := Run(fx, harnessConfig())
	if report.Passed {
		t.Fatal("expected failure for a missing expected claim")
	}
	if len(report.Cases[0].Mismatches) != 1 {
		t.Errorf("mismatches = %v, want exactly 1", report.Cases[0].Mismatches)
	}
}

func TestRunFailsOnFoundForbidden(t *testing.T) {
	fx := &Fixture{Cases: []Case{
		{
			Name:      "forbidden role",
			Messages:  []MessageFixture{{Text: "I shipped PR #42 in rust today"}},
			Forbidden: []Assertion{{Predicate: "has_role", Value: "builder"}},
		},
	}}

	report := Run(fx, harnessConfig())
	if report.Passed {
		t.Fatal("expected failure for a found forbidden claim")
	}
}

func TestExpectedGatedAssertsNoClaims(t *testing.T) {
	fx := &Fixture{Cases: []Case{
		{Name: "empty user", ExpectedGated: true},
		{Name: "membership only", MemberGroupKinds: []string{"bd"}, ExpectedGated: true},
	}}

	report := Run(fx, harnessConfig())
	if !report.Passed {
		for _, c := range report.Cases {
			t.Errorf("case %s mismatches: %v", c.Name, c.Mismatches)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	fx := &Fixture{Cases: []Case{
		{
			Name:        "mixed signals",
			DisplayName: "Nick | AngeLabs MM",
			Bio:         "BD for AngeLabs",
			Messages:    []MessageFixture{{Text: "I'm in BD, happy to help you"}},
			Expected:    []Assertion{{Predicate: "has_role", Value: "bd"}},
		},
	}}

	cfg := harnessConfig()
	first := Run(fx, cfg)
	for i := 0; i < 5; i++ {
		next := Run(fx, cfg)
		if next.Passed != first.Passed || len(next.Cases[0].Result.Claims) != len(first.Cases[0].Result.Claims) {
			t.Fatal("harness result diverged across runs")
		}
	}
}

func TestLoadShippedFixture(t *testing.T) {
	// the shipped regression file is the CI gate; it must always parse and
	// pass under the default config shape
	path := filepath.Join("..", "..", "config", "regression.v0.5.8.json")
	if _, err := os.Stat(path); err != nil {
		t.Skipf("shipped fixture not present: %v", err)
	}
	fx, err := Load(path)
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if len(fx.Cases) == 0 {
		t.Fatal("shipped fixture has no cases")
	}

	report := Run(fx, harnessConfig())
	if !report.Passed {
		for _, c := range report.Cases {
			if !c.Passed {
				t.Errorf("case %s: %v", c.Name, c.Mismatches)
			}
		}
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected an error for a missing fixture file")
	}
}
