package evidence

import (
	"math"
	"testing"
	"time"

	"github.com/rawblock/claims-engine/pkg/models"
)

var testRefDate = time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)

func msgAt(text string, sentAt time.Time) models.MessageSample {
	return models.MessageSample{ExternalID: "m1", SentAt: sentAt, Text: text}
}

func extract(t *testing.T, text string, hasDevIdentity bool) ([]models.Hit, []models.GatedSignal) {
	t.Helper()
	return ExtractMessages(
		[]models.MessageSample{msgAt(text, testRefDate)},
		MessageExtractorOptions{ReferenceDate: testRefDate, HalfLifeDays: 30, HasDevIdentity: hasDevIdentity},
	)
}

func TestBuilderActionRequiresFirstPerson(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"first person shipped", "I shipped the new release today", true},
		{"first person plural deployed", "we deployed the fix", true},
		{"third party pushed", "they pushed a new version yesterday", false},
		{"no subject at all", "pushed to production", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, _ := extract(t, tt.text, false)
			got := false
			for _, h := range hits {
				if h.PatternID == "msg_builder_action" {
					got = true
				}
			}
			if got != tt.want {
				t.Errorf("builder_action hit = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuilderTechPRRequiresNumberOrLongform(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"PR with number", "I opened PR #42 for review", true},
		{"longform pull request", "see my pull request", true},
		{"bare PR rejected", "the PR looks good to me", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, _ := extract(t, tt.text, false)
			got := false
			for _, h := range hits {
				if h.PatternID == "msg_builder_tech_pr" {
					got = true
				}
			}
			if got != tt.want {
				t.Errorf("pr hit = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuilderTechRustWordBoundary(t *testing.T) {
	hits, _ := extract(t, "I don't trust this code", false)
	for _, h := range hits {
		if h.PatternID == "msg_builder_tech_rust" {
			t.Fatal("'trust' must not match the rust pattern")
		}
	}

	hits, _ = extract(t, "rewriting the indexer in rust", false)
	found := false
	for _, h := range hits {
		if h.PatternID == "msg_builder_tech_rust" {
			found = true
		}
	}
	if !found {
		t.Error("expected a rust hit for a genuine rust mention")
	}
}

func TestSmartContractDiscount(t *testing.T) {
	// bare mention, no builder_action, no dev identity: half weight
	hits, _ := extract(t, "the smart contract looks interesting", false)
	var bare *models.Hit
	for i := range hits {
		if hits[i].PatternID == "msg_builder_tech_smart_contract" {
			bare = &hits[i]
		}
	}
	if bare == nil {
		t.Fatal("expected a smart contract hit")
	}
	if math.Abs(bare.Weight-0.6) > 1e-9 {
		t.Errorf("bare smart contract weight = %v, want 0.6 (1.2 * 0.5 discount)", bare.Weight)
	}

	// accompanied by a first-person builder action in the same message: full weight
	hits, _ = extract(t, "I deployed the smart contract to testnet", false)
	for _, h := range hits {
		if h.PatternID == "msg_builder_tech_smart_contract" && math.Abs(h.Weight-1.2) > 1e-9 {
			t.Errorf("accompanied smart contract weight = %v, want full 1.2", h.Weight)
		}
	}

	// bare mention but the user has a bio/display-name dev identity: full weight
	hits, _ = extract(t, "the smart contract looks interesting", true)
	for _, h := range hits {
		if h.PatternID == "msg_builder_tech_smart_contract" && math.Abs(h.Weight-1.2) > 1e-9 {
			t.Errorf("dev-identity smart contract weight = %v, want full 1.2", h.Weight)
		}
	}
}

func TestHiringRequiresExplicitLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"role noun phrase", "looking for a senior frontend developer, send CV", true},
		{"hiring keyword", "we are hiring across the board", true},
		{"bare looking rejected", "we're looking", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, _ := extract(t, tt.text, false)
			got := false
			for _, h := range hits {
				if h.Label == string(models.IntentHiring) {
					got = true
				}
			}
			if got != tt.want {
				t.Errorf("hiring hit = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSupportDirectionSplit(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantGiving  bool
		wantSeeking bool
	}{
		{"giving", "happy to help you with that", true, false},
		{"giving explicit", "I can help you debug", true, false},
		{"seeking", "need help with this error", false, true},
		{"seeking stuck", "I'm stuck on the migration", false, true},
		{"bare help matches neither", "help", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, _ := extract(t, tt.text, false)
			giving, seeking := false, false
			for _, h := range hits {
				switch h.Label {
				case string(models.IntentSupportGiving):
					giving = true
				case string(models.IntentSupportSeeking):
					seeking = true
				}
			}
			if giving != tt.wantGiving || seeking != tt.wantSeeking {
				t.Errorf("giving=%v seeking=%v, want giving=%v seeking=%v", giving, seeking, tt.wantGiving, tt.wantSeeking)
			}
		})
	}
}

func TestBroadcastingUpdateRequiresLink(t *testing.T) {
	hits, gated := extract(t, "quick update on the roadmap", false)
	for _, h := range hits {
		if h.PatternID == "msg_broadcasting_update" {
			t.Fatal("'update' without a link or 'check out' must not hit")
		}
	}
	foundGate := false
	for _, g := range gated {
		if g.PatternID == "msg_broadcasting_update" {
			foundGate = true
		}
	}
	if !foundGate {
		t.Error("expected a gated signal for the rejected update pattern")
	}

	hits, _ = extract(t, "update: check it out at https://example.com", false)
	found := false
	for _, h := range hits {
		if h.PatternID == "msg_broadcasting_update" {
			found = true
		}
	}
	if !found {
		t.Error("update with a link should hit")
	}

	hits, _ = extract(t, "announcing our seed round", false)
	found = false
	for _, h := range hits {
		if h.PatternID == "msg_broadcasting_bare" {
			found = true
		}
	}
	if !found {
		t.Error("'announcing' remains bare and should hit without a link")
	}
}

func TestEvaluatingInvestmentBoundedPhrases(t *testing.T) {
	hits, _ := extract(t, "they are backed by a top fund", false)
	found := false
	for _, h := range hits {
		if h.PatternID == "msg_evaluating_investment" {
			found = true
		}
	}
	if !found {
		t.Error("'backed by' should produce an evaluating hit")
	}

	hits, _ = extract(t, "go back to calendly", false)
	for _, h := range hits {
		if h.PatternID == "msg_evaluating_investment" {
			t.Fatal("bare 'back' must not match the investment pattern")
		}
	}
}

func TestEvaluatingScheduleCoOccurrence(t *testing.T) {
	hits, _ := extract(t, "let's schedule a call to discuss investment", false)
	found := false
	for _, h := range hits {
		if h.PatternID == "msg_evaluating_schedule" {
			found = true
		}
	}
	if !found {
		t.Error("schedule + investment language in the same message should hit")
	}

	hits, gated := extract(t, "schedule a meeting", false)
	for _, h := range hits {
		if h.PatternID == "msg_evaluating_schedule" {
			t.Fatal("schedule without investment language must not hit")
		}
	}
	foundGate := false
	for _, g := range gated {
		if g.PatternID == "msg_evaluating_schedule" && g.ReasonCode == models.ReasonGatedByCooccurrence {
			foundGate = true
		}
	}
	if !foundGate {
		t.Error("expected a gated_by_cooccurrence signal for schedule-without-investment")
	}
}

func TestMediaKOLFirstPersonOnly(t *testing.T) {
	hits, _ := extract(t, "I'm a journalist covering defi", false)
	if !hasLabel(hits, models.LabelTypeRole, string(models.RoleMediaKOL)) {
		t.Error("first-person journalist self-ID should hit")
	}

	hits, _ = extract(t, "she is a journalist at some outlet", false)
	if hasLabel(hits, models.LabelTypeRole, string(models.RoleMediaKOL)) {
		t.Error("third-party journalist mention must not hit")
	}
}

func TestBDMessagePatterns(t *testing.T) {
	hits, _ := extract(t, "I'm in BD at the moment", false)
	if !hasLabel(hits, models.LabelTypeRole, string(models.RoleBD)) {
		t.Error("BD self-ID should produce a bd role hit")
	}

	hits, _ = extract(t, "BD for Hyperion Labs, ping me", false)
	if !hasLabel(hits, models.LabelTypeRole, string(models.RoleBD)) {
		t.Error("'BD for <Org>' should produce a bd role hit")
	}
	if !hasLabel(hits, models.LabelTypeAffiliation, "Hyperion Labs") {
		t.Errorf("'BD for <Org>' should capture the affiliation 'Hyperion Labs', hits: %+v", hits)
	}

	hits, _ = extract(t, "Head of Growth here, happy to chat partnerships", false)
	if !hasLabel(hits, models.LabelTypeRole, string(models.RoleBD)) {
		t.Error("'Head of Growth' title should produce a bd role hit")
	}
}

func TestMessageDecayApplied(t *testing.T) {
	old := testRefDate.AddDate(0, 0, -30) // exactly one half-life
	hits, _ := ExtractMessages(
		[]models.MessageSample{msgAt("I shipped the release", old)},
		MessageExtractorOptions{ReferenceDate: testRefDate, HalfLifeDays: 30},
	)
	if len(hits) == 0 {
		t.Fatal("expected a builder_action hit")
	}
	if math.Abs(hits[0].DecayFactor-0.5) > 1e-9 {
		t.Errorf("decay factor at one half-life = %v, want 0.5", hits[0].DecayFactor)
	}
}

func TestEmptyAndMalformedMessagesYieldNothing(t *testing.T) {
	hits, gated := ExtractMessages(
		[]models.MessageSample{
			{ExternalID: "e1", SentAt: testRefDate, Text: ""},
			{ExternalID: "e2", SentAt: testRefDate, Text: "   \n\t "},
		},
		MessageExtractorOptions{ReferenceDate: testRefDate, HalfLifeDays: 30},
	)
	if len(hits) != 0 || len(gated) != 0 {
		t.Errorf("empty messages should produce nothing, got %d hits %d gated", len(hits), len(gated))
	}
}
