package evidence

import (
	"testing"

	"github.com/rawblock/claims-engine/pkg/models"
)

func TestExtractBioBusinessDeveloperOverride(t *testing.T) {
	// "Business Developer" matches both the bd pattern and (via "Developer"
	// context in other bios) potentially builder phrasing; any builder hit
	// in such a bio deterministically becomes bd.
	hits := ExtractBio("Business Developer and full-stack tinkerer")
	if !hasLabel(hits, models.LabelTypeRole, string(models.RoleBD)) {
		t.Error("expected a bd hit for 'Business Developer'")
	}
	for _, h := range hits {
		if h.LabelType == models.LabelTypeRole && h.Label == string(models.RoleBuilder) {
			t.Errorf("builder hit %s survived the Business Developer override", h.PatternID)
		}
	}
}

func TestExtractBioRoleHits(t *testing.T) {
	tests := []struct {
		name string
		bio  string
		want models.Role
	}{
		{"founder", "Co-founder of a small protocol team", models.RoleFounderExec},
		{"investor", "Angel investor, ex-operator", models.RoleInvestorAnalyst},
		{"recruiter", "Talent acquisition for web3 teams", models.RoleRecruiter},
		{"bd affiliation phrasing", "BD for AngeLabs", models.RoleBD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := ExtractBio(tt.bio)
			if !hasLabel(hits, models.LabelTypeRole, string(tt.want)) {
				t.Errorf("bio %q: expected role %s, hits: %+v", tt.bio, tt.want, hits)
			}
		})
	}
}

func TestExtractBioAffiliationCapture(t *testing.T) {
	hits := ExtractBio("BD for AngeLabs")
	found := ""
	for _, h := range hits {
		if h.LabelType == models.LabelTypeAffiliation {
			found = h.Label
		}
	}
	if found != "AngeLabs" {
		t.Errorf("captured affiliation = %q, want AngeLabs", found)
	}

	// lowercase continuation is not an org name
	if hits := ExtractBio("working at the beach"); hasLabel(hits, models.LabelTypeAffiliation, "the beach") {
		t.Error("lowercase phrase after 'working at' must not be captured as an org")
	}
}

func TestExtractBioIntentHits(t *testing.T) {
	hits := ExtractBio("We're hiring now — DM me")
	if !hasLabel(hits, models.LabelTypeIntent, string(models.IntentHiring)) {
		t.Errorf("expected a hiring intent hit, got %+v", hits)
	}
}

func TestExtractBioEmptyInput(t *testing.T) {
	if hits := ExtractBio(""); hits != nil {
		t.Errorf("empty bio should yield no hits, got %+v", hits)
	}
}
