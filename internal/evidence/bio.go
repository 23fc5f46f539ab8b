package evidence

import (
	"strings"

	"github.com/rawblock/claims-engine/internal/patterns"
	"github.com/rawblock/claims-engine/pkg/models"
)

// ExtractBio runs the bio-role, bio-intent, and bio-affiliation
// patterns, applying the "Business Developer" → bd override.
func ExtractBio(bio string) []models.Hit {
	if strings.TrimSpace(bio) == "" {
		return nil
	}

	var hits []models.Hit
	businessDeveloperOverride := patterns.IsBusinessDeveloperBio(bio)

	for _, p := range patterns.BioRolePatterns {
		ok, _ := p.Matches(bio)
		if !ok {
			continue
		}
		label := p.Label
		// "Business Developer" deterministically overrides any builder hit
		// into bd.
		if businessDeveloperOverride && label == string(models.RoleBuilder) {
			label = string(models.RoleBD)
		}
		hits = append(hits, models.Hit{
			EvidenceType:    models.EvidenceTypeBio,
			EvidenceRef:     "bio_keyword:" + p.ID,
			LabelType:       p.LabelType,
			Label:           label,
			Weight:          p.Weight,
			DecayFactor:     1.0,
			PatternID:       p.ID,
			DependencyGroup: p.DependencyGroup,
		})
	}

	for _, p := range patterns.BioIntentPatterns {
		if ok, _ := p.Matches(bio); ok {
			hits = append(hits, models.Hit{
				EvidenceType:    models.EvidenceTypeBio,
				EvidenceRef:     "bio_keyword:" + p.ID,
				LabelType:       p.LabelType,
				Label:           p.Label,
				Weight:          p.Weight,
				DecayFactor:     1.0,
				PatternID:       p.ID,
				DependencyGroup: p.DependencyGroup,
			})
		}
	}

	if m := patterns.BioAffiliationPattern.Regex.FindStringSubmatch(bio); m != nil {
		org := strings.TrimSpace(m[1])
		hits = append(hits, models.Hit{
			EvidenceType:    models.EvidenceTypeBio,
			EvidenceRef:     "affiliation:" + NormalizeOrgName(org),
			LabelType:       models.LabelTypeAffiliation,
			Label:           org,
			Weight:          patterns.BioAffiliationPattern.Weight,
			DecayFactor:     1.0,
			PatternID:       patterns.BioAffiliationPattern.ID,
			DependencyGroup: patterns.BioAffiliationPattern.DependencyGroup,
		})
	}

	return hits
}
