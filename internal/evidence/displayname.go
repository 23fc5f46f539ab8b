package evidence

import (
	"regexp"
	"strings"

	"github.com/rawblock/claims-engine/internal/patterns"
	"github.com/rawblock/claims-engine/pkg/models"
)

// uppercaseWordBeforeMMCapture captures the word preceding a bare "MM"
// token — the affiliation value excludes the "MM" suffix, since the
// market-maker semantics are carried separately by the org-type hit.
var uppercaseWordBeforeMMCapture = regexp.MustCompile(`\b([A-Z][A-Za-z0-9]*)\s+MM\b`)

// ExtractDisplayName runs the display-name extractor: apply IS_A_CLAMP,
// split on separators, reject bare org titles, run the
// declared role/org patterns against each segment, and apply the
// segment-scoped bare VC / bare MM rules.
func ExtractDisplayName(displayName string) []models.Hit {
	if strings.TrimSpace(displayName) == "" {
		return nil
	}

	clamped := patterns.ApplyIsAClamp(displayName)
	segments := patterns.SplitSegments(clamped)

	var hits []models.Hit
	for _, segment := range segments {
		for _, p := range patterns.DisplayNameRolePatterns {
			if ok, _ := p.Matches(segment); ok {
				hits = append(hits, hitFromPattern(p, models.EvidenceTypeDisplayName, "display_name_keyword", segment))
			}
		}

		// Bare titles are rejected as org candidates only — a segment of
		// just "Developer" still carries role evidence, it just can't name
		// an organisation.
		lower := strings.ToLower(strings.TrimSpace(segment))
		if patterns.ORG_TITLE_REJECT_SET[lower] {
			continue
		}

		for _, p := range patterns.DisplayNameOrgPatterns {
			if ok, _ := p.Matches(segment); ok {
				hits = append(hits, hitFromPattern(p, models.EvidenceTypeDisplayName, "display_name_keyword", segment))
			}
		}

		if patterns.MatchBareVC(segment) {
			hits = append(hits, models.Hit{
				EvidenceType: models.EvidenceTypeDisplayName,
				EvidenceRef:  "display_name_keyword:dn_bare_vc",
				LabelType:    models.LabelTypeRole,
				Label:        string(models.RoleInvestorAnalyst),
				Weight:       1.8,
				DecayFactor:  1.0,
				PatternID:    "dn_bare_vc",
			})
			hits = append(hits, models.Hit{
				EvidenceType: models.EvidenceTypeDisplayName,
				EvidenceRef:  "display_name_keyword:dn_bare_vc_orgtype",
				LabelType:    models.LabelTypeOrgType,
				Label:        "vc",
				Weight:       1.5,
				DecayFactor:  1.0,
				PatternID:    "dn_bare_vc_orgtype",
			})
			org := strings.TrimSpace(segment)
			hits = append(hits, models.Hit{
				EvidenceType: models.EvidenceTypeDisplayName,
				EvidenceRef:  "affiliation:" + NormalizeOrgName(org),
				LabelType:    models.LabelTypeAffiliation,
				Label:        org,
				Weight:       1.5,
				DecayFactor:  1.0,
				PatternID:    "dn_bare_vc_affiliation",
			})
		}

		if patterns.MatchBareMM(segment) {
			hits = append(hits, models.Hit{
				EvidenceType: models.EvidenceTypeDisplayName,
				EvidenceRef:  "display_name_keyword:dn_bare_mm_orgtype",
				LabelType:    models.LabelTypeOrgType,
				Label:        "market_maker",
				Weight:       1.4,
				DecayFactor:  1.0,
				PatternID:    "dn_bare_mm_orgtype",
			})
			if m := uppercaseWordBeforeMMCapture.FindStringSubmatch(segment); m != nil {
				hits = append(hits, models.Hit{
					EvidenceType: models.EvidenceTypeDisplayName,
					EvidenceRef:  "affiliation:" + NormalizeOrgName(m[1]),
					LabelType:    models.LabelTypeAffiliation,
					Label:        m[1],
					Weight:       1.3,
					DecayFactor:  1.0,
					PatternID:    "dn_bare_mm_affiliation",
				})
			}
		}
	}

	return hits
}

func hitFromPattern(p patterns.Pattern, evType models.EvidenceType, refPrefix string, _ string) models.Hit {
	return models.Hit{
		EvidenceType:    evType,
		EvidenceRef:     refPrefix + ":" + p.ID,
		LabelType:       p.LabelType,
		Label:           p.Label,
		Weight:          p.Weight,
		DecayFactor:     1.0,
		PatternID:       p.ID,
		DependencyGroup: p.DependencyGroup,
	}
}
