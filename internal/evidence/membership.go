package evidence

import (
	"github.com/rawblock/claims-engine/internal/taxonomy"
	"github.com/rawblock/claims-engine/pkg/models"
)

// ExtractMemberships emits one evidence_type=membership Hit per
// (membership, label) pair with a nonzero configured prior for that
// membership's GroupKind. These hits never suffice on their own to emit a
// claim — they exist purely to make the prior's contribution to a label's
// score auditable in the evidence trail; the scorer's origination gate
// does not count them, so they can only add to a claim that bio, message,
// or display-name evidence originated.
func ExtractMemberships(memberships []models.Membership, cfg *taxonomy.Config) []models.Hit {
	var hits []models.Hit
	for _, m := range memberships {
		for _, role := range models.Roles {
			if w := cfg.RolePrior(m.GroupKind, role); w != 0 {
				hits = append(hits, models.Hit{
					EvidenceType: models.EvidenceTypeMembership,
					EvidenceRef:  "membership_prior:" + m.GroupID + ":" + string(role),
					LabelType:    models.LabelTypeRole,
					Label:        string(role),
					Weight:       w,
					DecayFactor:  1.0,
				})
			}
		}
		for _, intent := range models.Intents {
			if w := cfg.IntentPrior(m.GroupKind, intent); w != 0 {
				hits = append(hits, models.Hit{
					EvidenceType: models.EvidenceTypeMembership,
					EvidenceRef:  "membership_prior:" + m.GroupID + ":" + string(intent),
					LabelType:    models.LabelTypeIntent,
					Label:        string(intent),
					Weight:       w,
					DecayFactor:  1.0,
				})
			}
		}
	}
	return hits
}
