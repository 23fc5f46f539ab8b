package evidence

import (
	"fmt"

	"github.com/rawblock/claims-engine/internal/patterns"
	"github.com/rawblock/claims-engine/pkg/models"
)

// ExtractFeatures derives hits purely from the numeric feature vector.
// Declarative thresholds live in patterns.FeatureDerivedRules; this
// function only decides whether each rule's threshold is met.
// Feature-only hits can reinforce an already-supported label but can
// never originate a claim by themselves.
func ExtractFeatures(f models.FeatureSnapshot) []models.Hit {
	var hits []models.Hit
	for _, rule := range patterns.FeatureDerivedRules {
		if !featureRuleFires(rule, f) {
			continue
		}
		hits = append(hits, models.Hit{
			EvidenceType: models.EvidenceTypeFeature,
			EvidenceRef:  fmt.Sprintf("feature_derived:%s", rule.ID),
			LabelType:    rule.LabelType,
			Label:        rule.Label,
			Weight:       rule.Weight,
			DecayFactor:  1.0,
			PatternID:    rule.ID,
		})
	}
	return hits
}

func featureRuleFires(rule patterns.FeatureRule, f models.FeatureSnapshot) bool {
	switch rule.ID {
	case "feat_support_giving_reply_ratio":
		return replyRatio(f) >= rule.Threshold
	case "feat_bd_group_share":
		return f.BDGroupMsgShare >= rule.Threshold
	case "feat_networking_groups_active":
		return float64(f.GroupsActiveCount) >= rule.Threshold
	case "feat_media_kol_mentions":
		return float64(f.TotalMentionCount) >= rule.Threshold
	default:
		return false
	}
}

// replyRatio is the fraction of a user's messages that are replies,
// undefined (zero total) treated as 0 per the FeatureSnapshot invariant.
func replyRatio(f models.FeatureSnapshot) float64 {
	if f.TotalMsgCount <= 0 {
		return 0
	}
	return float64(f.TotalReplyCount) / float64(f.TotalMsgCount)
}
