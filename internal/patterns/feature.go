package patterns

import "github.com/rawblock/claims-engine/pkg/models"

// FeatureRule derives a hit purely from the numeric feature vector. Unlike
// regex Patterns, a FeatureRule's Threshold decides whether it fires; its
// Weight is still declarative config data, not scoring logic.
type FeatureRule struct {
	ID        string
	LabelType models.LabelType
	Label     string
	Weight    float64
	Threshold float64
}

// FeatureDerivedRules are the declarative feature-only evidence rules.
// Feature-only hits can reinforce an already-supported label but can
// never originate a claim on their own.
var FeatureDerivedRules = []FeatureRule{
	{ID: "feat_support_giving_reply_ratio", LabelType: models.LabelTypeIntent, Label: string(models.IntentSupportGiving), Weight: 1.0, Threshold: 0.35},
	{ID: "feat_bd_group_share", LabelType: models.LabelTypeRole, Label: string(models.RoleBD), Weight: 1.0, Threshold: 0.5},
	{ID: "feat_networking_groups_active", LabelType: models.LabelTypeIntent, Label: string(models.IntentNetworking), Weight: 0.8, Threshold: 4},
	{ID: "feat_media_kol_mentions", LabelType: models.LabelTypeRole, Label: string(models.RoleMediaKOL), Weight: 0.8, Threshold: 10},
}
