package evidence

import (
	"testing"

	"github.com/rawblock/claims-engine/pkg/models"
)

func TestExtractFeaturesThresholds(t *testing.T) {
	tests := []struct {
		name     string
		features models.FeatureSnapshot
		wantIDs  []string
	}{
		{
			"high reply ratio",
			models.FeatureSnapshot{TotalMsgCount: 100, TotalReplyCount: 40},
			[]string{"feat_support_giving_reply_ratio"},
		},
		{
			"high bd share",
			models.FeatureSnapshot{BDGroupMsgShare: 0.7},
			[]string{"feat_bd_group_share"},
		},
		{
			"many active groups",
			models.FeatureSnapshot{GroupsActiveCount: 5},
			[]string{"feat_networking_groups_active"},
		},
		{
			"heavily mentioned",
			models.FeatureSnapshot{TotalMentionCount: 12},
			[]string{"feat_media_kol_mentions"},
		},
		{
			"all zero fires nothing",
			models.FeatureSnapshot{},
			nil,
		},
		{
			"zero messages means zero reply ratio",
			models.FeatureSnapshot{TotalReplyCount: 10},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := ExtractFeatures(tt.features)
			var got []string
			for _, h := range hits {
				got = append(got, h.PatternID)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("fired %v, want %v", got, tt.wantIDs)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Errorf("fired %v, want %v", got, tt.wantIDs)
				}
			}
		})
	}
}

func TestFeatureHitsAreFeatureTyped(t *testing.T) {
	hits := ExtractFeatures(models.FeatureSnapshot{BDGroupMsgShare: 1.0})
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].EvidenceType != models.EvidenceTypeFeature {
		t.Errorf("evidence type = %s, want feature", hits[0].EvidenceType)
	}
	if hits[0].EvidenceRef != "feature_derived:feat_bd_group_share" {
		t.Errorf("evidence ref = %s", hits[0].EvidenceRef)
	}
}
