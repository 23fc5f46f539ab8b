package taxonomy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rawblock/claims-engine/pkg/models"
)

const validConfigJSON = `{
  "version": "v0.5.8-test",
  "gating": {"minClaimConfidence": 0.35, "minNonMembershipEvidence": 1},
  "decay": {"referenceDate": "2026-07-29T00:00:00Z", "halfLifeDays": 30},
  "rolePriors": {"bd": {"bd": 0.6}, "work": {}, "general_chat": {}, "unknown": {}},
  "intentPriors": {"bd": {"networking": 0.5}, "work": {}, "general_chat": {}, "unknown": {}},
  "orgTypes": ["market_maker", "vc", "exchange"]
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	ResetCache()
	path := writeConfig(t, validConfigJSON)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error for a valid config: %v", err)
	}
	if cfg.Version != "v0.5.8-test" {
		t.Errorf("Version = %q, want v0.5.8-test", cfg.Version)
	}
	if cfg.Gating.MinClaimConfidence != 0.35 {
		t.Errorf("MinClaimConfidence = %v, want 0.35", cfg.Gating.MinClaimConfidence)
	}
}

func TestLoadCachesPerPath(t *testing.T) {
	ResetCache()
	path := writeConfig(t, validConfigJSON)

	first, err := Load(path)
	if err != nil {
		t.Fatalf("first Load(): %v", err)
	}
	second, err := Load(path)
	if err != nil {
		t.Fatalf("second Load(): %v", err)
	}
	if first != second {
		t.Error("expected repeated Load() of the same path to return the cached *Config")
	}
}

func TestLoadRejectsInvalidConfigs(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing version", `{
			"gating": {"minClaimConfidence": 0.35, "minNonMembershipEvidence": 1},
			"decay": {"referenceDate": "2026-07-29T00:00:00Z", "halfLifeDays": 30},
			"rolePriors": {"bd": {}, "work": {}, "general_chat": {}, "unknown": {}},
			"intentPriors": {"bd": {}, "work": {}, "general_chat": {}, "unknown": {}},
			"orgTypes": ["market_maker", "vc"]}`},
		{"confidence out of range", `{
			"version": "v1",
			"gating": {"minClaimConfidence": 1.5, "minNonMembershipEvidence": 1},
			"decay": {"referenceDate": "2026-07-29T00:00:00Z", "halfLifeDays": 30},
			"rolePriors": {"bd": {}, "work": {}, "general_chat": {}, "unknown": {}},
			"intentPriors": {"bd": {}, "work": {}, "general_chat": {}, "unknown": {}},
			"orgTypes": ["market_maker", "vc"]}`},
		{"zero non-membership evidence", `{
			"version": "v1",
			"gating": {"minClaimConfidence": 0.35, "minNonMembershipEvidence": 0},
			"decay": {"referenceDate": "2026-07-29T00:00:00Z", "halfLifeDays": 30},
			"rolePriors": {"bd": {}, "work": {}, "general_chat": {}, "unknown": {}},
			"intentPriors": {"bd": {}, "work": {}, "general_chat": {}, "unknown": {}},
			"orgTypes": ["market_maker", "vc"]}`},
		{"missing group kind in priors", `{
			"version": "v1",
			"gating": {"minClaimConfidence": 0.35, "minNonMembershipEvidence": 1},
			"decay": {"referenceDate": "2026-07-29T00:00:00Z", "halfLifeDays": 30},
			"rolePriors": {"bd": {}, "work": {}, "general_chat": {}},
			"intentPriors": {"bd": {}, "work": {}, "general_chat": {}, "unknown": {}},
			"orgTypes": ["market_maker", "vc"]}`},
		{"org types missing vc", `{
			"version": "v1",
			"gating": {"minClaimConfidence": 0.35, "minNonMembershipEvidence": 1},
			"decay": {"referenceDate": "2026-07-29T00:00:00Z", "halfLifeDays": 30},
			"rolePriors": {"bd": {}, "work": {}, "general_chat": {}, "unknown": {}},
			"intentPriors": {"bd": {}, "work": {}, "general_chat": {}, "unknown": {}},
			"orgTypes": ["market_maker"]}`},
		{"malformed JSON", `{"version": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetCache()
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() accepted an invalid config")
			}
			var invalid *ConfigInvalidError
			if !errors.As(err, &invalid) {
				t.Errorf("Load() error = %T, want *ConfigInvalidError", err)
			}
		})
	}
}

func TestPriorLookupUnknownKeysReturnZero(t *testing.T) {
	ResetCache()
	cfg, err := Load(writeConfig(t, validConfigJSON))
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}

	if got := cfg.RolePrior(models.GroupKindBD, models.RoleBD); got != 0.6 {
		t.Errorf("RolePrior(bd, bd) = %v, want 0.6", got)
	}
	if got := cfg.RolePrior(models.GroupKindWork, models.RoleMediaKOL); got != 0 {
		t.Errorf("RolePrior(work, media_kol) = %v, want 0", got)
	}
	if got := cfg.RolePrior("nonexistent", models.RoleBD); got != 0 {
		t.Errorf("RolePrior(nonexistent, bd) = %v, want 0", got)
	}
	if got := cfg.IntentPrior(models.GroupKindBD, models.IntentNetworking); got != 0.5 {
		t.Errorf("IntentPrior(bd, networking) = %v, want 0.5", got)
	}
}

func TestValidOrgType(t *testing.T) {
	ResetCache()
	cfg, err := Load(writeConfig(t, validConfigJSON))
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if !cfg.ValidOrgType("market_maker") {
		t.Error("market_maker should be a valid org type")
	}
	if cfg.ValidOrgType("hedge_fund") {
		t.Error("hedge_fund is not in the frozen org type set")
	}
}
