package taxonomy

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rawblock/claims-engine/pkg/models"
)

const (
	// DefaultConfigPath is used when INFERENCE_CONFIG is unset.
	DefaultConfigPath = "config/inference.v0.5.8.json"

	// ConfigPathEnvVar selects the JSON config file to load.
	ConfigPathEnvVar = "INFERENCE_CONFIG"
)

// Gating holds the emission-gate thresholds.
type Gating struct {
	MinClaimConfidence       float64 `json:"minClaimConfidence"`
	MinNonMembershipEvidence int     `json:"minNonMembershipEvidence"`
}

// Decay holds the temporal-decay constants. Both are config values, never
// wall-clock, so regression fixtures stay stable forever.
type Decay struct {
	ReferenceDateRFC3339 string  `json:"referenceDate"`
	HalfLifeDays         float64 `json:"halfLifeDays"`
}

// Config is the immutable, versioned configuration loaded once per path
// and handed by reference to every component.
type Config struct {
	Version      string                                         `json:"version"`
	Description  string                                         `json:"description"`
	Gating       Gating                                         `json:"gating"`
	Decay        Decay                                          `json:"decay"`
	RolePriors   map[models.GroupKind]map[models.Role]float64   `json:"rolePriors"`
	IntentPriors map[models.GroupKind]map[models.Intent]float64 `json:"intentPriors"`
	OrgTypes     []string                                       `json:"orgTypes"`
}

// RolePrior looks up the additive prior weight for (kind, role). Unknown
// keys return 0, never an error.
func (c *Config) RolePrior(kind models.GroupKind, role models.Role) float64 {
	if c == nil {
		return 0
	}
	byKind, ok := c.RolePriors[kind]
	if !ok {
		return 0
	}
	return byKind[role]
}

// IntentPrior looks up the additive prior weight for (kind, intent).
// Unknown keys return 0, never an error.
func (c *Config) IntentPrior(kind models.GroupKind, intent models.Intent) float64 {
	if c == nil {
		return 0
	}
	byKind, ok := c.IntentPriors[kind]
	if !ok {
		return 0
	}
	return byKind[intent]
}

// ValidOrgType reports whether value is a member of the config's frozen
// org-type vocabulary.
func (c *Config) ValidOrgType(value string) bool {
	for _, v := range c.OrgTypes {
		if v == value {
			return true
		}
	}
	return false
}

var (
	cacheMu sync.RWMutex
	cache   = map[string]*Config{}
)

// Load reads and validates the JSON config at path, caching the result.
// Repeated calls for the same path return the same cached, immutable value.
// Fails with a *ConfigInvalidError on a missing version, missing gating
// block, or missing priors for any declared GroupKind.
func Load(path string) (*Config, error) {
	cacheMu.RLock()
	if cfg, ok := cache[path]; ok {
		cacheMu.RUnlock()
		return cfg, nil
	}
	cacheMu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newConfigInvalid(path, "cannot read config file: "+err.Error())
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, newConfigInvalid(path, "malformed JSON: "+err.Error())
	}

	if err := validate(path, &cfg); err != nil {
		return nil, err
	}

	cacheMu.Lock()
	cache[path] = &cfg
	cacheMu.Unlock()

	return &cfg, nil
}

// ResetCache clears the config cache. Used by tests to force a fresh load.
func ResetCache() {
	cacheMu.Lock()
	cache = map[string]*Config{}
	cacheMu.Unlock()
}

// ResolvePath returns the config path selected by INFERENCE_CONFIG, or
// DefaultConfigPath if unset.
func ResolvePath() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	return DefaultConfigPath
}

var declaredGroupKinds = []models.GroupKind{
	models.GroupKindBD, models.GroupKindWork, models.GroupKindGeneralChat, models.GroupKindUnknown,
}

func validate(path string, cfg *Config) error {
	if cfg.Version == "" {
		return newConfigInvalid(path, "missing required field: version")
	}
	if cfg.Gating.MinClaimConfidence <= 0 || cfg.Gating.MinClaimConfidence >= 1 {
		return newConfigInvalid(path, "gating.minClaimConfidence must be in (0,1)")
	}
	if cfg.Gating.MinNonMembershipEvidence < 1 {
		return newConfigInvalid(path, "gating.minNonMembershipEvidence must be >= 1")
	}
	if cfg.Decay.ReferenceDateRFC3339 == "" {
		return newConfigInvalid(path, "missing decay.referenceDate")
	}
	if _, err := cfg.Decay.ReferenceDate(); err != nil {
		return newConfigInvalid(path, "decay.referenceDate is not RFC3339: "+err.Error())
	}
	if cfg.RolePriors == nil {
		return newConfigInvalid(path, "missing rolePriors")
	}
	if cfg.IntentPriors == nil {
		return newConfigInvalid(path, "missing intentPriors")
	}
	for _, kind := range declaredGroupKinds {
		if _, ok := cfg.RolePriors[kind]; !ok {
			return newConfigInvalid(path, "rolePriors missing entry for GroupKind "+string(kind))
		}
		if _, ok := cfg.IntentPriors[kind]; !ok {
			return newConfigInvalid(path, "intentPriors missing entry for GroupKind "+string(kind))
		}
	}
	hasMM, hasVC := false, false
	for _, v := range cfg.OrgTypes {
		if v == "market_maker" {
			hasMM = true
		}
		if v == "vc" {
			hasVC = true
		}
	}
	if !hasMM || !hasVC {
		return newConfigInvalid(path, "orgTypes must include at least market_maker and vc")
	}
	return nil
}
