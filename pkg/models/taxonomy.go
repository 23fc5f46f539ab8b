package models

// GroupKind classifies the kind of group a membership belongs to.
type GroupKind string

const (
	GroupKindBD          GroupKind = "bd"
	GroupKindWork        GroupKind = "work"
	GroupKindGeneralChat GroupKind = "general_chat"
	GroupKindUnknown     GroupKind = "unknown"
)

// Role is a closed vocabulary value for the has_role predicate.
type Role string

const (
	RoleBD              Role = "bd"
	RoleBuilder         Role = "builder"
	RoleFounderExec     Role = "founder_exec"
	RoleInvestorAnalyst Role = "investor_analyst"
	RoleRecruiter       Role = "recruiter"
	RoleVendorAgency    Role = "vendor_agency"
	RoleCommunity       Role = "community"
	RoleMediaKOL        Role = "media_kol"
	RoleMarketMaker     Role = "market_maker"
	RoleUnknown         Role = "unknown"
)

// Roles is the canonical declared order used for deterministic tie-breaks.
var Roles = []Role{
	RoleBD, RoleBuilder, RoleFounderExec, RoleInvestorAnalyst, RoleRecruiter,
	RoleVendorAgency, RoleCommunity, RoleMediaKOL, RoleMarketMaker, RoleUnknown,
}

// Intent is a closed vocabulary value for the has_intent predicate.
type Intent string

const (
	IntentNetworking     Intent = "networking"
	IntentEvaluating     Intent = "evaluating"
	IntentSelling        Intent = "selling"
	IntentHiring         Intent = "hiring"
	IntentSupportSeeking Intent = "support_seeking"
	IntentSupportGiving  Intent = "support_giving"
	IntentBroadcasting   Intent = "broadcasting"
	IntentUnknown        Intent = "unknown"
)

// Intents is the canonical declared order used for deterministic tie-breaks.
var Intents = []Intent{
	IntentNetworking, IntentEvaluating, IntentSelling, IntentHiring,
	IntentSupportSeeking, IntentSupportGiving, IntentBroadcasting, IntentUnknown,
}

// Predicate is the closed vocabulary of claim predicates.
type Predicate string

const (
	PredicateHasRole          Predicate = "has_role"
	PredicateHasIntent        Predicate = "has_intent"
	PredicateHasTopicAffinity Predicate = "has_topic_affinity"
	PredicateAffiliatedWith   Predicate = "affiliated_with"
	PredicateHasOrgType       Predicate = "has_org_type"
)

// EvidenceType is the closed vocabulary of evidence sources.
type EvidenceType string

const (
	EvidenceTypeBio         EvidenceType = "bio"
	EvidenceTypeMessage     EvidenceType = "message"
	EvidenceTypeFeature     EvidenceType = "feature"
	EvidenceTypeMembership  EvidenceType = "membership"
	EvidenceTypeDisplayName EvidenceType = "display_name"
	EvidenceTypeLLM         EvidenceType = "llm"
)

// ClaimStatus is the closed vocabulary of claim confidence status.
type ClaimStatus string

const (
	ClaimStatusTentative ClaimStatus = "tentative"
	ClaimStatusSupported ClaimStatus = "supported"
)

// ReasonCode is the closed vocabulary of abstention reasons.
type ReasonCode string

const (
	ReasonNoData               ReasonCode = "no_data"
	ReasonInsufficientEvidence ReasonCode = "insufficient_evidence"
	ReasonLowConfidence        ReasonCode = "low_confidence"
	ReasonGatedByCooccurrence  ReasonCode = "gated_by_cooccurrence"
)

// LabelType discriminates which closed vocabulary (or free-text predicate)
// a Hit or ScoredLabel belongs to.
type LabelType string

const (
	LabelTypeRole        LabelType = "role"
	LabelTypeIntent      LabelType = "intent"
	LabelTypeOrgType     LabelType = "orgtype"
	LabelTypeAffiliation LabelType = "affiliation"
)

// ValidRole reports whether s is a member of the closed Role vocabulary.
func ValidRole(s string) bool {
	for _, r := range Roles {
		if string(r) == s {
			return true
		}
	}
	return false
}

// ValidIntent reports whether s is a member of the closed Intent vocabulary.
func ValidIntent(s string) bool {
	for _, i := range Intents {
		if string(i) == s {
			return true
		}
	}
	return false
}
