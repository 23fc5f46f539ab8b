package models

// DependencyGroup tags a pattern as belonging to a correlated family of
// signals, so the scorer can discount a second hit from the same family
// instead of double-counting near-duplicate evidence.
type DependencyGroup int

const (
	DepGroupNone           DependencyGroup = 0 // independent signal, never discounted
	DepGroupSelfID         DependencyGroup = 1 // "I'm a X" / "I'm in X" self-identification phrasing
	DepGroupOrgAffiliation DependencyGroup = 2 // "X for <org>" / "X at <org>" phrasing
	DepGroupTitle          DependencyGroup = 3 // title-style phrasing ("Head of Growth")
	DepGroupTech           DependencyGroup = 4 // bare technology-noun mentions
	DepGroupSchedule       DependencyGroup = 5 // scheduling/call language
	DepGroupInvestment     DependencyGroup = 6 // investment-language tokens
)

// Hit is one weighted signal produced by an evidence extractor. EvidenceRef
// is a stable, human-inspectable string of the form
// "<source>_keyword:<pattern_id>" or "affiliation:<org>".
type Hit struct {
	EvidenceType    EvidenceType
	EvidenceRef     string
	LabelType       LabelType
	Label           string
	Weight          float64
	DecayFactor     float64 // 1.0 when not applicable (non-message hits)
	PatternID       string
	MessageID       string
	Span            [2]int // byte offsets into the source text, [0,0] when not applicable
	DependencyGroup DependencyGroup
}

// EvidenceRow is the persisted form of a Hit, attached to a written Claim.
type EvidenceRow struct {
	EvidenceType EvidenceType
	EvidenceRef  string
	Weight       float64
	AuditHash    string
}

// ScoredLabel is a label's score after priors+hits are combined and the
// category-wide softmax applied.
type ScoredLabel struct {
	Label       string
	RawScore    float64
	Probability float64
	Evidence    []Hit
}

// NonMembershipEvidenceCount returns the number of hits in Evidence whose
// EvidenceType is not EvidenceTypeMembership.
func (s ScoredLabel) NonMembershipEvidenceCount() int {
	n := 0
	for _, h := range s.Evidence {
		if h.EvidenceType != EvidenceTypeMembership {
			n++
		}
	}
	return n
}

// HasSubstantiveEvidence reports whether Evidence contains at least one
// bio, message, or display_name row — the "supported" status requirement.
func (s ScoredLabel) HasSubstantiveEvidence() bool {
	for _, h := range s.Evidence {
		switch h.EvidenceType {
		case EvidenceTypeBio, EvidenceTypeMessage, EvidenceTypeDisplayName:
			return true
		}
	}
	return false
}

// GatedSignal records a pattern that matched its primary regex but was
// rejected by an attached co-occurrence requirement. It never
// contributes a Hit or a score; the scorer keeps it only to distinguish a
// gated_by_cooccurrence abstention from a plain low_confidence one.
type GatedSignal struct {
	LabelType  LabelType
	Label      string
	PatternID  string
	ReasonCode ReasonCode
	MessageID  string
}
