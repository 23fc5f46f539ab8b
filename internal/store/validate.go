package store

import (
	"strings"

	"github.com/rawblock/claims-engine/internal/taxonomy"
	"github.com/rawblock/claims-engine/pkg/models"
)

// validateClaim enforces, at write time, the same invariants the database
// triggers re-check at commit, plus the has_org_type vocabulary check,
// which has no trigger counterpart. A violation here is always a scorer bug,
// never an expected runtime condition — see WriteConstraintViolation.
func validateClaim(c models.Claim, cfg *taxonomy.Config) error {
	if len(c.Evidence) == 0 {
		return violation(c.SubjectUserID, "NoEvidence: claim "+string(c.Predicate)+"="+c.ObjectValue+" has zero evidence rows")
	}

	switch c.Predicate {
	case models.PredicateHasRole, models.PredicateHasIntent, models.PredicateHasTopicAffinity:
		if !hasNonMembershipEvidence(c.Evidence) {
			return violation(c.SubjectUserID, "MissingNonMembershipEvidence: claim "+string(c.Predicate)+"="+c.ObjectValue+" is backed only by membership evidence")
		}
	}

	switch c.Predicate {
	case models.PredicateHasRole:
		if !models.ValidRole(c.ObjectValue) {
			return violation(c.SubjectUserID, "InvalidObjectValue: "+c.ObjectValue+" is not a valid role")
		}
	case models.PredicateHasIntent:
		if !models.ValidIntent(c.ObjectValue) {
			return violation(c.SubjectUserID, "InvalidObjectValue: "+c.ObjectValue+" is not a valid intent")
		}
	case models.PredicateHasOrgType:
		if !cfg.ValidOrgType(c.ObjectValue) {
			return violation(c.SubjectUserID, "InvalidObjectValue: "+c.ObjectValue+" is not a valid org type")
		}
	case models.PredicateAffiliatedWith, models.PredicateHasTopicAffinity:
		if strings.TrimSpace(c.ObjectValue) == "" {
			return violation(c.SubjectUserID, "EmptyObjectValue: "+string(c.Predicate)+" requires a non-empty object_value")
		}
	}

	return nil
}

func hasNonMembershipEvidence(rows []models.EvidenceRow) bool {
	for _, r := range rows {
		if r.EvidenceType != models.EvidenceTypeMembership {
			return true
		}
	}
	return false
}
