package store

import (
	"strings"
	"testing"

	"github.com/rawblock/claims-engine/internal/taxonomy"
	"github.com/rawblock/claims-engine/pkg/models"
)

func validateConfig() *taxonomy.Config {
	return &taxonomy.Config{
		Version:  "v0.5.8",
		OrgTypes: []string{"market_maker", "vc"},
	}
}

func messageEvidence() []models.EvidenceRow {
	return []models.EvidenceRow{
		{EvidenceType: models.EvidenceTypeMessage, EvidenceRef: "message_keyword:msg_bd_selfid", Weight: 2.0},
	}
}

func membershipEvidence() []models.EvidenceRow {
	return []models.EvidenceRow{
		{EvidenceType: models.EvidenceTypeMembership, EvidenceRef: "membership_prior:g1:bd", Weight: 0.6},
	}
}

func TestValidateClaim(t *testing.T) {
	tests := []struct {
		name       string
		claim      models.Claim
		wantReason string // substring of the violation, empty means valid
	}{
		{
			"valid role claim",
			models.Claim{SubjectUserID: "u1", Predicate: models.PredicateHasRole, ObjectValue: "bd", Evidence: messageEvidence()},
			"",
		},
		{
			"no evidence",
			models.Claim{SubjectUserID: "u1", Predicate: models.PredicateHasRole, ObjectValue: "bd"},
			"NoEvidence",
		},
		{
			"membership-only role evidence",
			models.Claim{SubjectUserID: "u1", Predicate: models.PredicateHasRole, ObjectValue: "bd", Evidence: membershipEvidence()},
			"MissingNonMembershipEvidence",
		},
		{
			"invalid role value",
			models.Claim{SubjectUserID: "u1", Predicate: models.PredicateHasRole, ObjectValue: "wizard", Evidence: messageEvidence()},
			"InvalidObjectValue",
		},
		{
			"invalid intent value",
			models.Claim{SubjectUserID: "u1", Predicate: models.PredicateHasIntent, ObjectValue: "lurking", Evidence: messageEvidence()},
			"InvalidObjectValue",
		},
		{
			"invalid org type",
			models.Claim{SubjectUserID: "u1", Predicate: models.PredicateHasOrgType, ObjectValue: "hedge_fund", Evidence: messageEvidence()},
			"InvalidObjectValue",
		},
		{
			"empty affiliation",
			models.Claim{SubjectUserID: "u1", Predicate: models.PredicateAffiliatedWith, ObjectValue: "   ", Evidence: messageEvidence()},
			"EmptyObjectValue",
		},
		{
			"valid affiliation",
			models.Claim{SubjectUserID: "u1", Predicate: models.PredicateAffiliatedWith, ObjectValue: "AngeLabs", Evidence: messageEvidence()},
			"",
		},
		{
			"membership-backed affiliation is allowed",
			models.Claim{SubjectUserID: "u1", Predicate: models.PredicateAffiliatedWith, ObjectValue: "AngeLabs", Evidence: membershipEvidence()},
			"",
		},
		{
			"valid org type",
			models.Claim{SubjectUserID: "u1", Predicate: models.PredicateHasOrgType, ObjectValue: "vc", Evidence: messageEvidence()},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateClaim(tt.claim, validateConfig())
			if tt.wantReason == "" {
				if err != nil {
					t.Fatalf("validateClaim() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("validateClaim() accepted an invalid claim, want %s", tt.wantReason)
			}
			violation, ok := err.(*WriteConstraintViolation)
			if !ok {
				t.Fatalf("error type = %T, want *WriteConstraintViolation", err)
			}
			if !strings.Contains(violation.Reason, tt.wantReason) {
				t.Errorf("reason %q does not mention %s", violation.Reason, tt.wantReason)
			}
		})
	}
}

func TestAuditHashIsStable(t *testing.T) {
	claim := models.Claim{SubjectUserID: "u1", Predicate: models.PredicateHasRole, ObjectValue: "bd"}
	row := models.EvidenceRow{EvidenceType: models.EvidenceTypeMessage, EvidenceRef: "message_keyword:msg_bd_selfid", Weight: 2.0}

	first := auditHash(claim, row, "v0.5.8")
	second := auditHash(claim, row, "v0.5.8")
	if first != second {
		t.Error("audit hash must be deterministic for identical inputs")
	}
	if len(first) != 64 {
		t.Errorf("audit hash length = %d, want 64 hex chars", len(first))
	}
	if first == auditHash(claim, row, "v0.5.9") {
		t.Error("audit hash must change when the version changes")
	}
}
