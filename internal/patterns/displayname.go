package patterns

import (
	"regexp"
	"strings"

	"github.com/rawblock/claims-engine/pkg/models"
)

// ORG_TITLE_REJECT_SET names bare titles that must never be accepted as
// an organisation/affiliation hint on their own.
var ORG_TITLE_REJECT_SET = map[string]bool{
	"trader":     true,
	"developer":  true,
	"builder":    true,
	"founder":    true,
	"investor":   true,
	"advisor":    true,
	"consultant": true,
	"freelancer": true,
	"creator":    true,
	"analyst":    true,
}

// isAClamp matches "X is a Y" so the extractor can clamp the segment down
// to "X" before further splitting.
var isAClamp = regexp.MustCompile(`(?i)^(.*?)\s+is\s+an?\s+.*$`)

// ApplyIsAClamp applies the IS_A_CLAMP transform to a raw display name.
func ApplyIsAClamp(displayName string) string {
	if m := isAClamp.FindStringSubmatch(displayName); m != nil {
		return strings.TrimSpace(m[1])
	}
	return displayName
}

// displayNameSeparators are the common separators a display name is split
// on before each segment is scanned independently.
var displayNameSeparators = regexp.MustCompile(`[|/·—\-@]`)

// SplitSegments splits a (clamped) display name into trimmed, non-empty
// segments using the common separators.
func SplitSegments(displayName string) []string {
	raw := displayNameSeparators.Split(displayName, -1)
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// DisplayNameRolePatterns match role hints inside individual display-name
// segments.
var DisplayNameRolePatterns = []Pattern{
	MustCompile("dn_founder", `(?i)\b(founder|co-?founder|ceo|cofounder)\b`, models.LabelTypeRole, string(models.RoleFounderExec), 2.0, models.DepGroupTitle),
	MustCompile("dn_builder", `(?i)\b(builder|developer|engineer|dev)\b`, models.LabelTypeRole, string(models.RoleBuilder), 1.5, models.DepGroupTitle),
	MustCompile("dn_investor_longform", `(?i)\b(venture capital|angel investor|investor)\b`, models.LabelTypeRole, string(models.RoleInvestorAnalyst), 1.8, models.DepGroupTitle),
	MustCompile("dn_recruiter", `(?i)\b(recruiter|talent acquisition|headhunter)\b`, models.LabelTypeRole, string(models.RoleRecruiter), 1.8, models.DepGroupTitle),
	MustCompile("dn_bd", `(?i)\b(business development|bd lead|head of bd)\b`, models.LabelTypeRole, string(models.RoleBD), 2.0, models.DepGroupTitle),
	MustCompile("dn_kol", `(?i)\b(journalist|editor|kol|influencer)\b`, models.LabelTypeRole, string(models.RoleMediaKOL), 1.5, models.DepGroupTitle),
}

// DisplayNameOrgPatterns match organisation-type hints inside individual
// display-name segments, aside from the bare VC/MM rules which need
// segment-level context and are handled directly by the extractor.
var DisplayNameOrgPatterns = []Pattern{
	MustCompile("dn_org_marketmaker_longform", `(?i)\b(market maker|market making|liquidity provider)\b`, models.LabelTypeOrgType, "market_maker", 2.0, models.DepGroupNone),
	MustCompile("dn_org_exchange", `(?i)\b(exchange|cex|dex)\b`, models.LabelTypeOrgType, "exchange", 1.5, models.DepGroupNone),
}

// bareVC matches a standalone "VC" token.
var bareVC = regexp.MustCompile(`\bVC\b`)

// bareVCRejectContext matches "and VC"/"or VC"/"& VC", which never counts
// as an organisation hint — VC there reads as a conjunction target, not an
// entity suffix.
var bareVCRejectContext = regexp.MustCompile(`(?i)\b(and|or|&)\s+VC\b`)

// uppercaseWordBeforeVC requires an uppercase word preceding VC in the same
// segment, or VC itself starting the segment.
var uppercaseWordBeforeVC = regexp.MustCompile(`\b[A-Z][A-Za-z0-9]*\s+VC\b`)

// MatchBareVC applies the bare-VC acceptance rule: VC is
// recognised as investor_analyst only when preceded by an uppercase word
// in the same segment or when the segment starts with VC, and is rejected
// in and/or/& VC context.
func MatchBareVC(segment string) bool {
	if !bareVC.MatchString(segment) {
		return false
	}
	if bareVCRejectContext.MatchString(segment) {
		return false
	}
	trimmed := strings.TrimSpace(segment)
	if strings.HasPrefix(strings.ToUpper(trimmed), "VC") {
		return true
	}
	return uppercaseWordBeforeVC.MatchString(segment)
}

// bareMM matches a standalone "MM" token.
var bareMM = regexp.MustCompile(`\bMM\b`)

// uppercaseWordBeforeMM requires an uppercase word preceding MM in the same
// segment, e.g. "AngeLabs MM".
var uppercaseWordBeforeMM = regexp.MustCompile(`\b[A-Z][A-Za-z0-9]*\s+MM\b`)

// MatchBareMM applies the bare-MM acceptance rule: MM is never
// accepted as an organisation hint unless prefixed by an uppercase word.
func MatchBareMM(segment string) bool {
	if !bareMM.MatchString(segment) {
		return false
	}
	return uppercaseWordBeforeMM.MatchString(segment)
}
