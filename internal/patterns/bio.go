package patterns

import (
	"regexp"

	"github.com/rawblock/claims-engine/pkg/models"
)

// BioRolePatterns match role hints in free-text bios.
var BioRolePatterns = []Pattern{
	MustCompile("bio_founder", `(?i)\b(founder|co-?founder|ceo|cto)\b`, models.LabelTypeRole, string(models.RoleFounderExec), 2.0, models.DepGroupTitle),
	MustCompile("bio_builder", `(?i)\b(builder|software engineer|smart contract developer|full[- ]stack)\b`, models.LabelTypeRole, string(models.RoleBuilder), 1.5, models.DepGroupTitle),
	MustCompile("bio_investor", `(?i)\b(investor|vc partner|angel investor|venture capital)\b`, models.LabelTypeRole, string(models.RoleInvestorAnalyst), 1.8, models.DepGroupTitle),
	MustCompile("bio_recruiter", `(?i)\b(recruiter|talent acquisition|headhunter|hiring manager)\b`, models.LabelTypeRole, string(models.RoleRecruiter), 1.8, models.DepGroupTitle),
	// bio_bd_business_developer deterministically overrides a builder hit
	// into "bd" — see BusinessDeveloperOverride below.
	MustCompile("bio_bd_business_developer", `(?i)\bbusiness developer\b`, models.LabelTypeRole, string(models.RoleBD), 2.2, models.DepGroupTitle),
	MustCompile("bio_bd_generic", `(?i)\b(business development|bd lead|head of (bd|growth|partnerships))\b`, models.LabelTypeRole, string(models.RoleBD), 2.0, models.DepGroupTitle),
	// bio_bd_org_affiliation fires alongside BioAffiliationPattern below —
	// "BD for <Org>" phrasing is itself role evidence, not just an
	// affiliation hint.
	MustCompile("bio_bd_org_affiliation", `(?i)\bbd\s+(?:for|at)\s+(?-i:[A-Z])`, models.LabelTypeRole, string(models.RoleBD), 1.8, models.DepGroupOrgAffiliation),
	MustCompile("bio_vendor_agency", `(?i)\b(agency|vendor|consultancy|service provider)\b`, models.LabelTypeRole, string(models.RoleVendorAgency), 1.3, models.DepGroupTitle),
	MustCompile("bio_media_kol", `(?i)\b(journalist|editor-in-chief|i write for|content creator)\b`, models.LabelTypeRole, string(models.RoleMediaKOL), 1.5, models.DepGroupSelfID),
}

// BioIntentPatterns match intent hints in free-text bios.
var BioIntentPatterns = []Pattern{
	MustCompile("bio_networking", `(?i)\b(always happy to connect|let's connect|networking)\b`, models.LabelTypeIntent, string(models.IntentNetworking), 1.2, models.DepGroupNone),
	MustCompile("bio_hiring", `(?i)\b(we're hiring|hiring now|open roles)\b`, models.LabelTypeIntent, string(models.IntentHiring), 1.8, models.DepGroupNone),
	MustCompile("bio_selling", `(?i)\b(dm for (pricing|services)|available for hire|book a call)\b`, models.LabelTypeIntent, string(models.IntentSelling), 1.5, models.DepGroupNone),
}

// bioBusinessDeveloper is reused by the bio extractor to apply the
// deterministic override: "Business Developer"
// overrides any builder hit into has_role=bd.
var bioBusinessDeveloper = regexp.MustCompile(`(?i)\bbusiness developer\b`)

// IsBusinessDeveloperBio reports whether the bio contains the phrase that
// triggers the builder→bd override.
func IsBusinessDeveloperBio(bio string) bool {
	return bioBusinessDeveloper.MatchString(bio)
}

// BioAffiliationPattern captures a free-text organisation name following
// common affiliation phrasing in a bio. Capture group 1 is the raw org
// string, normalised by evidence.NormalizeOrgName before use.
var BioAffiliationPattern = MustCompile(
	"bio_affiliation",
	`(?i)\b(?:bd|business development|working|work)\s+(?:for|at|with)\s+((?-i:[A-Z])[\w&.'’ -]{1,60})`,
	models.LabelTypeAffiliation, "", 1.5, models.DepGroupOrgAffiliation,
)
