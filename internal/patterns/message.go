package patterns

import (
	"regexp"

	"github.com/rawblock/claims-engine/pkg/models"
)

// firstPersonSubject matches an "I"/"we" style pronoun anywhere in the
// text, used to gate builder_action hits to first-person phrasing only —
// "they pushed a new version" must never count.
var firstPersonSubject = regexp.MustCompile(`(?i)\b(i|i've|i'm|we|we've|we're)\b`)

// MessageBuilderActionPatterns match first-person build/ship/deploy
// language. HasFirstPersonSubject must also hold for the message.
var MessageBuilderActionPatterns = []Pattern{
	MustCompile("msg_builder_action", `(?i)\b(shipped|deployed|pushed|released|built|merged|launched)\b`, models.LabelTypeRole, string(models.RoleBuilder), 2.0, models.DepGroupNone),
}

// HasFirstPersonSubject reports whether text contains a first-person
// pronoun, required for a builder_action hit to count.
func HasFirstPersonSubject(text string) bool {
	return firstPersonSubject.MatchString(text)
}

// prPattern requires "PR #<digits>" or "pull request" — a bare "PR" alone
// is rejected.
var prPattern = regexp.MustCompile(`(?i)\bPR\s*#\d+\b|\bpull request\b`)

// bareSmartContract matches "smart contract" without requiring any other
// context — the 0.5x discount for lack of accompanying identity signal is
// applied by the message extractor, not here.
var bareSmartContract = regexp.MustCompile(`(?i)\bsmart contract\b`)

// bareRust requires a word boundary so "trust" never matches.
var bareRust = regexp.MustCompile(`(?i)\brust\b`)

// MessageBuilderTechPatterns match technology-noun mentions that support a
// builder claim. The PR rule lives in prPattern itself; the smart-contract
// pattern carries an extra discount applied by the message extractor (see
// evidence/message.go).
var MessageBuilderTechPatterns = []Pattern{
	{ID: "msg_builder_tech_pr", Regex: prPattern, LabelType: models.LabelTypeRole, Label: string(models.RoleBuilder), Weight: 1.2, DependencyGroup: models.DepGroupTech},
	{ID: "msg_builder_tech_smart_contract", Regex: bareSmartContract, LabelType: models.LabelTypeRole, Label: string(models.RoleBuilder), Weight: 1.2, DependencyGroup: models.DepGroupTech},
	{ID: "msg_builder_tech_rust", Regex: bareRust, LabelType: models.LabelTypeRole, Label: string(models.RoleBuilder), Weight: 1.0, DependencyGroup: models.DepGroupTech},
	MustCompile("msg_builder_tech_generic", `(?i)\b(solidity|typescript|golang|kubernetes|mainnet|testnet)\b`, models.LabelTypeRole, string(models.RoleBuilder), 0.8, models.DepGroupTech),
}

// MessageHiringPatterns require explicit hiring language. Bare "we're
// looking" without a role noun is rejected by construction — the
// "looking for a <role>" alternative requires the role noun.
var MessageHiringPatterns = []Pattern{
	MustCompile("msg_hiring", `(?i)\b(hiring|recruiting|job posting|open role|open position|vacanc(y|ies)|send (your )?(cv|resume)|looking for an? (senior |junior |lead |staff )?(\w+ )?(developer|engineer|designer|manager|analyst|marketer|recruiter))\b`, models.LabelTypeIntent, string(models.IntentHiring), 2.0, models.DepGroupNone),
}

// MessageSupportGivingPatterns match direction-specific "I will help you"
// phrasing — bare "help" matches neither giving nor seeking.
var MessageSupportGivingPatterns = []Pattern{
	MustCompile("msg_support_giving", `(?i)\b(i can help you|happy to help|glad to help|always happy to help)\b`, models.LabelTypeIntent, string(models.IntentSupportGiving), 1.8, models.DepGroupNone),
}

// MessageSupportSeekingPatterns match direction-specific "I need help"
// phrasing.
var MessageSupportSeekingPatterns = []Pattern{
	MustCompile("msg_support_seeking", `(?i)\b(need help|help me|i'?m stuck|stuck on this)\b`, models.LabelTypeIntent, string(models.IntentSupportSeeking), 1.8, models.DepGroupNone),
}

// MessageBroadcastingPatterns match announcement language. "update"
// requires a link or explicit "check out/it" co-occurrence; announce,
// release, and congrat remain bare.
var MessageBroadcastingPatterns = []Pattern{
	MustCompile("msg_broadcasting_update", `(?i)\bupdate\b`, models.LabelTypeIntent, string(models.IntentBroadcasting), 1.5, models.DepGroupNone).
		WithCoOccurrence(`(?i)(https?://|check (it|this) out|check out)`, models.ReasonGatedByCooccurrence),
	MustCompile("msg_broadcasting_bare", `(?i)\b(announc(e|ing|ed)|release[ds]?|congrat(s|ulations)?)\b`, models.LabelTypeIntent, string(models.IntentBroadcasting), 1.3, models.DepGroupNone),
}

// MessageMediaKOLPatterns gate first-person self-ID language for media/KOL
// identity — third-party mentions of "journalist" never count.
var MessageMediaKOLPatterns = []Pattern{
	MustCompile("msg_media_kol_selfid", `(?i)\bi('m| am) an? (journalist|reporter|editor)\b|\bi write for\b|\beditor-in-chief\b`, models.LabelTypeRole, string(models.RoleMediaKOL), 1.8, models.DepGroupSelfID),
}

// MessageEvaluatingInvestmentPatterns require bounded investment phrases —
// bare "back" is rejected; only "backed by"/"backing"/"backers" count.
var MessageEvaluatingInvestmentPatterns = []Pattern{
	MustCompile("msg_evaluating_investment", `(?i)\b(backed by|backing|backers)\b`, models.LabelTypeIntent, string(models.IntentEvaluating), 1.8, models.DepGroupInvestment),
}

// investmentLanguageToken is the co-occurrence requirement for
// evaluating_schedule: schedule/call/meeting tokens alone are never
// sufficient, they must share a message with investment language.
var investmentLanguageToken = `(?i)\b(invest(ment|ing)?|backed by|backing|backers|fund(ing)?|raise|round)\b`

// MessageEvaluatingSchedulePatterns require schedule/call/meeting tokens
// AND an investment-language token in the same message.
var MessageEvaluatingSchedulePatterns = []Pattern{
	MustCompile("msg_evaluating_schedule", `(?i)\b(schedule|set up|book)\s+(a |an )?(call|meeting|chat)\b`, models.LabelTypeIntent, string(models.IntentEvaluating), 1.8, models.DepGroupSchedule).
		WithCoOccurrence(investmentLanguageToken, models.ReasonGatedByCooccurrence),
}

// MessageBDPatterns capture BD self-identification, org affiliation,
// title, and "Growth & Partnerships" co-occurrence forms.
var MessageBDPatterns = []Pattern{
	MustCompile("msg_bd_selfid", `(?i)\bi('m| am) in bd\b`, models.LabelTypeRole, string(models.RoleBD), 2.0, models.DepGroupSelfID),
	MustCompile("msg_bd_title", `(?i)\b(head of (bd|growth)|vp of bd|vice president of business development)\b`, models.LabelTypeRole, string(models.RoleBD), 1.8, models.DepGroupTitle),
	MustCompile("msg_bd_growth_partnerships", `(?i)\bgrowth\b[^.!?]{0,20}\bpartnerships\b|\bpartnerships\b[^.!?]{0,20}\bgrowth\b`, models.LabelTypeRole, string(models.RoleBD), 1.5, models.DepGroupTitle),
	// msg_bd_org_affiliation_role fires alongside MessageBDOrgAffiliationPattern
	// below — "BD for/at <Org>" is role evidence in its own right.
	MustCompile("msg_bd_org_affiliation_role", `(?i)\bbd\s+(?:for|at)\s+(?-i:[A-Z])`, models.LabelTypeRole, string(models.RoleBD), 1.8, models.DepGroupOrgAffiliation),
}

// MessageBDOrgAffiliationPattern captures "BD for <Org>"/"BD at <Org>"
// org-affiliation phrasing. Capture group 1 is the raw org string.
var MessageBDOrgAffiliationPattern = MustCompile(
	"msg_bd_org_affiliation",
	`(?i)\bbd\s+(?:for|at)\s+((?-i:[A-Z])[\w&.'’ -]{1,60})`,
	models.LabelTypeAffiliation, "", 1.8, models.DepGroupOrgAffiliation,
)

// MessageAffiliationPattern captures general "I'm at <Org>"/"working at
// <Org>" affiliation phrasing in messages.
var MessageAffiliationPattern = MustCompile(
	"msg_affiliation_generic",
	`(?i)\b(?:i'?m at|working at|work at|part of)\s+((?-i:[A-Z])[\w&.'’ -]{1,60})`,
	models.LabelTypeAffiliation, "", 1.3, models.DepGroupOrgAffiliation,
)

// MessageOrgTypePatterns match org-type hints in message text.
var MessageOrgTypePatterns = []Pattern{
	MustCompile("msg_org_marketmaker_longform", `(?i)\b(market maker|market making|liquidity provider)\b`, models.LabelTypeOrgType, "market_maker", 2.0, models.DepGroupNone),
	MustCompile("msg_org_vc_longform", `(?i)\b(venture capital|vc fund|venture fund)\b`, models.LabelTypeOrgType, "vc", 1.8, models.DepGroupNone),
	MustCompile("msg_org_exchange", `(?i)\b(exchange|centralized exchange|decentralized exchange)\b`, models.LabelTypeOrgType, "exchange", 1.3, models.DepGroupNone),
}
