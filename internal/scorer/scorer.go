// Package scorer combines the weighted Hits the evidence extractors
// produce into per-label scores, applies the dependency discount and the
// emission gates, and produces a models.ScoringResult — the same shape the
// claim writer persists and the regression harness asserts against, with
// no database involved.
package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rawblock/claims-engine/internal/evidence"
	"github.com/rawblock/claims-engine/internal/taxonomy"
	"github.com/rawblock/claims-engine/pkg/models"
)

// scorableRoles/scorableIntents exclude the closed vocabulary's "unknown"
// sentinel — it is never a label the engine scores toward, only a
// fallback for an unrecognised lookup key elsewhere in the system.
var (
	scorableRoles   = models.Roles[:len(models.Roles)-1]
	scorableIntents = models.Intents[:len(models.Intents)-1]
)

// Score runs extraction then scoring for one user bundle against the
// given config. It never performs I/O and never panics on malformed
// bundle data — a malformed field is simply read as its zero value.
// The caller (cmd/engine's run loop) is responsible for
// recovering from a programmer-error panic inside a pattern and recording
// a PerUserScoreFailure abstention; Score itself does not install a
// recover, so a genuine bug surfaces loudly in the regression harness.
func Score(bundle models.UserBundle, cfg *taxonomy.Config) models.ScoringResult {
	dnHits := evidence.ExtractDisplayName(bundle.User.DisplayName)
	bioHits := evidence.ExtractBio(bundle.User.Bio)
	hasDevIdentity := hasDevIdentitySignal(dnHits, bioHits)

	refDate, err := cfg.Decay.ReferenceDate()
	if err != nil {
		refDate = refDateFallback
	}
	msgHits, gated := evidence.ExtractMessages(bundle.Messages, evidence.MessageExtractorOptions{
		ReferenceDate:  refDate,
		HalfLifeDays:   cfg.Decay.HalfLifeDaysOrDefault(),
		HasDevIdentity: hasDevIdentity,
	})
	memberHits := evidence.ExtractMemberships(bundle.Memberships, cfg)
	featureHits := evidence.ExtractFeatures(bundle.Features)

	// Declared gather order — display name, bio, messages, memberships,
	// features — doubles as the hit-insertion order the float sums are
	// performed in.
	var allHits []models.Hit
	allHits = append(allHits, dnHits...)
	allHits = append(allHits, bioHits...)
	allHits = append(allHits, msgHits...)
	allHits = append(allHits, memberHits...)
	allHits = append(allHits, featureHits...)

	roleScored := scoreCategory(allHits, models.LabelTypeRole, scorableRoles)
	intentScored := scoreCategory(allHits, models.LabelTypeIntent, scorableIntents)

	result := models.ScoringResult{UserID: bundle.User.ID}

	result.Claims = append(result.Claims, emitRoles(bundle, cfg, roleScored)...)
	if !anyClaimFor(result.Claims, models.PredicateHasRole) {
		result.Abstentions = append(result.Abstentions, abstain(bundle.User.ID, roleScored, gated, models.LabelTypeRole, cfg))
	}

	if c, ok := emitTopIntent(bundle, cfg, intentScored); ok {
		result.Claims = append(result.Claims, c)
	} else {
		result.Abstentions = append(result.Abstentions, abstain(bundle.User.ID, intentScored, gated, models.LabelTypeIntent, cfg))
	}

	result.Claims = append(result.Claims, emitAffiliations(bundle, cfg, allHits)...)
	result.Claims = append(result.Claims, emitOrgTypes(bundle, cfg, allHits)...)

	return result
}

// refDateFallback is used only if the configured reference date fails to
// parse; Config validation rejects that config before a run starts, so
// this is a last-resort zero value, never a silent substitute for
// wall-clock time.
var refDateFallback = taxonomy.Decay{}.ReferenceDateFallback()

func hasDevIdentitySignal(groups ...[]models.Hit) bool {
	for _, hits := range groups {
		for _, h := range hits {
			if h.LabelType == models.LabelTypeRole && h.Label == string(models.RoleBuilder) {
				return true
			}
		}
	}
	return false
}

// scoreCategory computes a models.ScoredLabel for every label in
// candidateLabels, in that declared order, then applies the category-wide
// softmax.
func scoreCategory[L ~string](allHits []models.Hit, labelType models.LabelType, candidateLabels []L) []models.ScoredLabel {
	scored := make([]models.ScoredLabel, len(candidateLabels))
	raws := make([]float64, len(candidateLabels))
	for i, label := range candidateLabels {
		hits := filterHits(allHits, labelType, string(label))
		raw := categoryRaw(hits)
		scored[i] = models.ScoredLabel{Label: string(label), RawScore: raw, Evidence: hits}
		raws[i] = raw
	}
	probs := softmax(raws)
	for i := range scored {
		scored[i].Probability = probs[i]
	}
	return scored
}

func filterHits(hits []models.Hit, labelType models.LabelType, label string) []models.Hit {
	var out []models.Hit
	for _, h := range hits {
		if h.LabelType == labelType && h.Label == label {
			out = append(out, h)
		}
	}
	return out
}

// categoryRaw folds a label's matching hits into one raw score: a
// dependency-group discount (second hit in the same group counts at
// half weight, tracked across all sources in hit-insertion order), then
// message-sourced hits are summed and log-compressed before being added
// to the non-message hits' plain sum.
func categoryRaw(hits []models.Hit) float64 {
	seen := map[models.DependencyGroup]bool{}
	var nonMsgSum, msgSum float64
	for _, h := range hits {
		w := h.Weight * effectiveDecay(h)
		if h.DependencyGroup != models.DepGroupNone {
			if seen[h.DependencyGroup] {
				w *= 0.5
			}
			seen[h.DependencyGroup] = true
		}
		if h.EvidenceType == models.EvidenceTypeMessage {
			msgSum += w
		} else {
			nonMsgSum += w
		}
	}
	return nonMsgSum + math.Log2(1+msgSum)
}

func effectiveDecay(h models.Hit) float64 {
	if h.DecayFactor == 0 {
		return 1.0
	}
	return h.DecayFactor
}

// softmax converts raw scores into a probability distribution that sums
// to 1 up to float tolerance, using the standard max-subtraction form for
// numerical stability. Deterministic given deterministic input order.
func softmax(raw []float64) []float64 {
	if len(raw) == 0 {
		return nil
	}
	max := raw[0]
	for _, r := range raw[1:] {
		if r > max {
			max = r
		}
	}
	exps := make([]float64, len(raw))
	var sum float64
	for i, r := range raw {
		exps[i] = math.Exp(r - max)
		sum += exps[i]
	}
	probs := make([]float64, len(raw))
	for i, e := range exps {
		probs[i] = e / sum
	}
	return probs
}

// originEvidence reports whether hits contains at least one non-feature,
// non-membership hit: a role/intent/topic claim may originate only if
// bio, message, or display_name evidence contributed.
func originEvidence(hits []models.Hit) bool {
	for _, h := range hits {
		switch h.EvidenceType {
		case models.EvidenceTypeBio, models.EvidenceTypeMessage, models.EvidenceTypeDisplayName:
			return true
		}
	}
	return false
}

func nonMembershipCount(hits []models.Hit) int {
	n := 0
	for _, h := range hits {
		if h.EvidenceType != models.EvidenceTypeMembership {
			n++
		}
	}
	return n
}

// passesGates applies the emission gates in order: origination,
// minimum confidence, minimum non-membership evidence.
func passesGates(s models.ScoredLabel, cfg *taxonomy.Config) bool {
	if !originEvidence(s.Evidence) {
		return false
	}
	if s.Probability < cfg.Gating.MinClaimConfidence {
		return false
	}
	if nonMembershipCount(s.Evidence) < cfg.Gating.MinNonMembershipEvidence {
		return false
	}
	return true
}

// statusFor applies the supported/tentative rule:
// supported iff probability >= 0.55 AND the user has at least 5
// total messages AND the evidence includes a bio/message/display_name row.
func statusFor(probability float64, totalMsgCount int, s models.ScoredLabel) models.ClaimStatus {
	if probability >= 0.55 && totalMsgCount >= 5 && s.HasSubstantiveEvidence() {
		return models.ClaimStatusSupported
	}
	return models.ClaimStatusTentative
}

func emitRoles(bundle models.UserBundle, cfg *taxonomy.Config, scored []models.ScoredLabel) []models.Claim {
	var claims []models.Claim
	for _, s := range scored {
		if !passesGates(s, cfg) {
			continue
		}
		status := statusFor(s.Probability, bundle.Features.TotalMsgCount, s)
		claims = append(claims, buildClaim(bundle.User.ID, models.PredicateHasRole, s.Label, s.Probability, status, cfg.Version, s.Evidence))
	}
	return claims
}

// emitTopIntent emits only the highest-probability intent candidate that
// passes every gate — never one-per-passing-label the way roles are
// multi-emitted.
func emitTopIntent(bundle models.UserBundle, cfg *taxonomy.Config, scored []models.ScoredLabel) (models.Claim, bool) {
	var best *models.ScoredLabel
	for i := range scored {
		s := &scored[i]
		if !passesGates(*s, cfg) {
			continue
		}
		if best == nil || s.Probability > best.Probability {
			best = s
		}
	}
	if best == nil {
		return models.Claim{}, false
	}
	status := statusFor(best.Probability, bundle.Features.TotalMsgCount, *best)
	return buildClaim(bundle.User.ID, models.PredicateHasIntent, best.Label, best.Probability, status, cfg.Version, best.Evidence), true
}

func anyClaimFor(claims []models.Claim, predicate models.Predicate) bool {
	for _, c := range claims {
		if c.Predicate == predicate {
			return true
		}
	}
	return false
}

// abstain decides the reason_code for a predicate with no emitted claim,
// using the top-scoring candidate (by probability, ties broken by
// declared taxonomy order) for diagnosis.
func abstain(userID string, scored []models.ScoredLabel, gated []models.GatedSignal, labelType models.LabelType, cfg *taxonomy.Config) models.Abstention {
	predicate := models.PredicateHasRole
	if labelType == models.LabelTypeIntent {
		predicate = models.PredicateHasIntent
	}

	anyHits := false
	for _, s := range scored {
		if len(s.Evidence) > 0 {
			anyHits = true
			break
		}
	}

	top := scored[0]
	for _, s := range scored[1:] {
		if s.Probability > top.Probability {
			top = s
		}
	}

	// A gated signal beats no_data: the pattern DID match, its co-occurrence
	// requirement is what rejected the candidate.
	for _, g := range gated {
		if g.LabelType != labelType {
			continue
		}
		if anyHits && g.Label != top.Label {
			continue
		}
		return models.Abstention{
			SubjectUserID: userID, Predicate: predicate, ReasonCode: models.ReasonGatedByCooccurrence,
			Details: fmt.Sprintf("pattern %s matched but its co-occurrence requirement was not met for label %s", g.PatternID, g.Label),
			ModelVersion: cfg.Version,
		}
	}

	if !anyHits {
		return models.Abstention{SubjectUserID: userID, Predicate: predicate, ReasonCode: models.ReasonNoData, ModelVersion: cfg.Version}
	}

	if !originEvidence(top.Evidence) || nonMembershipCount(top.Evidence) < cfg.Gating.MinNonMembershipEvidence {
		return models.Abstention{
			SubjectUserID: userID, Predicate: predicate, ReasonCode: models.ReasonInsufficientEvidence,
			Details: fmt.Sprintf("top candidate %s lacked non-membership or originating evidence", top.Label),
			ModelVersion: cfg.Version,
		}
	}

	return models.Abstention{
		SubjectUserID: userID, Predicate: predicate, ReasonCode: models.ReasonLowConfidence,
		Details: fmt.Sprintf("top candidate %s probability %.4f below minClaimConfidence %.4f", top.Label, top.Probability, cfg.Gating.MinClaimConfidence),
		ModelVersion: cfg.Version,
	}
}

// emitAffiliations deduplicates affiliation hits by normalised org name
// and emits one claim per distinct normalised value that clears the
// non-membership-evidence gate. Status is always supported when any
// contributing hit is sourced from bio or display_name.
func emitAffiliations(bundle models.UserBundle, cfg *taxonomy.Config, allHits []models.Hit) []models.Claim {
	type group struct {
		display string
		hits    []models.Hit
	}
	groups := map[string]*group{}
	var order []string
	for _, h := range allHits {
		if h.LabelType != models.LabelTypeAffiliation {
			continue
		}
		display := strings.TrimSpace(h.Label)
		if display == "" {
			continue
		}
		key := evidence.NormalizeOrgName(display)
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &group{display: display}
			groups[key] = g
			order = append(order, key)
		}
		g.hits = append(g.hits, h)
	}

	var claims []models.Claim
	for _, key := range order {
		g := groups[key]
		if nonMembershipCount(g.hits) < cfg.Gating.MinNonMembershipEvidence {
			continue
		}
		confidence := confidenceFromWeights(g.hits)
		if confidence < cfg.Gating.MinClaimConfidence {
			continue
		}
		status := models.ClaimStatusTentative
		if hasBioOrDisplayName(g.hits) {
			status = models.ClaimStatusSupported
		} else if bundle.Features.TotalMsgCount >= 5 && hasSubstantive(g.hits) {
			status = models.ClaimStatusSupported
		}
		claims = append(claims, buildClaim(bundle.User.ID, models.PredicateAffiliatedWith, g.display, confidence, status, cfg.Version, g.hits))
	}
	return claims
}

// emitOrgTypes groups org-type hits by their (closed-vocabulary) exact
// value and emits one claim per distinct value that clears the
// non-membership-evidence gate.
func emitOrgTypes(bundle models.UserBundle, cfg *taxonomy.Config, allHits []models.Hit) []models.Claim {
	groups := map[string][]models.Hit{}
	var order []string
	for _, h := range allHits {
		if h.LabelType != models.LabelTypeOrgType {
			continue
		}
		if !cfg.ValidOrgType(h.Label) {
			continue
		}
		if _, ok := groups[h.Label]; !ok {
			order = append(order, h.Label)
		}
		groups[h.Label] = append(groups[h.Label], h)
	}

	var claims []models.Claim
	for _, value := range order {
		hits := groups[value]
		if nonMembershipCount(hits) < cfg.Gating.MinNonMembershipEvidence {
			continue
		}
		confidence := confidenceFromWeights(hits)
		if confidence < cfg.Gating.MinClaimConfidence {
			continue
		}
		status := models.ClaimStatusTentative
		if hasBioOrDisplayName(hits) {
			status = models.ClaimStatusSupported
		} else if bundle.Features.TotalMsgCount >= 5 && hasSubstantive(hits) {
			status = models.ClaimStatusSupported
		}
		claims = append(claims, buildClaim(bundle.User.ID, models.PredicateHasOrgType, value, confidence, status, cfg.Version, hits))
	}
	return claims
}

func hasBioOrDisplayName(hits []models.Hit) bool {
	for _, h := range hits {
		if h.EvidenceType == models.EvidenceTypeBio || h.EvidenceType == models.EvidenceTypeDisplayName {
			return true
		}
	}
	return false
}

func hasSubstantive(hits []models.Hit) bool {
	return models.ScoredLabel{Evidence: hits}.HasSubstantiveEvidence()
}

// confidenceFromWeights gives affiliation/org-type candidates (which have
// no softmax category to draw a probability from) a bounded [0,1]
// confidence derived from their decayed evidence weight. Candidates below
// minClaimConfidence are dropped by the emitters, the same floor every
// other claim must clear.
func confidenceFromWeights(hits []models.Hit) float64 {
	var sum float64
	for _, h := range hits {
		sum += h.Weight * effectiveDecay(h)
	}
	c := sum / 3.0
	if c > 1 {
		c = 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

func buildClaim(userID string, predicate models.Predicate, objectValue string, confidence float64, status models.ClaimStatus, version string, hits []models.Hit) models.Claim {
	rows := make([]models.EvidenceRow, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, models.EvidenceRow{
			EvidenceType: h.EvidenceType,
			EvidenceRef:  h.EvidenceRef,
			Weight:       h.Weight * effectiveDecay(h),
		})
	}
	return models.Claim{
		SubjectUserID: userID,
		Predicate:     predicate,
		ObjectValue:   objectValue,
		Confidence:    confidence,
		Status:        status,
		ModelVersion:  version,
		Evidence:      rows,
	}
}
