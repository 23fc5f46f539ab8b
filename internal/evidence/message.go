package evidence

import (
	"strings"
	"time"

	"github.com/rawblock/claims-engine/internal/patterns"
	"github.com/rawblock/claims-engine/pkg/models"
)

// MessageExtractorOptions carries the cross-extractor context the message
// extractor needs for the builder_tech smart-contract discount: whether
// the user already has a bio/display-name developer identity signal.
type MessageExtractorOptions struct {
	ReferenceDate  time.Time
	HalfLifeDays   float64
	HasDevIdentity bool // from bio/display-name hits, computed by the caller
}

// ExtractMessages runs the message-level pattern families against every
// sampled message, applying the temporal decay
// factor and the per-rule contracts (first-person gating, PR/rust word
// boundaries, support direction, broadcasting link requirement, the
// evaluating_schedule co-occurrence gate, and the smart-contract
// discount). gated carries every pattern that matched its primary regex
// but was rejected by a co-occurrence requirement — never scored, kept
// only so the scorer can distinguish a gated_by_cooccurrence abstention
// from a plain low_confidence one.
func ExtractMessages(messages []models.MessageSample, opts MessageExtractorOptions) (hits []models.Hit, gated []models.GatedSignal) {
	for _, msg := range messages {
		if strings.TrimSpace(msg.Text) == "" {
			continue
		}
		decay := ComputeDecay(msg.SentAt, opts.ReferenceDate, opts.HalfLifeDays)
		firstPerson := patterns.HasFirstPersonSubject(msg.Text)

		hasBuilderAction := false
		for _, p := range patterns.MessageBuilderActionPatterns {
			if ok, _ := p.Matches(msg.Text); ok && firstPerson {
				hasBuilderAction = true
				hits = append(hits, messageHit(p, msg, decay))
			}
		}

		for _, p := range patterns.MessageBuilderTechPatterns {
			ok, _ := p.Matches(msg.Text)
			if !ok {
				continue
			}
			weight := p.Weight
			if p.ID == "msg_builder_tech_smart_contract" && !hasBuilderAction && !opts.HasDevIdentity {
				weight *= 0.5
			}
			h := messageHit(p, msg, decay)
			h.Weight = weight
			hits = append(hits, h)
		}

		hits = appendMatched(hits, &gated, patterns.MessageHiringPatterns, msg, decay)
		hits = appendMatched(hits, &gated, patterns.MessageSupportGivingPatterns, msg, decay)
		hits = appendMatched(hits, &gated, patterns.MessageSupportSeekingPatterns, msg, decay)
		hits = appendMatched(hits, &gated, patterns.MessageBroadcastingPatterns, msg, decay)
		hits = appendMatched(hits, &gated, patterns.MessageEvaluatingInvestmentPatterns, msg, decay)
		hits = appendMatched(hits, &gated, patterns.MessageEvaluatingSchedulePatterns, msg, decay)
		hits = appendMatched(hits, &gated, patterns.MessageBDPatterns, msg, decay)
		hits = appendMatched(hits, &gated, patterns.MessageOrgTypePatterns, msg, decay)

		// media_kol self-ID is first-person by construction, gate applies
		// as a no-op reminder that third-party "X is a journalist" never
		// reaches this pattern family.
		hits = appendMatched(hits, &gated, patterns.MessageMediaKOLPatterns, msg, decay)

		if m := patterns.MessageBDOrgAffiliationPattern.Regex.FindStringSubmatch(msg.Text); m != nil {
			hits = append(hits, affiliationHit(patterns.MessageBDOrgAffiliationPattern, msg, decay, m[1]))
		}
		if m := patterns.MessageAffiliationPattern.Regex.FindStringSubmatch(msg.Text); m != nil {
			hits = append(hits, affiliationHit(patterns.MessageAffiliationPattern, msg, decay, m[1]))
		}
	}

	return hits, gated
}

// appendMatched runs ps against msg, appending scored hits to hits and
// recording any co-occurrence-rejected match into *gated.
func appendMatched(hits []models.Hit, gated *[]models.GatedSignal, ps []patterns.Pattern, msg models.MessageSample, decay float64) []models.Hit {
	for _, p := range ps {
		ok, wasGated := p.Matches(msg.Text)
		if ok {
			hits = append(hits, messageHit(p, msg, decay))
			continue
		}
		if wasGated {
			*gated = append(*gated, models.GatedSignal{
				LabelType:  p.LabelType,
				Label:      p.Label,
				PatternID:  p.ID,
				ReasonCode: p.CoOccurs.RejectReason,
				MessageID:  msg.ExternalID,
			})
		}
	}
	return hits
}

func messageHit(p patterns.Pattern, msg models.MessageSample, decay float64) models.Hit {
	return models.Hit{
		EvidenceType:    models.EvidenceTypeMessage,
		EvidenceRef:     "message_keyword:" + p.ID,
		LabelType:       p.LabelType,
		Label:           p.Label,
		Weight:          p.Weight,
		DecayFactor:     decay,
		PatternID:       p.ID,
		MessageID:       msg.ExternalID,
		DependencyGroup: p.DependencyGroup,
	}
}

func affiliationHit(p patterns.Pattern, msg models.MessageSample, decay float64, org string) models.Hit {
	org = strings.TrimSpace(org)
	return models.Hit{
		EvidenceType:    models.EvidenceTypeMessage,
		EvidenceRef:     "affiliation:" + NormalizeOrgName(org),
		LabelType:       models.LabelTypeAffiliation,
		Label:           org,
		Weight:          p.Weight,
		DecayFactor:     decay,
		PatternID:       p.ID,
		MessageID:       msg.ExternalID,
		DependencyGroup: p.DependencyGroup,
	}
}
