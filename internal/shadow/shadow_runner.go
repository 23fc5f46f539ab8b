// Package shadow runs a candidate inference config in parallel with the
// active one over the same user bundles. No candidate config affects the
// persisted claims — its output goes only to the shadow_results table and
// the divergence log, so a threshold/prior/weight change can be observed
// for a while before it is promoted to a real version.
package shadow

import (
	"context"
	"fmt"
	"log"

	"github.com/rawblock/claims-engine/internal/scorer"
	"github.com/rawblock/claims-engine/internal/store"
	"github.com/rawblock/claims-engine/internal/taxonomy"
	"github.com/rawblock/claims-engine/pkg/models"
)

// Runner scores each bundle twice, once per config, and records the diff.
type Runner struct {
	writer    *store.Writer
	active    *taxonomy.Config
	candidate *taxonomy.Config
}

// Result captures the per-user diff between the active and candidate
// configs: claims only the candidate emitted, claims only the active config
// emitted, and the count both agreed on.
type Result struct {
	UserID           string   `json:"userId"`
	ActiveVersion    string   `json:"activeVersion"`
	CandidateVersion string   `json:"candidateVersion"`
	Added            []string `json:"added"`
	Removed          []string `json:"removed"`
	Agreed           int      `json:"agreed"`
}

// NewRunner builds a shadow runner. writer may be nil, in which case diffs
// are logged but not persisted.
func NewRunner(writer *store.Writer, active, candidate *taxonomy.Config) *Runner {
	return &Runner{writer: writer, active: active, candidate: candidate}
}

// Run scores bundle under both configs and persists the comparison. The
// candidate's claims are never handed to the Claim Writer.
func (r *Runner) Run(ctx context.Context, bundle models.UserBundle) (Result, error) {
	activeResult := scorer.Score(bundle, r.active)
	candidateResult := scorer.Score(bundle, r.candidate)

	result := diff(activeResult, candidateResult)
	result.ActiveVersion = r.active.Version
	result.CandidateVersion = r.candidate.Version

	if len(result.Added) > 0 || len(result.Removed) > 0 {
		log.Printf("[Shadow] DIVERGENCE for user %s (%s vs %s): +%d -%d =%d",
			result.UserID, result.ActiveVersion, result.CandidateVersion,
			len(result.Added), len(result.Removed), result.Agreed)
	}

	if r.writer != nil {
		if err := r.writer.WriteShadowResult(ctx, store.ShadowResult{
			UserID:           result.UserID,
			ActiveVersion:    result.ActiveVersion,
			CandidateVersion: result.CandidateVersion,
			Added:            result.Added,
			Removed:          result.Removed,
			Agreed:           result.Agreed,
		}); err != nil {
			return result, err
		}
	}
	return result, nil
}

// claimKey is the identity a claim is diffed under: the same
// (predicate, object_value) pair the store's unique index uses, minus the
// version, which differs between the two runs by construction.
func claimKey(c models.Claim) string {
	return fmt.Sprintf("%s=%s", c.Predicate, c.ObjectValue)
}

func diff(active, candidate models.ScoringResult) Result {
	result := Result{UserID: active.UserID}

	activeKeys := map[string]bool{}
	for _, c := range active.Claims {
		activeKeys[claimKey(c)] = true
	}
	candidateKeys := map[string]bool{}
	for _, c := range candidate.Claims {
		candidateKeys[claimKey(c)] = true
	}

	// Iterate the claim slices, not the maps, so Added/Removed keep the
	// scorer's deterministic emission order.
	for _, c := range candidate.Claims {
		key := claimKey(c)
		if activeKeys[key] {
			result.Agreed++
		} else {
			result.Added = append(result.Added, key)
		}
	}
	for _, c := range active.Claims {
		key := claimKey(c)
		if !candidateKeys[key] {
			result.Removed = append(result.Removed, key)
		}
	}
	return result
}
