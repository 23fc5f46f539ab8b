package store

import (
	"context"
	"strings"
)

// ShadowResult is the persisted form of one user's shadow-config diff.
// Shadow rows never touch the claims table — they live only in
// shadow_results, so observing a candidate config cannot perturb a run.
type ShadowResult struct {
	UserID           string
	ActiveVersion    string
	CandidateVersion string
	Added            []string
	Removed          []string
	Agreed           int
}

// WriteShadowResult inserts one shadow comparison row.
func (w *Writer) WriteShadowResult(ctx context.Context, r ShadowResult) error {
	_, err := w.pool.Exec(ctx,
		`INSERT INTO shadow_results (subject_user_id, active_version, candidate_version, added_claims, removed_claims, agreed_count)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		r.UserID, r.ActiveVersion, r.CandidateVersion,
		strings.Join(r.Added, ","), strings.Join(r.Removed, ","), r.Agreed,
	)
	if err != nil {
		return unavailable("insert shadow result", err)
	}
	return nil
}
