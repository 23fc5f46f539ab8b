package shadow

import "math"

// Evaluator aggregates per-user shadow diffs into corpus-level agreement
// metrics, so a multi-day shadow window can be summarized as "the candidate
// config agrees with the active one on 97% of claims, and the disagreement
// concentrates on these claim shapes" instead of a raw divergence log.
type Evaluator struct {
	agreed  int
	added   int
	removed int

	activeLabelCounts    map[string]int
	candidateLabelCounts map[string]int
}

func NewEvaluator() *Evaluator {
	return &Evaluator{
		activeLabelCounts:    map[string]int{},
		candidateLabelCounts: map[string]int{},
	}
}

// Observe folds one user's diff into the running totals.
func (e *Evaluator) Observe(r Result) {
	e.agreed += r.Agreed
	e.added += len(r.Added)
	e.removed += len(r.Removed)
	for _, key := range r.Added {
		e.candidateLabelCounts[key]++
	}
	for _, key := range r.Removed {
		e.activeLabelCounts[key]++
	}
}

// Jaccard returns |active ∩ candidate| / |active ∪ candidate| over all
// observed claims. 1.0 means the candidate config is behaviorally identical
// on this corpus; an empty corpus also reads as full agreement.
func (e *Evaluator) Jaccard() float64 {
	union := e.agreed + e.added + e.removed
	if union == 0 {
		return 1.0
	}
	return float64(e.agreed) / float64(union)
}

// DivergenceEntropy is the Shannon entropy, in bits, of the
// divergent-claim distribution. Near zero means the disagreement is
// concentrated on one or two claim shapes (a targeted change); high
// entropy means the candidate shifts claims broadly across the taxonomy.
func (e *Evaluator) DivergenceEntropy() float64 {
	total := 0
	for _, n := range e.activeLabelCounts {
		total += n
	}
	for _, n := range e.candidateLabelCounts {
		total += n
	}
	if total == 0 {
		return 0
	}
	var ent float64
	for _, counts := range []map[string]int{e.activeLabelCounts, e.candidateLabelCounts} {
		for _, n := range counts {
			p := float64(n) / float64(total)
			ent -= p * math.Log2(p)
		}
	}
	return ent
}
