package evidence

import (
	"math"
	"time"
)

// ComputeDecay returns 0.5 ^ (age_days / halfLifeDays), the temporal decay
// factor for a message sent at sentAt relative to a fixed reference
// date. Never wall-clock — both referenceDate and halfLifeDays are
// config constants, so regression fixtures stay stable indefinitely.
func ComputeDecay(sentAt, referenceDate time.Time, halfLifeDays float64) float64 {
	if halfLifeDays <= 0 {
		return 1.0
	}
	ageDays := referenceDate.Sub(sentAt).Hours() / 24.0
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Pow(0.5, ageDays/halfLifeDays)
}
