package taxonomy

import "time"

// ReferenceDate parses the configured reference date. Decay is always
// computed against this config constant, never against wall-clock time, so
// regression fixtures stay stable across months.
func (d Decay) ReferenceDate() (time.Time, error) {
	return time.Parse(time.RFC3339, d.ReferenceDateRFC3339)
}

// HalfLifeDaysOrDefault returns the configured half-life, or 30 days when
// the config omits it or sets it to zero or below.
func (d Decay) HalfLifeDaysOrDefault() float64 {
	if d.HalfLifeDays <= 0 {
		return 30.0
	}
	return d.HalfLifeDays
}

// ReferenceDateFallback is used only if a loaded config's reference date
// somehow fails to parse after validation already accepted it. Never a
// substitute for the configured constant.
func (d Decay) ReferenceDateFallback() time.Time {
	return time.Time{}
}
