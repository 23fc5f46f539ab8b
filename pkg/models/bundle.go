package models

import "time"

// User identifies the subject of inference. The engine never mutates these
// fields; they are read-only inputs sourced from upstream ingestion.
type User struct {
	ID          string
	DisplayName string
	Bio         string
	Handle      string
	ExternalID  string
}

// Membership records one user's relationship to one group. Membership
// evidence is never sufficient on its own to emit a claim — see
// internal/evidence's membership extractor.
type Membership struct {
	GroupID         string
	GroupKind       GroupKind
	FirstSeen       time.Time
	LastSeen        time.Time
	MsgCount        int
	IsCurrentMember bool
}

// FeatureSnapshot holds the per-user daily-aggregated behavioural features.
// Undefined/missing values are treated as their zero value, never as a
// signal of absence.
type FeatureSnapshot struct {
	TotalMsgCount     int
	TotalReplyCount   int
	TotalMentionCount int
	AvgMsgLen         float64
	BDGroupMsgShare   float64 // 0–1
	GroupsActiveCount int
}

// MessageSample is one sampled message in a user's bundle. Text may be
// empty; SentAt must be in the fixed reference timezone used by the decay
// calculation.
type MessageSample struct {
	ExternalID string
	SentAt     time.Time
	Text       string
}

// UserBundle is the complete per-user input to the inference engine: every
// field the scorer is allowed to read. The engine performs no I/O of its
// own beyond what produced this bundle.
type UserBundle struct {
	User        User
	Features    FeatureSnapshot
	Memberships []Membership
	Messages    []MessageSample
}
