// Package regression is the declarative test harness: it feeds synthetic
// user bundles through extraction and scoring with no database involved,
// and asserts expected/forbidden claims. It is the primary CI gate
// for any pattern/weight/threshold change.
package regression

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rawblock/claims-engine/pkg/models"
)

// Assertion is one expected or forbidden claim shape. Value and Status are
// optional: an empty Value matches any object_value for the predicate; an
// empty Status matches any status.
type Assertion struct {
	Predicate string `json:"predicate"`
	Value     string `json:"value,omitempty"`
	Status    string `json:"status,omitempty"`
}

// MessageFixture is one synthetic sampled message.
type MessageFixture struct {
	ExternalID string `json:"externalId"`
	Text       string `json:"text"`
	SentAt     string `json:"sentAt"` // RFC3339; empty defaults to the config's reference date
}

// FeatureFixture carries the small number of feature counts a case needs.
type FeatureFixture struct {
	TotalMsgCount     int     `json:"totalMsgCount"`
	TotalReplyCount   int     `json:"totalReplyCount"`
	TotalMentionCount int     `json:"totalMentionCount"`
	AvgMsgLen         float64 `json:"avgMsgLen"`
	BDGroupMsgShare   float64 `json:"bdGroupMsgShare"`
	GroupsActiveCount int     `json:"groupsActiveCount"`
}

// Case is one declarative regression fixture.
type Case struct {
	Name              string           `json:"name"`
	DisplayName       string           `json:"displayName"`
	Bio               string           `json:"bio"`
	Messages          []MessageFixture `json:"messages"`
	MemberGroupKinds  []string         `json:"memberGroupKinds"`
	TotalMsgCount     int              `json:"totalMsgCount"`
	Features          FeatureFixture   `json:"features"`
	Expected          []Assertion      `json:"expected"`
	Forbidden         []Assertion      `json:"forbidden"`
	ExpectedGated     bool             `json:"expectedGated"`
}

// Fixture is the top-level declarative test file the harness loads.
type Fixture struct {
	Cases []Case `json:"cases"`
}

// Load reads and parses a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}
	var fx Fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	return &fx, nil
}

// Bundle converts a Case into the models.UserBundle the scorer consumes.
// SentAt defaults to referenceDate when a message fixture omits it, so
// fixtures can describe "today" without hardcoding a timestamp.
func (c Case) Bundle(referenceDate time.Time) models.UserBundle {
	msgCount := c.TotalMsgCount
	if msgCount == 0 {
		msgCount = c.Features.TotalMsgCount
	}

	messages := make([]models.MessageSample, 0, len(c.Messages))
	for i, m := range c.Messages {
		sentAt := referenceDate
		if m.SentAt != "" {
			if t, err := time.Parse(time.RFC3339, m.SentAt); err == nil {
				sentAt = t
			}
		}
		id := m.ExternalID
		if id == "" {
			id = fmt.Sprintf("%s_msg_%d", c.Name, i)
		}
		messages = append(messages, models.MessageSample{ExternalID: id, SentAt: sentAt, Text: m.Text})
	}

	memberships := make([]models.Membership, 0, len(c.MemberGroupKinds))
	for i, kind := range c.MemberGroupKinds {
		memberships = append(memberships, models.Membership{
			GroupID:         fmt.Sprintf("%s_group_%d", c.Name, i),
			GroupKind:       models.GroupKind(kind),
			IsCurrentMember: true,
		})
	}

	return models.UserBundle{
		User: models.User{
			ID:          c.Name,
			DisplayName: c.DisplayName,
			Bio:         c.Bio,
		},
		Features: models.FeatureSnapshot{
			TotalMsgCount:     msgCount,
			TotalReplyCount:   c.Features.TotalReplyCount,
			TotalMentionCount: c.Features.TotalMentionCount,
			AvgMsgLen:         c.Features.AvgMsgLen,
			BDGroupMsgShare:   c.Features.BDGroupMsgShare,
			GroupsActiveCount: c.Features.GroupsActiveCount,
		},
		Memberships: memberships,
		Messages:    messages,
	}
}
