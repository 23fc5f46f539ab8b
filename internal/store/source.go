package store

import (
	"context"
	"fmt"

	"github.com/rawblock/claims-engine/pkg/models"
)

// The engine reads its per-user bundles from four tables owned by the
// upstream ingestion/aggregation collaborators (users, group_memberships,
// user_features, message_samples). It never writes to them — the read
// queries below are the whole contract.

// ListUserIDs returns every user id in the store, ordered by id so a run
// presents users in a stable order across re-runs.
func (w *Writer) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := w.pool.Query(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, unavailable("list users", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, unavailable("scan user id", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LoadBundle assembles the complete per-user input bundle: profile fields,
// feature snapshot, memberships, and the sampled messages in sent_at order.
// Missing feature rows are treated as all-zero, per the FeatureSnapshot
// invariant — absence of aggregation output is not a signal.
func (w *Writer) LoadBundle(ctx context.Context, userID string) (models.UserBundle, error) {
	var bundle models.UserBundle

	err := w.pool.QueryRow(ctx,
		`SELECT id, COALESCE(display_name, ''), COALESCE(bio, ''), COALESCE(handle, ''), COALESCE(external_id, '')
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&bundle.User.ID, &bundle.User.DisplayName, &bundle.User.Bio, &bundle.User.Handle, &bundle.User.ExternalID)
	if err != nil {
		return bundle, unavailable(fmt.Sprintf("load user %s", userID), err)
	}

	err = w.pool.QueryRow(ctx,
		`SELECT total_msg_count, total_reply_count, total_mention_count, avg_msg_len, bd_group_msg_share, groups_active_count
		 FROM user_features WHERE user_id = $1`,
		userID,
	).Scan(
		&bundle.Features.TotalMsgCount, &bundle.Features.TotalReplyCount,
		&bundle.Features.TotalMentionCount, &bundle.Features.AvgMsgLen,
		&bundle.Features.BDGroupMsgShare, &bundle.Features.GroupsActiveCount,
	)
	if err != nil {
		// no feature row yet: every count reads as zero
		bundle.Features = models.FeatureSnapshot{}
	}

	memberRows, err := w.pool.Query(ctx,
		`SELECT group_id, COALESCE(group_kind, 'unknown'), first_seen, last_seen, msg_count, is_current_member
		 FROM group_memberships WHERE user_id = $1 ORDER BY group_id`,
		userID,
	)
	if err != nil {
		return bundle, unavailable(fmt.Sprintf("load memberships for %s", userID), err)
	}
	defer memberRows.Close()
	for memberRows.Next() {
		var m models.Membership
		var kind string
		if err := memberRows.Scan(&m.GroupID, &kind, &m.FirstSeen, &m.LastSeen, &m.MsgCount, &m.IsCurrentMember); err != nil {
			return bundle, unavailable("scan membership", err)
		}
		m.GroupKind = models.GroupKind(kind)
		bundle.Memberships = append(bundle.Memberships, m)
	}
	if err := memberRows.Err(); err != nil {
		return bundle, unavailable("iterate memberships", err)
	}

	msgRows, err := w.pool.Query(ctx,
		`SELECT external_id, sent_at, COALESCE(text, '')
		 FROM message_samples WHERE user_id = $1 ORDER BY sent_at, external_id`,
		userID,
	)
	if err != nil {
		return bundle, unavailable(fmt.Sprintf("load messages for %s", userID), err)
	}
	defer msgRows.Close()
	for msgRows.Next() {
		var msg models.MessageSample
		if err := msgRows.Scan(&msg.ExternalID, &msg.SentAt, &msg.Text); err != nil {
			return bundle, unavailable("scan message sample", err)
		}
		bundle.Messages = append(bundle.Messages, msg)
	}
	if err := msgRows.Err(); err != nil {
		return bundle, unavailable("iterate message samples", err)
	}

	return bundle, nil
}
