// Package store is the claim writer: the idempotent, per-user-transactional
// upsert of claims, evidence, and abstentions into the
// claims/claim_evidence/abstention_log tables, plus the read side that
// assembles per-user input bundles.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rawblock/claims-engine/internal/taxonomy"
	"github.com/rawblock/claims-engine/pkg/models"
)

// Writer is the pgxpool-backed implementation of the Claim Writer.
type Writer struct {
	pool *pgxpool.Pool
}

// Connect opens the connection pool and verifies it with a ping.
func Connect(ctx context.Context, connStr string) (*Writer, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping failed: %w", err)
	}
	log.Println("Successfully connected to PostgreSQL for the inference engine")
	return &Writer{pool: pool}, nil
}

// Close releases the connection pool.
func (w *Writer) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}

// InitSchema loads and executes schema.sql.
func (w *Writer) InitSchema(ctx context.Context) error {
	schemaBytes, err := os.ReadFile("internal/store/schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	if _, err := w.pool.Exec(ctx, string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute schema migrations: %w", err)
	}
	log.Println("Claim store schema initialized")
	return nil
}

// WriteUser persists one user's scoring result inside a single
// transaction: delete prior (claims, evidence, abstentions) for this
// (user, version), then insert the fresh rows. A failed
// transaction leaves no partial claim without evidence and no evidence
// pointing at a non-existent claim — the whole write is one commit.
func (w *Writer) WriteUser(ctx context.Context, cfg *taxonomy.Config, result models.ScoringResult) error {
	for _, c := range result.Claims {
		if err := validateClaim(c, cfg); err != nil {
			return err
		}
	}

	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return unavailable("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM claims WHERE subject_user_id = $1 AND model_version = $2`, result.UserID, cfg.Version); err != nil {
		return unavailable("delete prior claims", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM abstention_log WHERE subject_user_id = $1 AND model_version = $2`, result.UserID, cfg.Version); err != nil {
		return unavailable("delete prior abstentions", err)
	}

	for _, c := range result.Claims {
		if err := insertClaim(ctx, tx, cfg.Version, c); err != nil {
			return err
		}
	}
	for _, a := range result.Abstentions {
		if _, err := tx.Exec(ctx,
			`INSERT INTO abstention_log (subject_user_id, predicate, reason_code, details, model_version)
			 VALUES ($1, $2, $3, $4, $5)`,
			a.SubjectUserID, string(a.Predicate), string(a.ReasonCode), a.Details, cfg.Version,
		); err != nil {
			return unavailable("insert abstention", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

func insertClaim(ctx context.Context, tx pgx.Tx, version string, c models.Claim) error {
	var claimID int64
	err := tx.QueryRow(ctx,
		`INSERT INTO claims (subject_user_id, predicate, object_value, status, confidence, model_version, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (subject_user_id, predicate, object_value, model_version)
		 DO UPDATE SET status = EXCLUDED.status, confidence = EXCLUDED.confidence, generated_at = now()
		 RETURNING id`,
		c.SubjectUserID, string(c.Predicate), c.ObjectValue, string(c.Status), c.Confidence, version, c.Notes,
	).Scan(&claimID)
	if err != nil {
		return unavailable("insert claim", err)
	}

	for _, e := range c.Evidence {
		hash := auditHash(c, e, version)
		if _, err := tx.Exec(ctx,
			`INSERT INTO claim_evidence (claim_id, evidence_type, evidence_ref, weight, audit_hash)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (claim_id, evidence_type, evidence_ref) DO UPDATE SET weight = EXCLUDED.weight`,
			claimID, string(e.EvidenceType), e.EvidenceRef, e.Weight, hash,
		); err != nil {
			return unavailable("insert evidence", err)
		}
	}
	return nil
}

// ClaimsForUser returns every currently-live claim for a user under the
// given model version, newest first.
func (w *Writer) ClaimsForUser(ctx context.Context, userID, version string) ([]models.Claim, error) {
	rows, err := w.pool.Query(ctx,
		`SELECT predicate, object_value, status, confidence, model_version, notes
		 FROM claims WHERE subject_user_id = $1 AND model_version = $2
		 ORDER BY generated_at DESC`,
		userID, version,
	)
	if err != nil {
		return nil, unavailable("query claims", err)
	}
	defer rows.Close()

	var claims []models.Claim
	for rows.Next() {
		var predicate, objectValue, status, modelVersion, notes string
		var confidence float64
		if err := rows.Scan(&predicate, &objectValue, &status, &confidence, &modelVersion, &notes); err != nil {
			return nil, unavailable("scan claim", err)
		}
		claims = append(claims, models.Claim{
			SubjectUserID: userID,
			Predicate:     models.Predicate(predicate),
			ObjectValue:   objectValue,
			Confidence:    confidence,
			Status:        models.ClaimStatus(status),
			ModelVersion:  modelVersion,
			Notes:         notes,
		})
	}
	if claims == nil {
		claims = []models.Claim{}
	}
	return claims, nil
}

// AbstentionsForUser returns every logged abstention for a user under the
// given model version, newest first.
func (w *Writer) AbstentionsForUser(ctx context.Context, userID, version string) ([]models.Abstention, error) {
	rows, err := w.pool.Query(ctx,
		`SELECT predicate, reason_code, details, model_version
		 FROM abstention_log WHERE subject_user_id = $1 AND model_version = $2
		 ORDER BY generated_at DESC`,
		userID, version,
	)
	if err != nil {
		return nil, unavailable("query abstentions", err)
	}
	defer rows.Close()

	var abstentions []models.Abstention
	for rows.Next() {
		var predicate, reasonCode, details, modelVersion string
		if err := rows.Scan(&predicate, &reasonCode, &details, &modelVersion); err != nil {
			return nil, unavailable("scan abstention", err)
		}
		abstentions = append(abstentions, models.Abstention{
			SubjectUserID: userID,
			Predicate:     models.Predicate(predicate),
			ReasonCode:    models.ReasonCode(reasonCode),
			Details:       details,
			ModelVersion:  modelVersion,
		})
	}
	if abstentions == nil {
		abstentions = []models.Abstention{}
	}
	return abstentions, nil
}

// auditHash computes an immutable SHA-256 digest over the claim identity
// and the evidence row, stored alongside evidence_ref so a row edited
// outside the engine no longer matches its hash.
func auditHash(c models.Claim, e models.EvidenceRow, version string) string {
	payload := fmt.Sprintf("%s|%s|%s|%s|%f|%s", c.SubjectUserID, c.Predicate, c.ObjectValue, e.EvidenceRef, e.Weight, version)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
