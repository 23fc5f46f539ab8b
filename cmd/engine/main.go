package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/rawblock/claims-engine/internal/adminapi"
	"github.com/rawblock/claims-engine/internal/regression"
	"github.com/rawblock/claims-engine/internal/scorer"
	"github.com/rawblock/claims-engine/internal/shadow"
	"github.com/rawblock/claims-engine/internal/store"
	"github.com/rawblock/claims-engine/internal/taxonomy"
	"github.com/rawblock/claims-engine/pkg/models"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s run | regress <fixture.json>", os.Args[0])
	}

	switch os.Args[1] {
	case "run":
		runEngine()
	case "regress":
		if len(os.Args) < 3 {
			log.Fatalf("usage: %s regress <fixture.json>", os.Args[0])
		}
		runRegression(os.Args[2])
	default:
		log.Fatalf("unknown subcommand %q (want run or regress)", os.Args[1])
	}
}

func runEngine() {
	log.Println("Starting RawBlock Claim Inference Engine...")

	configPath := taxonomy.ResolvePath()
	cfg, err := taxonomy.Load(configPath)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	log.Printf("Loaded inference config %s from %s", cfg.Version, configPath)

	dbUrl := requireEnv("DATABASE_URL")

	ctx := context.Background()
	writer, err := store.Connect(ctx, dbUrl)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer writer.Close()
	if err := writer.InitSchema(ctx); err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	// Optional shadow mode: score every bundle a second time under a
	// candidate config. Shadow output never reaches the claims table.
	var shadowRunner *shadow.Runner
	if candidatePath := os.Getenv("SHADOW_CONFIG"); candidatePath != "" {
		candidate, err := taxonomy.Load(candidatePath)
		if err != nil {
			log.Fatalf("FATAL: shadow config: %v", err)
		}
		if candidate.Version == cfg.Version {
			log.Fatalf("FATAL: shadow config version %s equals the active version", cfg.Version)
		}
		shadowRunner = shadow.NewRunner(writer, cfg, candidate)
		log.Printf("Shadow mode enabled: candidate config %s", candidate.Version)
	}

	hub := adminapi.NewHub()
	go hub.Run()
	status := adminapi.NewRunStatus()

	// Optional admin API for tailing the run; disabled unless a port is set.
	if port := os.Getenv("ADMIN_API_PORT"); port != "" {
		router := adminapi.SetupRouter(writer, cfg, hub, status)
		go func() {
			log.Printf("Admin API listening on :%s", port)
			if err := router.Run(":" + port); err != nil {
				log.Printf("Warning: admin API stopped: %v", err)
			}
		}()
	}

	runID := uuid.NewString()
	log.Printf("Run %s starting under model version %s", runID, cfg.Version)
	status.Start()

	userIDs, err := writer.ListUserIDs(ctx)
	if err != nil {
		status.Finish(err)
		log.Fatalf("FATAL: %v", err)
	}

	failed := 0
	evaluator := shadow.NewEvaluator()
	for _, userID := range userIDs {
		claims, err := processUser(ctx, writer, cfg, shadowRunner, evaluator, hub, userID)
		if err != nil {
			failed++
			log.Printf("user %s failed: %v", userID, err)
			continue
		}
		status.RecordUser(claims)
	}

	if shadowRunner != nil {
		log.Printf("Run %s shadow summary: jaccard=%.4f divergence_entropy=%.4f",
			runID, evaluator.Jaccard(), evaluator.DivergenceEntropy())
	}

	status.Finish(nil)
	log.Printf("Run %s complete: %d users processed, %d failed", runID, len(userIDs)-failed, failed)
}

// processUser is the per-user transaction boundary: a scoring panic or a
// write failure here is contained to this user and never aborts the run.
func processUser(ctx context.Context, writer *store.Writer, cfg *taxonomy.Config, shadowRunner *shadow.Runner, evaluator *shadow.Evaluator, hub *adminapi.Hub, userID string) (claims int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scoring panic: %v", r)
			// best effort: leave a no_data trace so the user's absence from
			// this version's claims is explained
			fallback := models.ScoringResult{
				UserID: userID,
				Abstentions: []models.Abstention{
					{SubjectUserID: userID, Predicate: models.PredicateHasRole, ReasonCode: models.ReasonNoData, Details: fmt.Sprintf("scoring failure: %v", r), ModelVersion: cfg.Version},
					{SubjectUserID: userID, Predicate: models.PredicateHasIntent, ReasonCode: models.ReasonNoData, Details: fmt.Sprintf("scoring failure: %v", r), ModelVersion: cfg.Version},
				},
			}
			if writeErr := writer.WriteUser(ctx, cfg, fallback); writeErr != nil {
				log.Printf("user %s: could not record scoring-failure abstentions: %v", userID, writeErr)
			}
		}
	}()

	bundle, err := writer.LoadBundle(ctx, userID)
	if err != nil {
		return 0, err
	}

	result := scorer.Score(bundle, cfg)
	if err := writer.WriteUser(ctx, cfg, result); err != nil {
		var violation *store.WriteConstraintViolation
		if errors.As(err, &violation) {
			// a scorer bug, not a storage problem — skip this user, keep going
			return 0, violation
		}
		return 0, err
	}

	for _, c := range result.Claims {
		hub.PublishClaim(c)
	}
	for _, a := range result.Abstentions {
		hub.PublishAbstention(a)
	}

	if shadowRunner != nil {
		diff, err := shadowRunner.Run(ctx, bundle)
		if err != nil {
			log.Printf("user %s: shadow comparison failed: %v", userID, err)
		} else {
			evaluator.Observe(diff)
		}
	}

	return len(result.Claims), nil
}

func runRegression(fixturePath string) {
	cfg, err := taxonomy.Load(taxonomy.ResolvePath())
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	fx, err := regression.Load(fixturePath)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	report := regression.Run(fx, cfg)
	for _, c := range report.Cases {
		if c.Passed {
			log.Printf("PASS %s", c.Name)
			continue
		}
		for _, m := range c.Mismatches {
			log.Printf("FAIL %s: %s", c.Name, m)
		}
	}
	if !report.Passed {
		log.Printf("regression failed under config %s", cfg.Version)
		os.Exit(1)
	}
	log.Printf("all %d regression cases passed under config %s", len(report.Cases), cfg.Version)
}

// requireEnv reads a required environment variable and exits if it is not set.
// This prevents the binary from starting with missing critical configuration.
func requireEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("FATAL: Required environment variable %s is not set.", key)
	}
	return val
}
