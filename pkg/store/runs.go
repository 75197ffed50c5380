package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/velofit/studio-optimizer/pkg/core/optimizer"
)

// ArchiveRun persists an optimization result and its replacements, returning
// the run ID.
func (s *Store) ArchiveRun(ctx context.Context, result *optimizer.Result) (uuid.UUID, error) {
	runID := uuid.New()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO optimization_run (id, strategy, seed, underperforming, replacement_count)
		VALUES ($1, $2, $3, $4, $5)
	`, runID, string(result.Strategy), result.Seed, result.Underperforming, len(result.Replacements))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert optimization run: %w", err)
	}

	for _, rep := range result.Replacements {
		_, err := tx.Exec(ctx, `
			INSERT INTO replacement (
				run_id, day_of_week, start_time, location,
				original_class, original_trainer, new_class, new_trainer,
				projected_check_ins, projected_fill_rate, confidence, score, reason
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		`,
			runID, rep.Original.Day, rep.Original.Time, rep.Original.Location,
			rep.Original.Class, rep.Original.Trainer, rep.Class, rep.Trainer,
			rep.ProjectedCheckIns, rep.ProjectedFillRate, string(rep.Confidence), rep.Score, rep.Reason,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert replacement: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit optimization run: %w", err)
	}

	return runID, nil
}
