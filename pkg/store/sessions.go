package store

import (
	"context"
	"fmt"

	"github.com/velofit/studio-optimizer/pkg/core/model"
)

// InsertSessions bulk-inserts history records in a single transaction.
func (s *Store) InsertSessions(ctx context.Context, records []model.SessionRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		_, err := tx.Exec(ctx, `
			INSERT INTO session_record (
				session_date, day_of_week, start_time, class_name,
				trainer, trainer_id, location, capacity, checked_in,
				booked, late_cancelled, waitlisted, revenue,
				complimentary, memberships, packages, intro_offers, single_classes
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		`,
			r.Date, r.Day, r.Time, r.Class,
			r.Trainer, string(r.TrainerID), r.Location, r.Capacity, r.CheckedIn,
			r.Booked, r.LateCancelled, r.Waitlisted, r.Revenue,
			r.Complimentary, r.Memberships, r.Packages, r.IntroOffers, r.SingleClasses,
		)
		if err != nil {
			return fmt.Errorf("failed to insert session record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit session records: %w", err)
	}
	return nil
}

// ListSessions retrieves all history records.
func (s *Store) ListSessions(ctx context.Context) ([]model.SessionRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT session_date, day_of_week, start_time, class_name,
		       trainer, trainer_id, location, capacity, checked_in,
		       booked, late_cancelled, waitlisted, revenue,
		       complimentary, memberships, packages, intro_offers, single_classes
		FROM session_record
		ORDER BY session_date, start_time
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query session records: %w", err)
	}
	defer rows.Close()

	var records []model.SessionRecord
	for rows.Next() {
		var r model.SessionRecord
		var trainerID string
		if err := rows.Scan(
			&r.Date, &r.Day, &r.Time, &r.Class,
			&r.Trainer, &trainerID, &r.Location, &r.Capacity, &r.CheckedIn,
			&r.Booked, &r.LateCancelled, &r.Waitlisted, &r.Revenue,
			&r.Complimentary, &r.Memberships, &r.Packages, &r.IntroOffers, &r.SingleClasses,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session record: %w", err)
		}
		r.TrainerID = model.TrainerID(trainerID)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session records: %w", err)
	}

	return records, nil
}
