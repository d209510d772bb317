package prediction

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apexcoders/smart-agriculture-backend/apperror"
)

// Store persists prediction records. Append is fire-and-forget from the
// caller's perspective: write failures propagate as errors, nothing is
// swallowed or retried.
type Store interface {
	// Append inserts a new record and returns its generated ID.
	Append(ctx context.Context, p *Prediction) (int64, error)
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Prediction, error)
}

// PgxStore is the PostgreSQL-backed Store implementation.
type PgxStore struct {
	db *pgxpool.Pool
}

// NewPgxStore creates a new PgxStore on top of the given pool.
func NewPgxStore(db *pgxpool.Pool) *PgxStore {
	return &PgxStore{db: db}
}

// Append inserts a prediction record; created_at defaults at write time.
func (s *PgxStore) Append(ctx context.Context, p *Prediction) (int64, error) {
	query := `
		INSERT INTO predictions (crop, area, exp_yield, weather, stage, predicted_loss_percent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := s.db.QueryRow(ctx, query,
		p.Crop, p.Area, p.ExpYield, p.Weather, p.Stage, p.PredictedLossPercent,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to save prediction", err)
	}
	return p.ID, nil
}

// Recent returns the latest prediction records, newest first.
func (s *PgxStore) Recent(ctx context.Context, limit int) ([]Prediction, error) {
	query := `
		SELECT id, crop, area, exp_yield, weather, stage, predicted_loss_percent, created_at
		FROM predictions
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to read prediction history", err)
	}
	defer rows.Close()

	var predictions []Prediction
	for rows.Next() {
		var p Prediction
		if err := rows.Scan(
			&p.ID, &p.Crop, &p.Area, &p.ExpYield, &p.Weather, &p.Stage,
			&p.PredictedLossPercent, &p.CreatedAt,
		); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan prediction row", err)
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read prediction history", err)
	}
	return predictions, nil
}
