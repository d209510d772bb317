package prediction

import (
	"context"
	"log"

	"github.com/apexcoders/smart-agriculture-backend/mlclient"
)

// LossPredictor is the slice of the ML client the prediction service needs.
type LossPredictor interface {
	PredictLoss(ctx context.Context, req *mlclient.LossRequest) (float64, error)
}

// Service orchestrates the upstream prediction call and the history write.
type Service struct {
	ml    LossPredictor
	store Store
}

// NewService creates a prediction Service with its dependencies injected.
func NewService(ml LossPredictor, store Store) *Service {
	return &Service{ml: ml, store: store}
}

// PredictAndSave forwards the request to the ML service and, on success,
// appends a record carrying the externally computed loss percentage.
// There is no transactional link between the two steps: if the write fails
// after a successful upstream call, the error surfaces and the computed
// result is lost to the caller.
func (s *Service) PredictAndSave(ctx context.Context, req PredictLossRequest) (float64, error) {
	loss, err := s.ml.PredictLoss(ctx, &mlclient.LossRequest{
		Crop:     req.Crop,
		Area:     req.Area,
		ExpYield: req.ExpYield,
		Weather:  req.Weather,
		Stage:    req.Stage,
	})
	if err != nil {
		log.Printf("Loss prediction failed for crop %q: %v", req.Crop, err)
		return 0, err
	}

	record := &Prediction{
		Crop:                 req.Crop,
		Area:                 req.Area,
		ExpYield:             req.ExpYield,
		Weather:              req.Weather,
		Stage:                req.Stage,
		PredictedLossPercent: loss,
	}
	if _, err := s.store.Append(ctx, record); err != nil {
		log.Printf("Failed to save prediction for crop %q: %v", req.Crop, err)
		return 0, err
	}
	return loss, nil
}

// History returns up to limit recent prediction records.
func (s *Service) History(ctx context.Context, limit int) ([]Prediction, error) {
	return s.store.Recent(ctx, limit)
}
