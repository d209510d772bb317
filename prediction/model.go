// Package prediction persists crop-loss predictions and exposes the
// predict-loss and history endpoints.
// This file defines the Prediction record as stored in the database.
package prediction

import "time"

// Prediction is an append-only historical record of a crop-loss estimate.
// The loss percentage is computed externally by the ML service; records are
// created once per successful prediction call and never mutated.
type Prediction struct {
	ID                   int64     `json:"id"`
	Crop                 string    `json:"crop"`
	Area                 float64   `json:"area"`
	ExpYield             float64   `json:"expYield"`
	Weather              string    `json:"weather"`
	Stage                string    `json:"stage"`
	PredictedLossPercent float64   `json:"predictedLossPercent"`
	CreatedAt            time.Time `json:"createdAt"`
}
