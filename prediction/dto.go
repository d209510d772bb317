package prediction

// PredictLossRequest is the predict-loss request payload; its fields are
// forwarded verbatim to the ML service.
type PredictLossRequest struct {
	Crop     string  `json:"crop" example:"wheat"`
	Area     float64 `json:"area" example:"12.5"`
	ExpYield float64 `json:"expYield" example:"40"`
	Weather  string  `json:"weather" example:"normal"`
	Stage    string  `json:"stage" example:"flowering"`
}

// PredictLossResponse reports the externally computed loss percentage and the
// persistence outcome.
type PredictLossResponse struct {
	Success     bool    `json:"success" example:"true"`
	LossPercent float64 `json:"lossPercent" example:"17.42"`
	Message     string  `json:"message" example:"Prediction generated by the ML engine and saved to history."`
}

// HistoryResponse carries recent prediction records.
type HistoryResponse struct {
	Success     bool         `json:"success" example:"true"`
	Predictions []Prediction `json:"predictions"`
}
