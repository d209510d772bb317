package prediction

import (
	"encoding/json"
	"net/http"

	"github.com/apexcoders/smart-agriculture-backend/apperror"
	"github.com/apexcoders/smart-agriculture-backend/auth"
)

// historyLimit caps the number of records returned by the history endpoint.
const historyLimit = 50

// Handlers wraps the prediction Service to provide HTTP handlers.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandlePredictLoss godoc
// @Summary Crop-loss prediction
// @Description Forwards inputs to the ML engine and saves the predicted loss.
// @Tags Prediction
// @Accept json
// @Produce json
// @Param predictBody body prediction.PredictLossRequest true "Prediction inputs"
// @Success 200 {object} prediction.PredictLossResponse "Predicted loss percentage"
// @Failure 500 {object} apperror.ErrorResponse "ML service or save failure"
// @Router /api/predict-loss [post]
func (h *Handlers) HandlePredictLoss() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PredictLossRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if req.Crop == "" || req.Weather == "" || req.Stage == "" {
			auth.WriteError(w, r, apperror.NewBadRequestError("crop, weather, and stage are required", nil))
			return
		}

		loss, err := h.service.PredictAndSave(r.Context(), req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, PredictLossResponse{
			Success:     true,
			LossPercent: loss,
			Message:     "Prediction generated by the ML engine and saved to history.",
		})
	}
}

// HandleHistory godoc
// @Summary Prediction history
// @Description Returns recent crop-loss predictions, newest first.
// @Tags Prediction
// @Produce json
// @Success 200 {object} prediction.HistoryResponse "Recent predictions"
// @Failure 401 {object} apperror.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} apperror.ErrorResponse "Internal server error"
// @Router /api/predictions [get]
// @Security BearerAuth
func (h *Handlers) HandleHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.GetUserIDFromContext(r.Context()); !ok {
			auth.WriteError(w, r, apperror.NewAuthError("authentication required", nil))
			return
		}

		predictions, err := h.service.History(r.Context(), historyLimit)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		if predictions == nil {
			predictions = []Prediction{}
		}

		auth.WriteJSON(w, http.StatusOK, HistoryResponse{
			Success:     true,
			Predictions: predictions,
		})
	}
}
