package mlclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexcoders/smart-agriculture-backend/apperror"
)

func newTestClient(baseURL string) *Client {
	return New(Config{BaseURL: baseURL, Timeout: 2 * time.Second})
}

func TestRecommendSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/recommend", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "normal", body["weather"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"crop":    "Wheat 🌾",
			"message": "Try rice",
		})
	}))
	defer srv.Close()

	rec, err := newTestClient(srv.URL).Recommend(context.Background(), "normal")
	require.NoError(t, err)
	assert.True(t, rec.Success)
	assert.Equal(t, "Try rice", rec.Message)
}

func TestRecommendServiceRefusal(t *testing.T) {
	// A 200 with success:false is a result, not a transport error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "model not loaded"})
	}))
	defer srv.Close()

	rec, err := newTestClient(srv.URL).Recommend(context.Background(), "normal")
	require.NoError(t, err)
	assert.False(t, rec.Success)
}

func TestPredictLossSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/predict", r.URL.Path)

		// Input fields must be forwarded verbatim under their wire names.
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "wheat", body["crop"])
		assert.Equal(t, 12.5, body["area"])
		assert.Equal(t, 40.0, body["expYield"])
		assert.Equal(t, "dry", body["weather"])
		assert.Equal(t, "flowering", body["stage"])

		json.NewEncoder(w).Encode(map[string]float64{"predicted_loss_percentage": 17.42})
	}))
	defer srv.Close()

	loss, err := newTestClient(srv.URL).PredictLoss(context.Background(), &LossRequest{
		Crop:     "wheat",
		Area:     12.5,
		ExpYield: 40,
		Weather:  "dry",
		Stage:    "flowering",
	})
	require.NoError(t, err)
	assert.Equal(t, 17.42, loss)
}

func TestPredictLossNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad input"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).PredictLoss(context.Background(), &LossRequest{Crop: "wheat"})
	require.Error(t, err)
	assert.True(t, apperror.IsExternalServiceError(err))
}

func TestPredictLossUnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestClient(srv.URL).PredictLoss(context.Background(), &LossRequest{Crop: "wheat"})
	require.Error(t, err)
	assert.True(t, apperror.IsExternalServiceError(err))
}

func TestRecommendMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Recommend(context.Background(), "normal")
	require.Error(t, err)
	assert.True(t, apperror.IsExternalServiceError(err))
}
