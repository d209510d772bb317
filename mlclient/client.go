// Package mlclient provides a typed HTTP client for the external ML
// microservice, which exposes crop recommendation and crop-loss prediction.
// The service's internal logic is out of scope here; only its request and
// response shapes are a contract.
package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apexcoders/smart-agriculture-backend/apperror"
)

// Client calls the ML microservice.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// New creates a new ML service client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// recommendRequest is the payload for the recommendation call.
type recommendRequest struct {
	Weather string `json:"weather"`
}

// Recommendation is the ML service's answer to a recommendation call.
// Success false means the service ran but declined to produce an answer;
// callers handle that case explicitly instead of treating it as a transport
// error.
type Recommendation struct {
	Success bool   `json:"success"`
	Crop    string `json:"crop"`
	Message string `json:"message"`
}

// LossRequest carries the crop-loss prediction inputs, forwarded verbatim
// from the API request.
type LossRequest struct {
	Crop     string  `json:"crop"`
	Area     float64 `json:"area"`
	ExpYield float64 `json:"expYield"`
	Weather  string  `json:"weather"`
	Stage    string  `json:"stage"`
}

// lossResponse is the ML service's prediction payload.
type lossResponse struct {
	PredictedLossPercentage float64 `json:"predicted_loss_percentage"`
}

// Recommend asks the ML service for a crop recommendation for the given
// weather descriptor. Transport failures and non-2xx statuses return an
// ExternalService error; a service-level refusal comes back as a
// Recommendation with Success false.
func (c *Client) Recommend(ctx context.Context, weather string) (*Recommendation, error) {
	var rec Recommendation
	if err := c.postJSON(ctx, "/recommend", recommendRequest{Weather: weather}, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// PredictLoss forwards the prediction inputs to the ML service and returns
// the predicted loss percentage. There is no retry, backoff, or circuit
// breaking; failures surface directly to the caller.
func (c *Client) PredictLoss(ctx context.Context, req *LossRequest) (float64, error) {
	var resp lossResponse
	if err := c.postJSON(ctx, "/predict", req, &resp); err != nil {
		return 0, err
	}
	return resp.PredictedLossPercentage, nil
}

// postJSON sends a JSON POST to the ML service and decodes the response into out.
func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return apperror.NewInternalError("failed to marshal ML request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return apperror.NewInternalError("failed to create ML request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apperror.NewExternalServiceError("ML service is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Body is drained for the error message only; it is not part of the contract.
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperror.NewExternalServiceError(
			fmt.Sprintf("ML service responded with status %d", resp.StatusCode),
			fmt.Errorf("%s %s: %s", http.MethodPost, path, string(b)),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.NewExternalServiceError("failed to decode ML response", err)
	}
	return nil
}
