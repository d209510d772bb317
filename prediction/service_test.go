package prediction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexcoders/smart-agriculture-backend/apperror"
	"github.com/apexcoders/smart-agriculture-backend/mlclient"
)

// fakePredictor returns a canned loss percentage or error.
type fakePredictor struct {
	loss   float64
	err    error
	called bool
	gotReq *mlclient.LossRequest
}

func (f *fakePredictor) PredictLoss(ctx context.Context, req *mlclient.LossRequest) (float64, error) {
	f.called = true
	f.gotReq = req
	return f.loss, f.err
}

// memStore is an in-memory append-only Store.
type memStore struct {
	records   []Prediction
	appendErr error
	nextID    int64
}

func (m *memStore) Append(ctx context.Context, p *Prediction) (int64, error) {
	if m.appendErr != nil {
		return 0, m.appendErr
	}
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	m.records = append(m.records, *p)
	return p.ID, nil
}

func (m *memStore) Recent(ctx context.Context, limit int) ([]Prediction, error) {
	if limit > len(m.records) {
		limit = len(m.records)
	}
	// newest first
	out := make([]Prediction, 0, limit)
	for i := len(m.records) - 1; i >= len(m.records)-limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

func TestPredictAndSavePersistsUpstreamValue(t *testing.T) {
	ml := &fakePredictor{loss: 17.42}
	store := &memStore{}
	s := NewService(ml, store)

	loss, err := s.PredictAndSave(context.Background(), PredictLossRequest{
		Crop: "wheat", Area: 12.5, ExpYield: 40, Weather: "dry", Stage: "flowering",
	})
	require.NoError(t, err)
	assert.Equal(t, 17.42, loss)

	// Exactly one record, carrying the externally computed value.
	require.Len(t, store.records, 1)
	saved := store.records[0]
	assert.Equal(t, 17.42, saved.PredictedLossPercent)
	assert.Equal(t, "wheat", saved.Crop)
	assert.Equal(t, 12.5, saved.Area)
	assert.Equal(t, 40.0, saved.ExpYield)
	assert.Equal(t, "dry", saved.Weather)
	assert.Equal(t, "flowering", saved.Stage)
}

func TestPredictAndSaveForwardsFieldsVerbatim(t *testing.T) {
	ml := &fakePredictor{loss: 3.0}
	s := NewService(ml, &memStore{})

	_, err := s.PredictAndSave(context.Background(), PredictLossRequest{
		Crop: "rice", Area: 2, ExpYield: 18, Weather: "flood", Stage: "sowing",
	})
	require.NoError(t, err)

	require.NotNil(t, ml.gotReq)
	assert.Equal(t, &mlclient.LossRequest{
		Crop: "rice", Area: 2, ExpYield: 18, Weather: "flood", Stage: "sowing",
	}, ml.gotReq)
}

func TestPredictAndSaveUpstreamFailure(t *testing.T) {
	ml := &fakePredictor{err: apperror.NewExternalServiceError("ML service is unreachable", errors.New("connection refused"))}
	store := &memStore{}
	s := NewService(ml, store)

	_, err := s.PredictAndSave(context.Background(), PredictLossRequest{Crop: "wheat"})
	require.Error(t, err)
	assert.True(t, apperror.IsExternalServiceError(err))
	assert.Empty(t, store.records, "nothing is persisted when the upstream call fails")
}

func TestPredictAndSaveStoreFailure(t *testing.T) {
	ml := &fakePredictor{loss: 9.1}
	store := &memStore{appendErr: apperror.NewDatabaseError("failed to save prediction", errors.New("write failed"))}
	s := NewService(ml, store)

	// The upstream already computed a valid answer, but the save error
	// surfaces; there is no compensating action.
	_, err := s.PredictAndSave(context.Background(), PredictLossRequest{Crop: "wheat"})
	require.Error(t, err)

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.DatabaseError, appErr.Type)
}

func TestHistoryNewestFirst(t *testing.T) {
	ml := &fakePredictor{loss: 1.0}
	store := &memStore{}
	s := NewService(ml, store)

	for _, crop := range []string{"wheat", "rice", "maize"} {
		_, err := s.PredictAndSave(context.Background(), PredictLossRequest{Crop: crop})
		require.NoError(t, err)
	}

	history, err := s.History(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "maize", history[0].Crop)
	assert.Equal(t, "rice", history[1].Crop)
}
