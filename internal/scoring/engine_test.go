package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/fraudguard/internal/feature"
	"github.com/mbd888/fraudguard/internal/model"
	"github.com/mbd888/fraudguard/internal/profile"
	"github.com/mbd888/fraudguard/internal/record"
)

// trainedBundle fits a small but real model: low daytime amounts labeled
// safe, high nighttime amounts labeled fraud.
func trainedBundle(t *testing.T) *model.Bundle {
	t.Helper()

	locations := []string{"New York", "London", "Tokyo", "Unknown Location"}
	devices := []string{"mobile", "desktop", "tablet"}
	enc := feature.NewEncoder(
		feature.FitVocabulary(locations),
		feature.FitVocabulary(devices),
	)

	var rows []feature.Vector
	var labels []float64
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 40; i++ {
		// Safe: modest amount, business hours, known location
		in := feature.Input{
			Amount:    20 + float64(i%30),
			Location:  locations[i%3],
			Device:    devices[i%2],
			Timestamp: base.Add(time.Duration(9+i%8) * time.Hour).AddDate(0, 0, i%20),
		}
		v, err := enc.Encode(in)
		require.NoError(t, err)
		rows = append(rows, v)
		labels = append(labels, 0)
	}
	for i := 0; i < 40; i++ {
		// Fraud: large amount, dead of night
		in := feature.Input{
			Amount:    1200 + float64(i*37),
			Location:  "Unknown Location",
			Device:    "desktop",
			Timestamp: base.Add(time.Duration(1+i%4) * time.Hour).AddDate(0, 0, i%20),
		}
		v, err := enc.Encode(in)
		require.NoError(t, err)
		rows = append(rows, v)
		labels = append(labels, 1)
	}

	scaler, err := feature.FitScaler(rows)
	require.NoError(t, err)

	scaled := make([]feature.Vector, len(rows))
	for i, r := range rows {
		scaled[i], err = scaler.Transform(r)
		require.NoError(t, err)
	}

	clf, err := model.TrainLogistic(scaled, labels, model.DefaultTrainConfig())
	require.NoError(t, err)

	return &model.Bundle{
		FormatVersion:  model.FormatVersion,
		CreatedAt:      time.Now().UTC(),
		FeatureColumns: feature.Columns,
		Encoder:        enc,
		Scaler:         scaler,
		Classifier:     clf,
		Threshold:      model.DefaultThreshold,
	}
}

func testEngine(t *testing.T) (*Engine, *record.MemoryStore, *profile.MemoryStore) {
	t.Helper()
	profiles := profile.NewMemoryStore()
	records := record.NewMemoryStore()
	e := NewEngine(trainedBundle(t), profiles, records, slog.Default())
	return e, records, profiles
}

func TestScore_OrdersRiskSensibly(t *testing.T) {
	e, _, _ := testEngine(t)
	ctx := context.Background()

	safe, err := e.Score(ctx, Transaction{
		UserID:    "user_1",
		Amount:    50,
		Location:  "New York",
		Device:    "mobile",
		Timestamp: time.Date(2026, 2, 3, 14, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	risky, err := e.Score(ctx, Transaction{
		UserID:    "user_2",
		Amount:    2500,
		Location:  "Unknown Location",
		Device:    "desktop",
		Timestamp: time.Date(2026, 2, 3, 3, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Greater(t, risky.Probability, safe.Probability,
		"large nighttime transaction should score higher than small daytime one")
	assert.GreaterOrEqual(t, risky.Probability, 0.0)
	assert.LessOrEqual(t, risky.Probability, 1.0)
	assert.InDelta(t, risky.Probability*100, risky.RiskScore, 1e-9)
}

func TestScore_ThresholdInclusive(t *testing.T) {
	e, _, _ := testEngine(t)

	// Force the threshold to the exact probability a fixed input produces.
	a, err := e.Score(context.Background(), Transaction{
		UserID:    "user_b",
		Amount:    300,
		Location:  "London",
		Device:    "tablet",
		Timestamp: time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	bundle := e.Bundle()
	bundle.Threshold = a.Probability
	e.SetBundle(bundle)

	// Fresh user so the profile state matches the first call.
	a2, err := e.Score(context.Background(), Transaction{
		UserID:    "user_c",
		Amount:    300,
		Location:  "London",
		Device:    "tablet",
		Timestamp: time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, VerdictFraud, a2.Verdict, "p == threshold must flag as fraud")
}

func TestScore_NoModelLoaded(t *testing.T) {
	profiles := profile.NewMemoryStore()
	e := NewEngine(nil, profiles, record.NewMemoryStore(), slog.Default())

	_, err := e.Score(context.Background(), Transaction{
		UserID:    "user_1",
		Amount:    50,
		Timestamp: time.Now(),
	})
	require.ErrorIs(t, err, model.ErrModelUnavailable)

	// The failed score must not have touched the profile.
	prof, getErr := profiles.Get(context.Background(), "user_1")
	require.NoError(t, getErr)
	assert.Equal(t, int64(0), prof.Count)
}

func TestScore_InvalidInput(t *testing.T) {
	e, _, _ := testEngine(t)

	_, err := e.Score(context.Background(), Transaction{UserID: "", Amount: 50})
	require.ErrorIs(t, err, feature.ErrInvalidInput)

	_, err = e.Score(context.Background(), Transaction{UserID: "user_1", Amount: -5})
	require.ErrorIs(t, err, feature.ErrInvalidInput)
}

func TestScore_ProfileExcludesCurrentTransaction(t *testing.T) {
	e, _, profiles := testEngine(t)
	ctx := context.Background()

	// First transaction: cold start, profile must be zero during scoring
	// and hold exactly one observation after.
	_, err := e.Score(ctx, Transaction{
		UserID:    "user_w",
		Amount:    100,
		Location:  "Tokyo",
		Device:    "mobile",
		Timestamp: time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	prof, err := profiles.Get(ctx, "user_w")
	require.NoError(t, err)
	assert.Equal(t, int64(1), prof.Count)
	assert.InDelta(t, 100.0, prof.Mean, 1e-9)
}

func TestScore_PersistsRecord(t *testing.T) {
	e, records, _ := testEngine(t)

	a, err := e.Score(context.Background(), Transaction{
		UserID:    "user_p",
		Amount:    75,
		Location:  "London",
		Device:    "mobile",
		Timestamp: time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// Persistence is fire-and-forget; give the goroutine a moment.
	require.Eventually(t, func() bool {
		recs, err := records.QueryRecent(context.Background(), 10)
		return err == nil && len(recs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	recs, err := records.QueryRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, a.TransactionID, recs[0].ID)
	assert.Equal(t, a.Verdict, recs[0].Verdict)
}

func TestScore_DefaultsTimestampToNow(t *testing.T) {
	e, _, _ := testEngine(t)

	a, err := e.Score(context.Background(), Transaction{
		UserID:   "user_t",
		Amount:   42,
		Location: "New York",
		Device:   "mobile",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, a.TransactionID)
}

func TestScore_Deterministic(t *testing.T) {
	e, _, _ := testEngine(t)
	ctx := context.Background()

	// Same input, distinct fresh users: identical profile state, so the
	// probability must match exactly.
	var probs []float64
	for i := 0; i < 3; i++ {
		a, err := e.Score(ctx, Transaction{
			UserID:    fmt.Sprintf("user_det_%d", i),
			Amount:    500,
			Location:  "Tokyo",
			Device:    "desktop",
			Timestamp: time.Date(2026, 2, 3, 23, 30, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		probs = append(probs, a.Probability)
	}
	assert.Equal(t, probs[0], probs[1])
	assert.Equal(t, probs[1], probs[2])
}

type captureBroadcaster struct {
	scores []map[string]interface{}
	frauds int
}

func (c *captureBroadcaster) BroadcastScore(score map[string]interface{}, fraud bool) {
	c.scores = append(c.scores, score)
	if fraud {
		c.frauds++
	}
}

func TestScore_Broadcasts(t *testing.T) {
	e, _, _ := testEngine(t)
	cb := &captureBroadcaster{}
	e.WithBroadcaster(cb)

	_, err := e.Score(context.Background(), Transaction{
		UserID:    "user_bc",
		Amount:    60,
		Location:  "London",
		Device:    "mobile",
		Timestamp: time.Date(2026, 2, 3, 11, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, cb.scores, 1)
	assert.Equal(t, "user_bc", cb.scores[0]["userId"])
}

func TestComputeStats(t *testing.T) {
	e, records, _ := testEngine(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for i, v := range []string{VerdictSafe, VerdictSafe, VerdictFraud, VerdictSafe} {
		require.NoError(t, records.Append(ctx, &record.Record{
			ID:        fmt.Sprintf("txn_s_%d", i),
			UserID:    "user_s",
			Verdict:   v,
			RiskScore: float64(20 * (i + 1)),
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}

	stats, err := e.ComputeStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.FraudCount)
	assert.InDelta(t, 0.25, stats.FraudRate, 1e-9)
	assert.InDelta(t, 50.0, stats.AvgRiskScore, 1e-9)
}

func TestComputeStats_Empty(t *testing.T) {
	e, _, _ := testEngine(t)

	stats, err := e.ComputeStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0.0, stats.FraudRate)
}
