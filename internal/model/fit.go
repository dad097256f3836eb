package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/mbd888/fraudguard/internal/feature"
	"github.com/mbd888/fraudguard/internal/profile"
)

// LabeledTransaction is one training example.
type LabeledTransaction struct {
	UserID    string
	Amount    float64
	Location  string
	Device    string
	Timestamp time.Time
	Fraud     bool
}

// FitBundle runs the full training pipeline over a labeled corpus: fit the
// category vocabularies, replay the corpus chronologically to derive each
// user's rolling stats, encode, fit the scaler, train the classifier.
//
// User stats for each example reflect only transactions BEFORE it, the same
// view the scoring path sees at inference time. Aggregating over the whole
// corpus instead would let each example's own amount leak into its features.
func FitBundle(corpus []LabeledTransaction, cfg TrainConfig) (*Bundle, error) {
	if len(corpus) == 0 {
		return nil, fmt.Errorf("empty training corpus")
	}

	sorted := make([]LabeledTransaction, len(corpus))
	copy(sorted, corpus)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var locations, devices []string
	for _, tx := range sorted {
		locations = append(locations, tx.Location)
		devices = append(devices, tx.Device)
	}
	enc := feature.NewEncoder(
		feature.FitVocabulary(locations),
		feature.FitVocabulary(devices),
	)

	profiles := make(map[string]*profile.Profile)
	rows := make([]feature.Vector, 0, len(sorted))
	labels := make([]float64, 0, len(sorted))

	for _, tx := range sorted {
		prof := profiles[tx.UserID]
		if prof == nil {
			prof = &profile.Profile{UserID: tx.UserID}
			profiles[tx.UserID] = prof
		}

		v, err := enc.Encode(feature.Input{
			Amount:        tx.Amount,
			Location:      tx.Location,
			Device:        tx.Device,
			Timestamp:     tx.Timestamp,
			UserAvgAmount: prof.Mean,
			UserStdAmount: prof.Std(),
			UserTxnCount:  float64(prof.Count),
		})
		if err != nil {
			return nil, fmt.Errorf("encode training example: %w", err)
		}
		prof.Observe(tx.Amount)

		rows = append(rows, v)
		label := 0.0
		if tx.Fraud {
			label = 1.0
		}
		labels = append(labels, label)
	}

	scaler, err := feature.FitScaler(rows)
	if err != nil {
		return nil, fmt.Errorf("fit scaler: %w", err)
	}

	scaled := make([]feature.Vector, len(rows))
	for i, r := range rows {
		scaled[i], err = scaler.Transform(r)
		if err != nil {
			return nil, fmt.Errorf("scale training example: %w", err)
		}
	}

	clf, err := TrainLogistic(scaled, labels, cfg)
	if err != nil {
		return nil, fmt.Errorf("train classifier: %w", err)
	}

	return &Bundle{
		FormatVersion:  FormatVersion,
		CreatedAt:      time.Now().UTC(),
		FeatureColumns: feature.Columns,
		Encoder:        enc,
		Scaler:         scaler,
		Classifier:     clf,
		Threshold:      DefaultThreshold,
	}, nil
}
