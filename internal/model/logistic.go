package model

import (
	"fmt"
	"math"

	"github.com/mbd888/fraudguard/internal/feature"
)

// Logistic is the classifier: logistic regression over the scaled feature
// vector. PredictProba returns the fraud probability in [0,1] and is safe
// for concurrent use once training is done; the scoring path shares one
// instance across requests. Swapping in a different model means shipping a
// new bundle, not mutating a live one.
type Logistic struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// TrainConfig controls gradient-descent training.
type TrainConfig struct {
	Epochs       int
	LearningRate float64
}

// DefaultTrainConfig returns the settings used by cmd/train.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{Epochs: 200, LearningRate: 0.1}
}

// TrainLogistic fits a logistic regression with full-batch gradient descent.
// Rows are scaled feature vectors; labels are 0 (legitimate) or 1 (fraud).
func TrainLogistic(rows []feature.Vector, labels []float64, cfg TrainConfig) (*Logistic, error) {
	if len(rows) == 0 || len(rows) != len(labels) {
		return nil, fmt.Errorf("train: %d rows and %d labels", len(rows), len(labels))
	}
	dims := len(rows[0])
	for i, r := range rows {
		if len(r) != dims {
			return nil, fmt.Errorf("train: row %d has %d columns, want %d", i, len(r), dims)
		}
	}

	m := &Logistic{Weights: make([]float64, dims)}
	n := float64(len(rows))

	grad := make([]float64, dims)
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradBias float64

		for i, row := range rows {
			p, _ := m.PredictProba(row)
			err := p - labels[i]
			for j, x := range row {
				grad[j] += err * x
			}
			gradBias += err
		}

		for j := range m.Weights {
			m.Weights[j] -= cfg.LearningRate * grad[j] / n
		}
		m.Bias -= cfg.LearningRate * gradBias / n
	}

	return m, nil
}

// PredictProba computes sigmoid(w·x + b).
func (m *Logistic) PredictProba(v feature.Vector) (float64, error) {
	if len(v) != len(m.Weights) {
		return 0, fmt.Errorf("%w: vector has %d columns, classifier fit with %d",
			ErrIncompatibleBundle, len(v), len(m.Weights))
	}
	z := m.Bias
	for j, x := range v {
		z += m.Weights[j] * x
	}
	return sigmoid(z), nil
}

// NumFeatures returns the vector width the classifier was fit with.
func (m *Logistic) NumFeatures() int {
	return len(m.Weights)
}

func sigmoid(z float64) float64 {
	// Clamp to keep Exp out of overflow territory.
	if z > 35 {
		return 1
	}
	if z < -35 {
		return 0
	}
	return 1 / (1 + math.Exp(-z))
}
