package feature

import (
	"fmt"
	"math"
)

// ScalerParams holds the per-column standardization statistics learned at
// fit time. Frozen after fitting; the same params must be applied at
// inference, in the same column order as Columns.
type ScalerParams struct {
	Means  []float64 `json:"means"`
	Scales []float64 `json:"scales"`
}

// FitScaler computes per-column mean and standard deviation over a training
// matrix. A column with zero variance gets scale 1, so transforming maps it
// to exactly zero instead of dividing by zero. The column carries no signal
// either way.
func FitScaler(matrix []Vector) (*ScalerParams, error) {
	if len(matrix) == 0 {
		return nil, fmt.Errorf("fit scaler: empty matrix")
	}
	cols := len(matrix[0])
	for i, row := range matrix {
		if len(row) != cols {
			return nil, fmt.Errorf("fit scaler: row %d has %d columns, want %d", i, len(row), cols)
		}
	}

	n := float64(len(matrix))
	means := make([]float64, cols)
	for _, row := range matrix {
		for j, x := range row {
			means[j] += x
		}
	}
	for j := range means {
		means[j] /= n
	}

	scales := make([]float64, cols)
	for _, row := range matrix {
		for j, x := range row {
			d := x - means[j]
			scales[j] += d * d
		}
	}
	for j := range scales {
		scales[j] = math.Sqrt(scales[j] / n)
		if scales[j] == 0 {
			scales[j] = 1
		}
	}

	return &ScalerParams{Means: means, Scales: scales}, nil
}

// Transform standardizes one vector elementwise: (x - mean) / scale.
// The vector must have exactly as many columns as the params were fit with.
func (p *ScalerParams) Transform(v Vector) (Vector, error) {
	if len(v) != len(p.Means) {
		return nil, fmt.Errorf("transform: vector has %d columns, scaler fit with %d", len(v), len(p.Means))
	}
	out := make(Vector, len(v))
	for j, x := range v {
		out[j] = (x - p.Means[j]) / p.Scales[j]
	}
	return out, nil
}

// NumFeatures returns the column count the scaler was fit with.
func (p *ScalerParams) NumFeatures() int {
	return len(p.Means)
}

// Validate checks the params are internally consistent and usable.
func (p *ScalerParams) Validate() error {
	if len(p.Means) != len(p.Scales) {
		return fmt.Errorf("scaler params: %d means vs %d scales", len(p.Means), len(p.Scales))
	}
	for j, s := range p.Scales {
		if s == 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return fmt.Errorf("scaler params: bad scale %v at column %d", s, j)
		}
	}
	return nil
}
