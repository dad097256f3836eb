package feature

import (
	"math"
	"testing"
)

func TestFitScalerAndTransform(t *testing.T) {
	matrix := []Vector{
		{10, 1},
		{20, 2},
		{30, 3},
	}
	p, err := FitScaler(matrix)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if p.Means[0] != 20 || p.Means[1] != 2 {
		t.Errorf("means = %v", p.Means)
	}

	out, err := p.Transform(Vector{20, 2})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	for j, x := range out {
		if math.Abs(x) > 1e-12 {
			t.Errorf("column %d: mean input should map to 0, got %v", j, x)
		}
	}
}

func TestFitScalerZeroVariance(t *testing.T) {
	matrix := []Vector{
		{5, 1},
		{5, 2},
		{5, 3},
	}
	p, err := FitScaler(matrix)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if p.Scales[0] != 1 {
		t.Errorf("zero-variance column scale = %v, want 1", p.Scales[0])
	}

	out, err := p.Transform(Vector{5, 2})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if out[0] != 0 {
		t.Errorf("zero-variance column should transform to 0, got %v", out[0])
	}
}

func TestTransformDimensionMismatch(t *testing.T) {
	p, err := FitScaler([]Vector{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if _, err := p.Transform(Vector{1, 2, 3}); err == nil {
		t.Error("expected error for wrong-width vector")
	}
}

func TestFitScalerEmptyAndRagged(t *testing.T) {
	if _, err := FitScaler(nil); err == nil {
		t.Error("expected error for empty matrix")
	}
	if _, err := FitScaler([]Vector{{1, 2}, {3}}); err == nil {
		t.Error("expected error for ragged matrix")
	}
}
