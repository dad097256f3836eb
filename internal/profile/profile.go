// Package profile maintains per-user running aggregates of transaction
// amounts. The aggregates feed the feature encoder: a user's mean, standard
// deviation, and count as of before the current transaction.
package profile

import (
	"context"
	"math"
)

// Profile is one user's running amount statistics. Count, Mean and M2 form
// a Welford accumulator; the online form avoids the catastrophic
// cancellation a naive sum-of-squares develops over long-lived users.
type Profile struct {
	UserID string  `json:"userId"`
	Count  int64   `json:"count"`
	Mean   float64 `json:"mean"`
	M2     float64 `json:"m2"`
}

// Std returns the sample standard deviation (ddof=1), 0 for fewer than two
// observations.
func (p *Profile) Std() float64 {
	if p.Count < 2 {
		return 0
	}
	return math.Sqrt(p.M2 / float64(p.Count-1))
}

// Observe folds one amount into the accumulator.
func (p *Profile) Observe(amount float64) {
	p.Count++
	delta := amount - p.Mean
	p.Mean += delta / float64(p.Count)
	p.M2 += delta * (amount - p.Mean)
}

// Store persists user profiles.
//
// Get returns a zero-valued profile for unseen users; cold start is a
// default, never an error. Update incorporates one observation. Callers that
// need read-then-update atomicity for a user (the scoring path does) must
// serialize those two calls themselves; see scoring.Engine.
type Store interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, userID string, amount float64) error
}
