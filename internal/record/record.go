// Package record persists scored transactions.
//
// The scoring path appends fire-and-forget: a failed or slow append never
// blocks returning a verdict. Three variants implement Store, selected once
// at construction: PostgreSQL, a flat JSON-lines file, or in-memory for
// demo/development mode.
package record

import (
	"context"
	"time"
)

// Record is one scored transaction as persisted.
type Record struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Amount      float64   `json:"amount"`
	Location    string    `json:"location"`
	Device      string    `json:"device"`
	Timestamp   time.Time `json:"timestamp"`
	Verdict     string    `json:"verdict"`
	Probability float64   `json:"probability"`
	RiskScore   float64   `json:"riskScore"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store persists scored transactions.
type Store interface {
	// Append stores one record.
	Append(ctx context.Context, r *Record) error
	// QueryRecent returns up to limit records, newest first.
	QueryRecent(ctx context.Context, limit int) ([]*Record, error)
}
