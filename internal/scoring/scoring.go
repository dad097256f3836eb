// Package scoring runs the real-time fraud scoring pipeline: profile
// snapshot, feature encoding, scaling, classification, verdict.
package scoring

import "time"

// Verdict values for a scored transaction.
const (
	VerdictFraud = "FRAUD"
	VerdictSafe  = "SAFE"
)

// Transaction is one payment to score.
type Transaction struct {
	UserID    string
	Amount    float64
	Location  string
	Device    string
	Timestamp time.Time
}

// Assessment is the scoring result for one transaction.
type Assessment struct {
	TransactionID string    `json:"transactionId"`
	UserID        string    `json:"userId"`
	Verdict       string    `json:"verdict"`
	Probability   float64   `json:"probability"`
	RiskScore     float64   `json:"riskScore"`
	ScoredAt      time.Time `json:"scoredAt"`
}
