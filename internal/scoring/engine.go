package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mbd888/fraudguard/internal/feature"
	"github.com/mbd888/fraudguard/internal/idgen"
	"github.com/mbd888/fraudguard/internal/logging"
	"github.com/mbd888/fraudguard/internal/metrics"
	"github.com/mbd888/fraudguard/internal/model"
	"github.com/mbd888/fraudguard/internal/profile"
	"github.com/mbd888/fraudguard/internal/record"
	"github.com/mbd888/fraudguard/internal/syncutil"
	"github.com/mbd888/fraudguard/internal/traces"
)

// Broadcaster pushes scored transactions to live subscribers.
type Broadcaster interface {
	BroadcastScore(score map[string]interface{}, fraud bool)
}

// Engine scores transactions against the loaded model bundle.
//
// The bundle is immutable once loaded and shared across requests without
// locking; swapping in a new bundle is an atomic pointer store. The profile
// store is the only mutable state the engine touches, and same-user
// snapshot+update sequences are serialized with a per-key mutex so a
// transaction never sees its own amount in its features.
type Engine struct {
	bundle      atomic.Pointer[model.Bundle]
	profiles    profile.Store
	records     record.Store
	locks       syncutil.ShardedMutex
	broadcaster Broadcaster
	logger      *slog.Logger

	appendTimeout time.Duration
}

// NewEngine creates a scoring engine. bundle may be nil when no model
// artifact exists yet; scoring then fails with ErrModelUnavailable until
// SetBundle is called.
func NewEngine(bundle *model.Bundle, profiles profile.Store, records record.Store, logger *slog.Logger) *Engine {
	e := &Engine{
		profiles:      profiles,
		records:       records,
		logger:        logger,
		appendTimeout: 5 * time.Second,
	}
	e.SetBundle(bundle)
	return e
}

// WithBroadcaster attaches a realtime broadcaster for scored transactions.
func (e *Engine) WithBroadcaster(b Broadcaster) *Engine {
	e.broadcaster = b
	return e
}

// SetBundle atomically swaps the active model bundle. In-flight requests
// keep the bundle they already loaded.
func (e *Engine) SetBundle(b *model.Bundle) {
	e.bundle.Store(b)
	if b != nil {
		metrics.ModelLoaded.Set(1)
	} else {
		metrics.ModelLoaded.Set(0)
	}
}

// Bundle returns the active model bundle, or nil if none is loaded.
func (e *Engine) Bundle() *model.Bundle {
	return e.bundle.Load()
}

// Score runs the full pipeline for one transaction: snapshot the user's
// profile, fold the transaction into it, encode features from the snapshot,
// scale, classify, persist the outcome.
//
// The profile is updated only after the model check passes, so a model
// outage leaves user state untouched. Record persistence is fire-and-forget;
// an append failure is logged and counted but never blocks the verdict.
func (e *Engine) Score(ctx context.Context, tx Transaction) (*Assessment, error) {
	start := time.Now()

	ctx, span := traces.StartSpan(ctx, "scoring.Score",
		traces.UserID(tx.UserID),
		traces.Amount(tx.Amount),
	)
	defer span.End()

	if tx.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", feature.ErrInvalidInput)
	}
	if tx.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must be non-negative", feature.ErrInvalidInput)
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now().UTC()
	}

	bundle := e.bundle.Load()
	if bundle == nil {
		return nil, model.ErrModelUnavailable
	}

	// Snapshot-then-update under the per-user lock. The snapshot feeds the
	// features; the update folds this amount in for the NEXT transaction.
	unlock := e.locks.Lock(tx.UserID)
	snapshot, err := e.profiles.Get(ctx, tx.UserID)
	if err != nil {
		unlock()
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if err := e.profiles.Update(ctx, tx.UserID, tx.Amount); err != nil {
		unlock()
		return nil, fmt.Errorf("update profile: %w", err)
	}
	unlock()

	vec, err := bundle.Encoder.Encode(feature.Input{
		Amount:        tx.Amount,
		Location:      tx.Location,
		Device:        tx.Device,
		Timestamp:     tx.Timestamp,
		UserAvgAmount: snapshot.Mean,
		UserStdAmount: snapshot.Std(),
		UserTxnCount:  float64(snapshot.Count),
	})
	if err != nil {
		return nil, err
	}

	scaled, err := bundle.Scaler.Transform(vec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrIncompatibleBundle, err)
	}

	p, err := bundle.Classifier.PredictProba(scaled)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrIncompatibleBundle, err)
	}

	verdict := VerdictSafe
	if p >= bundle.Threshold {
		verdict = VerdictFraud
	}

	assessment := &Assessment{
		TransactionID: idgen.WithPrefix("txn_"),
		UserID:        tx.UserID,
		Verdict:       verdict,
		Probability:   p,
		RiskScore:     p * 100,
		ScoredAt:      time.Now().UTC(),
	}

	span.SetAttributes(
		traces.TxnID(assessment.TransactionID),
		traces.Verdict(verdict),
		traces.RiskScore(assessment.RiskScore),
	)

	metrics.ScoresTotal.WithLabelValues(verdict).Inc()
	metrics.ScoreDuration.Observe(time.Since(start).Seconds())

	go e.persist(tx, assessment)

	if e.broadcaster != nil {
		e.broadcaster.BroadcastScore(map[string]interface{}{
			"transactionId": assessment.TransactionID,
			"userId":        assessment.UserID,
			"amount":        tx.Amount,
			"verdict":       assessment.Verdict,
			"riskScore":     assessment.RiskScore,
		}, verdict == VerdictFraud)
	}

	logging.L(ctx).Info("transaction scored",
		"txn_id", assessment.TransactionID,
		"user_id", tx.UserID,
		"verdict", verdict,
		"risk_score", assessment.RiskScore,
	)

	return assessment, nil
}

// persist appends the scored record off the request path. Uses a fresh
// context so the append survives the HTTP request ending.
func (e *Engine) persist(tx Transaction, a *Assessment) {
	ctx, cancel := context.WithTimeout(context.Background(), e.appendTimeout)
	defer cancel()

	rec := &record.Record{
		ID:          a.TransactionID,
		UserID:      tx.UserID,
		Amount:      tx.Amount,
		Location:    tx.Location,
		Device:      tx.Device,
		Timestamp:   tx.Timestamp,
		Verdict:     a.Verdict,
		Probability: a.Probability,
		RiskScore:   a.RiskScore,
		CreatedAt:   a.ScoredAt,
	}
	if err := e.records.Append(ctx, rec); err != nil {
		metrics.StorageAppendFailures.Inc()
		e.logger.Error("record append failed",
			"txn_id", a.TransactionID,
			"error", err,
		)
	}
}

// Recent returns up to limit recently scored records, newest first.
func (e *Engine) Recent(ctx context.Context, limit int) ([]*record.Record, error) {
	return e.records.QueryRecent(ctx, limit)
}

// Stats aggregates over the most recent records.
type Stats struct {
	Total        int     `json:"total"`
	FraudCount   int     `json:"fraudCount"`
	FraudRate    float64 `json:"fraudRate"`
	AvgRiskScore float64 `json:"avgRiskScore"`
}

// statsWindow bounds how many records feed the aggregate stats.
const statsWindow = 1000

// ComputeStats aggregates verdicts and risk over the recent record window.
func (e *Engine) ComputeStats(ctx context.Context) (*Stats, error) {
	records, err := e.records.QueryRecent(ctx, statsWindow)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	stats := &Stats{Total: len(records)}
	if len(records) == 0 {
		return stats, nil
	}

	var riskSum float64
	for _, r := range records {
		if r.Verdict == VerdictFraud {
			stats.FraudCount++
		}
		riskSum += r.RiskScore
	}
	stats.FraudRate = float64(stats.FraudCount) / float64(stats.Total)
	stats.AvgRiskScore = riskSum / float64(stats.Total)
	return stats, nil
}
