// Package feature turns raw payment transactions into the fixed-width
// numeric vectors the classifier consumes.
//
// The column order is a versioned contract: it must be identical at fit time
// and at inference time, and changing it invalidates every previously trained
// model bundle.
package feature

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidInput marks a transaction that cannot be encoded (negative
// amount, missing timestamp). Unseen categories and missing user history are
// NOT errors; they fall back to the unknown code and cold-start defaults.
var ErrInvalidInput = errors.New("invalid transaction input")

// Columns is the feature vector layout, in order. Frozen; see package doc.
var Columns = []string{
	"amount",
	"log_amount",
	"amount_rounded",
	"hour",
	"day_of_week",
	"is_weekend",
	"is_night",
	"user_avg_amount",
	"user_std_amount",
	"user_transaction_count",
	"location_encoded",
	"device_encoded",
}

// Vector is one encoded transaction, ordered as Columns.
type Vector []float64

// Input is the raw material for one encoding: transaction attributes plus
// the user's aggregate stats as of BEFORE this transaction. Passing
// post-update stats would leak the transaction's own amount into its
// features; callers must snapshot the profile before mutating it.
type Input struct {
	Amount    float64
	Location  string
	Device    string
	Timestamp time.Time

	// Cold-start users carry zeros here.
	UserAvgAmount float64
	UserStdAmount float64
	UserTxnCount  float64
}

// Encoder derives the feature vector using the vocabularies fit at training
// time. It is stateless beyond those frozen vocabularies and safe for
// concurrent use.
type Encoder struct {
	Locations *Vocabulary `json:"locations"`
	Devices   *Vocabulary `json:"devices"`
}

// NewEncoder builds an encoder around fitted vocabularies.
func NewEncoder(locations, devices *Vocabulary) *Encoder {
	return &Encoder{Locations: locations, Devices: devices}
}

// Encode produces the feature vector for one transaction.
//
// Time-derived columns use the UTC clock: hour 0-23, day_of_week with
// 0=Monday..6=Sunday, is_weekend for Saturday/Sunday, is_night for
// hour >= 22 or hour <= 6.
func (e *Encoder) Encode(in Input) (Vector, error) {
	if in.Amount < 0 {
		return nil, fmt.Errorf("%w: negative amount %.2f", ErrInvalidInput, in.Amount)
	}
	if in.Timestamp.IsZero() {
		return nil, fmt.Errorf("%w: missing timestamp", ErrInvalidInput)
	}

	ts := in.Timestamp.UTC()
	hour := float64(ts.Hour())
	// time.Weekday has 0=Sunday; shift to 0=Monday.
	dow := float64((int(ts.Weekday()) + 6) % 7)

	var isWeekend, isNight, amountRounded float64
	if dow >= 5 {
		isWeekend = 1
	}
	if hour >= 22 || hour <= 6 {
		isNight = 1
	}
	if in.Amount == math.Trunc(in.Amount) {
		amountRounded = 1
	}

	return Vector{
		in.Amount,
		math.Log1p(in.Amount),
		amountRounded,
		hour,
		dow,
		isWeekend,
		isNight,
		in.UserAvgAmount,
		in.UserStdAmount,
		in.UserTxnCount,
		float64(e.Locations.Encode(in.Location)),
		float64(e.Devices.Encode(in.Device)),
	}, nil
}

// NumFeatures returns the width of the vectors this encoder produces.
func (e *Encoder) NumFeatures() int {
	return len(Columns)
}
