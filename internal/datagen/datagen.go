// Package datagen produces synthetic labeled transactions for training and
// demos. Fraudulent samples skew toward large amounts at night; legitimate
// samples follow modest business-hour spending.
package datagen

import (
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// Locations is the synthetic location pool. Legitimate traffic concentrates
// in the first four.
var Locations = []string{
	"New York", "San Francisco", "London", "Tokyo",
	"Paris", "Berlin", "Sydney", "Toronto",
}

// Devices is the synthetic device pool.
var Devices = []string{"mobile", "desktop", "tablet"}

// fraud transactions cluster in these hours
var fraudHours = []int{2, 3, 4, 23, 0, 1}

// Sample is one labeled synthetic transaction.
type Sample struct {
	UserID    string
	Amount    float64
	Location  string
	Device    string
	Timestamp time.Time
	IsFraud   bool
}

// Config controls generation.
type Config struct {
	Samples   int
	Users     int
	FraudRate float64
	Seed      int64
	Now       time.Time // anchor for timestamps; zero means time.Now()
}

// DefaultConfig mirrors the demo corpus: 10k samples over 5k users at a
// 5% fraud rate, fixed seed for reproducibility.
func DefaultConfig() Config {
	return Config{
		Samples:   10000,
		Users:     5000,
		FraudRate: 0.05,
		Seed:      42,
	}
}

// Generate produces cfg.Samples labeled transactions, sorted by timestamp.
func Generate(cfg Config) []Sample {
	rng := rand.New(rand.NewSource(cfg.Seed))
	now := cfg.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	samples := make([]Sample, 0, cfg.Samples)
	for i := 0; i < cfg.Samples; i++ {
		isFraud := rng.Float64() < cfg.FraudRate

		var amount float64
		var location, device string
		var hour int

		if isFraud {
			// Higher amounts at unusual hours, any location or device
			amount = rng.ExpFloat64()*500 + 100
			location = Locations[rng.Intn(len(Locations))]
			device = Devices[rng.Intn(len(Devices))]
			hour = fraudHours[rng.Intn(len(fraudHours))]
		} else {
			// Gamma(2, 50): modest spend, business hours, common locations
			amount = 50 * (rng.ExpFloat64() + rng.ExpFloat64())
			location = Locations[rng.Intn(4)]
			device = pickDevice(rng)
			hour = 8 + rng.Intn(14)
		}

		day := now.AddDate(0, 0, -rng.Intn(30))
		ts := time.Date(day.Year(), day.Month(), day.Day(), hour, rng.Intn(60), 0, 0, time.UTC)

		samples = append(samples, Sample{
			UserID:    fmt.Sprintf("user_%05d", 1+rng.Intn(cfg.Users)),
			Amount:    round2(amount),
			Location:  location,
			Device:    device,
			Timestamp: ts,
			IsFraud:   isFraud,
		})
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})
	return samples
}

// pickDevice weights mobile 60%, desktop 30%, tablet 10%.
func pickDevice(rng *rand.Rand) string {
	r := rng.Float64()
	switch {
	case r < 0.6:
		return "mobile"
	case r < 0.9:
		return "desktop"
	default:
		return "tablet"
	}
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}
