// Command train fits a fraud model over a synthetic corpus and writes the
// versioned bundle artifact the server loads at startup.
//
// Usage:
//
//	go run ./cmd/train                          # defaults: 10k samples -> models/bundle.json
//	go run ./cmd/train -samples 50000 -out models/bundle.json
package main

import (
	"flag"
	"os"

	"github.com/mbd888/fraudguard/internal/datagen"
	"github.com/mbd888/fraudguard/internal/logging"
	"github.com/mbd888/fraudguard/internal/model"
)

func main() {
	var (
		samples   = flag.Int("samples", 10000, "number of synthetic transactions")
		users     = flag.Int("users", 5000, "number of distinct users")
		fraudRate = flag.Float64("fraud-rate", 0.05, "fraction of fraudulent samples")
		seed      = flag.Int64("seed", 42, "generator seed")
		epochs    = flag.Int("epochs", 200, "training epochs")
		lr        = flag.Float64("lr", 0.1, "learning rate")
		out       = flag.String("out", "models/bundle.json", "output bundle path")
	)
	flag.Parse()

	logger := logging.New("info", "text")

	genCfg := datagen.Config{
		Samples:   *samples,
		Users:     *users,
		FraudRate: *fraudRate,
		Seed:      *seed,
	}
	logger.Info("generating corpus",
		"samples", genCfg.Samples,
		"users", genCfg.Users,
		"fraud_rate", genCfg.FraudRate,
	)
	corpus := datagen.Generate(genCfg)

	labeled := make([]model.LabeledTransaction, len(corpus))
	fraudCount := 0
	for i, s := range corpus {
		labeled[i] = model.LabeledTransaction{
			UserID:    s.UserID,
			Amount:    s.Amount,
			Location:  s.Location,
			Device:    s.Device,
			Timestamp: s.Timestamp,
			Fraud:     s.IsFraud,
		}
		if s.IsFraud {
			fraudCount++
		}
	}
	logger.Info("corpus generated", "total", len(labeled), "fraud", fraudCount)

	trainCfg := model.TrainConfig{Epochs: *epochs, LearningRate: *lr}
	bundle, err := model.FitBundle(labeled, trainCfg)
	if err != nil {
		logger.Error("training failed", "error", err)
		os.Exit(1)
	}

	if err := model.Save(bundle, *out); err != nil {
		logger.Error("failed to save bundle", "error", err)
		os.Exit(1)
	}

	logger.Info("bundle written",
		"path", *out,
		"locations", bundle.Encoder.Locations.Size(),
		"devices", bundle.Encoder.Devices.Size(),
		"threshold", bundle.Threshold,
	)
}
