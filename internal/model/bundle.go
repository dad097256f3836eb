package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mbd888/fraudguard/internal/feature"
)

// FormatVersion identifies the bundle blob layout. Bump it whenever the
// feature column contract or the serialized shape changes; Load rejects any
// other version instead of coercing.
const FormatVersion = 1

// DefaultThreshold is the decision boundary when a bundle doesn't override it.
const DefaultThreshold = 0.5

// Bundle is the one versioned artifact pairing a classifier with the exact
// vocabularies, scaler parameters, column ordering and threshold it was fit
// against. The parts are saved and loaded together; mixing a classifier
// with preprocessing state from a different fit silently corrupts scores.
type Bundle struct {
	FormatVersion  int                   `json:"formatVersion"`
	CreatedAt      time.Time             `json:"createdAt"`
	FeatureColumns []string              `json:"featureColumns"`
	Encoder        *feature.Encoder      `json:"encoder"`
	Scaler         *feature.ScalerParams `json:"scaler"`
	Classifier     *Logistic             `json:"classifier"`
	Threshold      float64               `json:"threshold"`
}

// Validate checks that the bundle's components agree with each other and
// with the current encoder contract. A mismatch is a deployment error
// (stale artifact against newer code), surfaced as ErrIncompatibleBundle.
func (b *Bundle) Validate() error {
	if b.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: format version %d, this build reads %d",
			ErrIncompatibleBundle, b.FormatVersion, FormatVersion)
	}
	if len(b.FeatureColumns) != len(feature.Columns) {
		return fmt.Errorf("%w: bundle has %d feature columns, encoder produces %d",
			ErrIncompatibleBundle, len(b.FeatureColumns), len(feature.Columns))
	}
	for i, name := range b.FeatureColumns {
		if name != feature.Columns[i] {
			return fmt.Errorf("%w: feature column %d is %q, encoder contract says %q",
				ErrIncompatibleBundle, i, name, feature.Columns[i])
		}
	}
	if b.Encoder == nil || b.Encoder.Locations == nil || b.Encoder.Devices == nil {
		return fmt.Errorf("%w: missing vocabularies", ErrIncompatibleBundle)
	}
	if err := b.Encoder.Locations.Validate(); err != nil {
		return fmt.Errorf("%w: location vocabulary: %v", ErrIncompatibleBundle, err)
	}
	if err := b.Encoder.Devices.Validate(); err != nil {
		return fmt.Errorf("%w: device vocabulary: %v", ErrIncompatibleBundle, err)
	}
	if b.Scaler == nil {
		return fmt.Errorf("%w: missing scaler params", ErrIncompatibleBundle)
	}
	if err := b.Scaler.Validate(); err != nil {
		return fmt.Errorf("%w: scaler: %v", ErrIncompatibleBundle, err)
	}
	if b.Scaler.NumFeatures() != len(feature.Columns) {
		return fmt.Errorf("%w: scaler fit with %d columns, encoder produces %d",
			ErrIncompatibleBundle, b.Scaler.NumFeatures(), len(feature.Columns))
	}
	if b.Classifier == nil {
		return fmt.Errorf("%w: missing classifier", ErrIncompatibleBundle)
	}
	if b.Classifier.NumFeatures() != len(feature.Columns) {
		return fmt.Errorf("%w: classifier expects %d features, encoder produces %d",
			ErrIncompatibleBundle, b.Classifier.NumFeatures(), len(feature.Columns))
	}
	if b.Threshold < 0 || b.Threshold > 1 {
		return fmt.Errorf("%w: threshold %v outside [0,1]", ErrIncompatibleBundle, b.Threshold)
	}
	return nil
}

// Save writes the bundle as one JSON blob, via a temp file + rename so a
// crashed write never leaves a half-written artifact at the target path.
func Save(b *Bundle, path string) error {
	if err := b.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bundle dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".bundle-*.json")
	if err != nil {
		return fmt.Errorf("create temp bundle: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close bundle: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads and validates a bundle. Any internal disagreement fails fast
// with ErrIncompatibleBundle rather than producing silently wrong scores.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrIncompatibleBundle, err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
