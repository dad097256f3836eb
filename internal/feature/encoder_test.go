package feature

import (
	"errors"
	"math"
	"testing"
	"time"
)

func testEncoder() *Encoder {
	return NewEncoder(
		FitVocabulary([]string{"New York", "London", "Tokyo"}),
		FitVocabulary([]string{"mobile", "desktop", "tablet"}),
	)
}

func col(t *testing.T, v Vector, name string) float64 {
	t.Helper()
	for i, c := range Columns {
		if c == name {
			return v[i]
		}
	}
	t.Fatalf("no column %q", name)
	return 0
}

func TestEncodeVectorShape(t *testing.T) {
	e := testEncoder()
	in := Input{
		Amount:    50.00,
		Location:  "New York",
		Device:    "mobile",
		Timestamp: time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC), // Wednesday
	}

	v1, err := e.Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	v2, err := e.Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if len(v1) != len(Columns) || len(v1) != e.NumFeatures() {
		t.Fatalf("vector length %d, want %d", len(v1), len(Columns))
	}
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Errorf("column %s not stable across calls: %v vs %v", Columns[i], v1[i], v2[i])
		}
	}
}

func TestEncodeTimeFeatures(t *testing.T) {
	e := testEncoder()

	tests := []struct {
		name      string
		ts        time.Time
		hour      float64
		dow       float64
		isWeekend float64
		isNight   float64
	}{
		{"weekday afternoon", time.Date(2026, 3, 4, 14, 30, 0, 0, time.UTC), 14, 2, 0, 0},
		{"saturday night", time.Date(2026, 3, 7, 23, 0, 0, 0, time.UTC), 23, 5, 1, 1},
		{"sunday early", time.Date(2026, 3, 8, 3, 0, 0, 0, time.UTC), 3, 6, 1, 1},
		{"monday 6am is night", time.Date(2026, 3, 2, 6, 59, 0, 0, time.UTC), 6, 0, 0, 1},
		{"monday 7am is day", time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC), 7, 0, 0, 0},
		{"non-utc timestamps are normalized", time.Date(2026, 3, 4, 23, 30, 0, 0, time.FixedZone("UTC+9", 9*3600)), 14, 2, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := e.Encode(Input{Amount: 10, Location: "Tokyo", Device: "mobile", Timestamp: tt.ts})
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if got := col(t, v, "hour"); got != tt.hour {
				t.Errorf("hour = %v, want %v", got, tt.hour)
			}
			if got := col(t, v, "day_of_week"); got != tt.dow {
				t.Errorf("day_of_week = %v, want %v", got, tt.dow)
			}
			if got := col(t, v, "is_weekend"); got != tt.isWeekend {
				t.Errorf("is_weekend = %v, want %v", got, tt.isWeekend)
			}
			if got := col(t, v, "is_night"); got != tt.isNight {
				t.Errorf("is_night = %v, want %v", got, tt.isNight)
			}
		})
	}
}

func TestEncodeAmountFeatures(t *testing.T) {
	e := testEncoder()
	ts := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

	v, err := e.Encode(Input{Amount: 2500.00, Location: "London", Device: "desktop", Timestamp: ts})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := col(t, v, "amount"); got != 2500 {
		t.Errorf("amount = %v", got)
	}
	if got, want := col(t, v, "log_amount"), math.Log1p(2500); got != want {
		t.Errorf("log_amount = %v, want %v", got, want)
	}
	if got := col(t, v, "amount_rounded"); got != 1 {
		t.Errorf("amount_rounded = %v, want 1 for whole-dollar amount", got)
	}

	v, err = e.Encode(Input{Amount: 19.99, Location: "London", Device: "desktop", Timestamp: ts})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := col(t, v, "amount_rounded"); got != 0 {
		t.Errorf("amount_rounded = %v, want 0 for fractional amount", got)
	}
}

func TestEncodeColdStartDefaults(t *testing.T) {
	e := testEncoder()
	v, err := e.Encode(Input{
		Amount:    50,
		Location:  "New York",
		Device:    "mobile",
		Timestamp: time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("cold-start user must not error: %v", err)
	}
	for _, name := range []string{"user_avg_amount", "user_std_amount", "user_transaction_count"} {
		if got := col(t, v, name); got != 0 {
			t.Errorf("%s = %v, want 0 for user with no history", name, got)
		}
	}
}

func TestEncodeUnseenCategories(t *testing.T) {
	e := testEncoder()
	v, err := e.Encode(Input{
		Amount:    100,
		Location:  "Unknown Location",
		Device:    "smartwatch",
		Timestamp: time.Date(2026, 3, 4, 3, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unseen categories must not error: %v", err)
	}
	if got := col(t, v, "location_encoded"); got != float64(e.Locations.Unknown) {
		t.Errorf("location_encoded = %v, want unknown code %d", got, e.Locations.Unknown)
	}
	if got := col(t, v, "device_encoded"); got != float64(e.Devices.Unknown) {
		t.Errorf("device_encoded = %v, want unknown code %d", got, e.Devices.Unknown)
	}
}

func TestEncodeInvalidInput(t *testing.T) {
	e := testEncoder()

	_, err := e.Encode(Input{Amount: -1, Location: "London", Device: "mobile", Timestamp: time.Now()})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative amount: got %v, want ErrInvalidInput", err)
	}

	_, err = e.Encode(Input{Amount: 10, Location: "London", Device: "mobile"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero timestamp: got %v, want ErrInvalidInput", err)
	}
}
