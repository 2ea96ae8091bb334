package sensor

import (
	"errors"
	"math"
	"testing"
)

func TestThresholdsEvaluate(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name     string
		sample   Sample
		charging bool
		neutral  bool
		brake    bool
	}{
		{
			name:   "all low",
			sample: Sample{ChargeVolts: 0.1, NeutralVolts: 0.3, BrakeVolts: 0.0},
		},
		{
			name:     "all high",
			sample:   Sample{ChargeVolts: 4.9, NeutralVolts: 4.9, BrakeVolts: 4.9},
			charging: true, neutral: true, brake: true,
		},
		{
			name:    "exactly at threshold counts as asserted",
			sample:  Sample{ChargeVolts: 1.99, NeutralVolts: 2.0, BrakeVolts: 2.01},
			neutral: true, brake: true,
		},
		{
			name:    "ready to start",
			sample:  AllClear(false),
			neutral: true, brake: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := th.Evaluate(tt.sample)
			if r.Charging != tt.charging {
				t.Errorf("Charging: expected %v, got %v", tt.charging, r.Charging)
			}
			if r.Neutral != tt.neutral {
				t.Errorf("Neutral: expected %v, got %v", tt.neutral, r.Neutral)
			}
			if r.BrakePressed != tt.brake {
				t.Errorf("BrakePressed: expected %v, got %v", tt.brake, r.BrakePressed)
			}
		})
	}
}

func TestVolts(t *testing.T) {
	tests := []struct {
		raw  int
		want float64
	}{
		{0, 0.0},
		{1023, 5.0},
		{512, 512 * 5.0 / 1023},
	}

	for _, tt := range tests {
		got := Volts(tt.raw, 5.0, 10)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Volts(%d): expected %v, got %v", tt.raw, tt.want, got)
		}
	}
}

func TestFakeReaderRead(t *testing.T) {
	samples := []Sample{
		{ChargeVolts: 0.1, ButtonPressed: false},
		{ChargeVolts: 2.5, ButtonPressed: true},
	}

	f := NewFakeReader(samples)

	s, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ButtonPressed || s.ChargeVolts != 0.1 {
		t.Errorf("sample 0: got %+v", s)
	}

	s, err = f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.ButtonPressed || s.ChargeVolts != 2.5 {
		t.Errorf("sample 1: got %+v", s)
	}

	// Third read repeats last sample.
	s, err = f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.ButtonPressed {
		t.Errorf("sample 2 (repeat): got %+v", s)
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	if _, err := f.Read(); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]Sample{AllClear(false)})
	f.ReadError = errors.New("simulated error")

	if _, err := f.Read(); err == nil || err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderReset(t *testing.T) {
	f := NewFakeReader([]Sample{
		{ButtonPressed: true},
		{ButtonPressed: false},
	})

	f.Read()
	f.Reset()

	s, _ := f.Read()
	if !s.ButtonPressed {
		t.Errorf("after reset: expected first sample, got %+v", s)
	}
}
