// Package sensor provides the sensor frontend with hardware abstraction.
// The real implementation reads the button via the Linux GPIO character
// device and the analog channels via the IIO sysfs interface.
// The fake implementation allows testing without hardware.
package sensor

import "github.com/sweeney/starter-interlock/internal/logic"

// Reader samples the raw inputs once per tick.
type Reader interface {
	// Read returns the current sample: three analog voltages and the
	// push-button contact level (true = pressed).
	Read() (Sample, error)

	// Close releases hardware resources.
	Close() error
}

// Sample is one raw reading, already scaled to the 0-5V domain.
type Sample struct {
	ChargeVolts  float64
	NeutralVolts float64
	BrakeVolts   float64

	ButtonPressed bool
}

// Thresholds are the voltage cut-offs for the three interlock signals.
// Fixed at process start, never changed at runtime.
type Thresholds struct {
	Charge  float64
	Neutral float64
	Brake   float64
}

// Default configuration. The analog scaling matches a 10-bit converter
// referenced to 5V.
const (
	DefaultThresholdVolts = 2.0
	DefaultVRef           = 5.0
	DefaultADCBits        = 10
)

// DefaultThresholds returns the default 2.0V cut-off for all three signals.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Charge:  DefaultThresholdVolts,
		Neutral: DefaultThresholdVolts,
		Brake:   DefaultThresholdVolts,
	}
}

// Evaluate converts a raw sample into the three interlock booleans.
// A signal is considered asserted when its voltage is at or above the
// threshold: charge voltage present means the vehicle is charging, neutral
// voltage present means the gearbox is in neutral, brake voltage present
// means the brake pedal is applied.
func (t Thresholds) Evaluate(s Sample) logic.SafetyReading {
	return logic.SafetyReading{
		Charging:     s.ChargeVolts >= t.Charge,
		Neutral:      s.NeutralVolts >= t.Neutral,
		BrakePressed: s.BrakeVolts >= t.Brake,
	}
}

// Volts scales a raw ADC count to volts.
func Volts(raw int, vref float64, bits int) float64 {
	max := float64(int(1)<<bits - 1)
	return float64(raw) * vref / max
}

// Pin and channel defaults (BCM numbering for the button, IIO channel
// indices for the analog inputs).
const (
	DefaultPinButton      = 17
	DefaultChannelCharge  = 0
	DefaultChannelNeutral = 1
	DefaultChannelBrake   = 2
)
