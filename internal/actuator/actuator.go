// Package actuator drives the three output lines with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package actuator

import "github.com/sweeney/starter-interlock/internal/logic"

// Driver applies a command vector to the physical outputs.
type Driver interface {
	// Apply drives the indicator, power-enable relay, and buzzer lines.
	// The commanded levels take effect immediately.
	Apply(cmd logic.Commands) error

	// Close drives all lines low and releases resources.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	DefaultPinIndicator   = 22
	DefaultPinPowerEnable = 23
	DefaultPinBuzzer      = 24
)
