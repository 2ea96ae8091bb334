//go:build linux

package actuator

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/starter-interlock/internal/logic"
)

// RealDriver drives GPIO output lines on actual hardware using the Linux
// GPIO character device.
type RealDriver struct {
	chip      *gpiocdev.Chip
	indicator *gpiocdev.Line
	power     *gpiocdev.Line
	buzzer    *gpiocdev.Line
}

// NewRealDriver requests the three output lines, all initially low.
func NewRealDriver(pinIndicator, pinPower, pinBuzzer int) (*RealDriver, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	d := &RealDriver{chip: chip}

	pins := []struct {
		pin  int
		line **gpiocdev.Line
		name string
	}{
		{pinIndicator, &d.indicator, "indicator"},
		{pinPower, &d.power, "power-enable"},
		{pinBuzzer, &d.buzzer, "buzzer"},
	}

	for _, p := range pins {
		line, err := chip.RequestLine(p.pin, gpiocdev.AsOutput(0))
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", p.name, p.pin, err)
		}
		*p.line = line
	}

	return d, nil
}

// Apply drives the three lines to the commanded levels.
func (d *RealDriver) Apply(cmd logic.Commands) error {
	if err := d.indicator.SetValue(level(cmd.Indicator)); err != nil {
		return fmt.Errorf("set indicator: %w", err)
	}
	if err := d.power.SetValue(level(cmd.PowerEnable)); err != nil {
		return fmt.Errorf("set power-enable: %w", err)
	}
	if err := d.buzzer.SetValue(level(cmd.Buzzer)); err != nil {
		return fmt.Errorf("set buzzer: %w", err)
	}
	return nil
}

// Close drives all lines low before releasing them so the subsystem is left
// de-energized on shutdown.
func (d *RealDriver) Close() error {
	var errs []error

	for _, line := range []*gpiocdev.Line{d.indicator, d.power, d.buzzer} {
		if line == nil {
			continue
		}
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("drive line low: %w", err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func level(on bool) int {
	if on {
		return 1
	}
	return 0
}
