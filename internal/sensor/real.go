//go:build linux

package sensor

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the button from actual hardware using the Linux GPIO
// character device, and the analog channels from an IIO ADC exposed under
// /sys/bus/iio.
type RealReader struct {
	chip      *gpiocdev.Chip
	buttonPin *gpiocdev.Line

	iioDir  string
	chans   [3]int // charge, neutral, brake channel indices
	vref    float64
	adcBits int
}

// NewRealReader opens the button line and locates the IIO device directory.
// The button is requested with a pull-up: the contact shorts the line to
// ground, so raw low = pressed.
func NewRealReader(pinButton int, iioDevice string, chCharge, chNeutral, chBrake int, vref float64, adcBits int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pinButton, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pinButton, err)
	}

	iioDir := "/sys/bus/iio/devices/" + iioDevice
	if _, err := os.Stat(iioDir); err != nil {
		line.Close()
		chip.Close()
		return nil, fmt.Errorf("iio device %s: %w", iioDevice, err)
	}

	return &RealReader{
		chip:      chip,
		buttonPin: line,
		iioDir:    iioDir,
		chans:     [3]int{chCharge, chNeutral, chBrake},
		vref:      vref,
		adcBits:   adcBits,
	}, nil
}

// Read returns the current sample.
// The button line is inverted: raw low (0) = pressed, raw high (1) = released.
func (r *RealReader) Read() (Sample, error) {
	raw, err := r.buttonPin.Value()
	if err != nil {
		return Sample{}, fmt.Errorf("read button pin: %w", err)
	}

	var volts [3]float64
	for i, ch := range r.chans {
		count, err := r.readChannel(ch)
		if err != nil {
			return Sample{}, err
		}
		volts[i] = Volts(count, r.vref, r.adcBits)
	}

	return Sample{
		ChargeVolts:   volts[0],
		NeutralVolts:  volts[1],
		BrakeVolts:    volts[2],
		ButtonPressed: raw == 0,
	}, nil
}

// readChannel reads one raw ADC count from the IIO sysfs file.
func (r *RealReader) readChannel(ch int) (int, error) {
	path := fmt.Sprintf("%s/in_voltage%d_raw", r.iioDir, ch)
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read adc channel %d: %w", ch, err)
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse adc channel %d: %w", ch, err)
	}
	return count, nil
}

// Close releases GPIO resources. The button line is reconfigured to input
// with pull-up before closing so the contact reads released during shutdown.
func (r *RealReader) Close() error {
	var errs []error

	if r.buttonPin != nil {
		if err := r.buttonPin.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure button pin: %w", err))
		}
		if err := r.buttonPin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
