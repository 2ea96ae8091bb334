package diag

import (
	"fmt"

	"github.com/tarm/serial"
)

// DefaultBaud matches the usual diagnostic console rate.
const DefaultBaud = 115200

// OpenSerial opens a serial diagnostic sink on the given device.
func OpenSerial(device string, baud, every int) (*WriterSink, error) {
	port, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	return NewWriterSink(port, every), nil
}
