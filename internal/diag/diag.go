// Package diag provides the append-only diagnostic text stream.
// The stream is write-only and never feeds back into control decisions;
// emission failures are swallowed after logging.
package diag

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/sweeney/starter-interlock/internal/logic"
	"github.com/sweeney/starter-interlock/internal/sensor"
)

// Sink receives diagnostic lines.
type Sink interface {
	// Tick emits one line with the sampled voltages and the latch state.
	Tick(s sensor.Sample, latch logic.LatchState, now time.Time)

	// Activated emits the one-time activation line.
	Activated(now time.Time)

	// Close flushes and releases the underlying stream.
	Close() error
}

// FormatTick renders the per-tick diagnostic line.
func FormatTick(s sensor.Sample, latch logic.LatchState, now time.Time) string {
	return fmt.Sprintf("%s charge=%.2fV neutral=%.2fV brake=%.2fV latched=%v\n",
		now.UTC().Format(time.RFC3339), s.ChargeVolts, s.NeutralVolts, s.BrakeVolts, latch == logic.LatchActive)
}

// FormatActivated renders the one-time activation line.
func FormatActivated(now time.Time) string {
	return fmt.Sprintf("%s STARTER ACTIVATED\n", now.UTC().Format(time.RFC3339))
}

// WriterSink writes diagnostic lines to an io.Writer, emitting the per-tick
// line only every Nth tick so a fast control loop does not flood the stream.
// Activation lines are always emitted.
type WriterSink struct {
	w     io.Writer
	every int
	n     int
}

// NewWriterSink creates a sink writing to w. every controls tick sampling:
// 1 emits every tick, 100 emits every 100th; values < 1 are treated as 1.
func NewWriterSink(w io.Writer, every int) *WriterSink {
	if every < 1 {
		every = 1
	}
	return &WriterSink{w: w, every: every}
}

// Tick emits the per-tick line on every Nth call.
func (s *WriterSink) Tick(sample sensor.Sample, latch logic.LatchState, now time.Time) {
	s.n++
	if s.n%s.every != 0 {
		return
	}
	if _, err := io.WriteString(s.w, FormatTick(sample, latch, now)); err != nil {
		log.Printf("diag write error: %v", err)
	}
}

// Activated emits the activation line unconditionally.
func (s *WriterSink) Activated(now time.Time) {
	if _, err := io.WriteString(s.w, FormatActivated(now)); err != nil {
		log.Printf("diag write error: %v", err)
	}
}

// Close is a no-op for plain writers; the caller owns the stream.
func (s *WriterSink) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Discard is a Sink that drops everything. Used when diagnostics are
// disabled.
type Discard struct{}

func (Discard) Tick(sensor.Sample, logic.LatchState, time.Time) {}
func (Discard) Activated(time.Time)                             {}
func (Discard) Close() error                                    { return nil }
