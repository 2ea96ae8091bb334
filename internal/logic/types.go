// Package logic contains pure business logic for the starter interlock latch.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// LatchState represents the startup latch.
type LatchState string

const (
	LatchIdle   LatchState = "IDLE"
	LatchActive LatchState = "ACTIVE"
)

// EventType represents a latch transition event.
type EventType string

const (
	EventActivated EventType = "ACTIVATED"
	EventDelatched EventType = "DELATCHED"
)

// SafetyReading holds the three interlock booleans, recomputed every tick
// from fresh measurements.
type SafetyReading struct {
	Charging     bool
	Neutral      bool
	BrakePressed bool
}

// Input represents a single sample of logical inputs for one tick.
type Input struct {
	ButtonPressed bool
	Safety        SafetyReading
	Time          time.Time
}

// Commands is the actuator output vector produced by a tick.
type Commands struct {
	Indicator   bool
	PowerEnable bool
	Buzzer      bool
}

// Event represents a latch transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Latch     LatchState
	Safety    SafetyReading
}

// EventCounts tracks latch activity since startup.
type EventCounts struct {
	Activations  int
	Delatches    int
	DroppedEdges int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Latch     LatchState
	Counts    EventCounts
}
