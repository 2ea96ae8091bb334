// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/starter-interlock/internal/logic"
)

// Topic is the MQTT topic for latch transition events.
const Topic = "vehicle/starter/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "vehicle/starter/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a latch transition event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Starter StarterPayload `json:"starter"`
}

// StarterPayload contains the latch event details.
type StarterPayload struct {
	Timestamp  string          `json:"timestamp"`
	Event      string          `json:"event"`
	Latch      string          `json:"latch"`
	Interlocks InterlockStates `json:"interlocks"`
}

// InterlockStates reports the three interlock booleans at event time.
type InterlockStates struct {
	Charging     bool `json:"charging"`
	Neutral      bool `json:"neutral"`
	BrakePressed bool `json:"brake_pressed"`
}

// FormatPayload creates the JSON payload for a latch event.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Starter: StarterPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			Latch:     string(event.Latch),
			Interlocks: InterlockStates{
				Charging:     event.Safety.Charging,
				Neutral:      event.Safety.Neutral,
				BrakePressed: event.Safety.BrakePressed,
			},
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
