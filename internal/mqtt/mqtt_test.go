package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/starter-interlock/internal/logic"
)

func TestFormatPayload(t *testing.T) {
	event := logic.Event{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Type:      logic.EventActivated,
		Latch:     logic.LatchActive,
		Safety:    logic.SafetyReading{Charging: false, Neutral: true, BrakePressed: true},
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Starter.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Starter.Timestamp)
	}
	if parsed.Starter.Event != "ACTIVATED" {
		t.Errorf("unexpected event: %s", parsed.Starter.Event)
	}
	if parsed.Starter.Latch != "ACTIVE" {
		t.Errorf("unexpected latch: %s", parsed.Starter.Latch)
	}
	if parsed.Starter.Interlocks.Charging {
		t.Error("unexpected charging=true")
	}
	if !parsed.Starter.Interlocks.Neutral || !parsed.Starter.Interlocks.BrakePressed {
		t.Errorf("unexpected interlocks: %+v", parsed.Starter.Interlocks)
	}
}

func TestFormatPayloadDelatched(t *testing.T) {
	event := logic.Event{
		Timestamp: time.Now(),
		Type:      logic.EventDelatched,
		Latch:     logic.LatchIdle,
		Safety:    logic.SafetyReading{Charging: true, Neutral: true},
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Starter.Event != "DELATCHED" {
		t.Errorf("event: got %s, want DELATCHED", parsed.Starter.Event)
	}
	if parsed.Starter.Latch != "IDLE" {
		t.Errorf("latch: got %s, want IDLE", parsed.Starter.Latch)
	}
	if !parsed.Starter.Interlocks.Charging {
		t.Error("expected charging=true")
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed SystemPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.System.Event != "SHUTDOWN" {
		t.Errorf("unexpected event: %s", parsed.System.Event)
	}
	if parsed.System.Reason != "SIGTERM" {
		t.Errorf("unexpected reason: %s", parsed.System.Reason)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"custom":true}`)
	event := SystemEvent{RawPayload: raw}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", payload)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	event := logic.Event{
		Timestamp: time.Now(),
		Type:      logic.EventActivated,
		Latch:     logic.LatchActive,
	}

	if err := f.Publish(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.Events))
	}
	if f.Events[0].Type != logic.EventActivated {
		t.Errorf("unexpected event type: %s", f.Events[0].Type)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")

	if err := f.Publish(logic.Event{}); err == nil {
		t.Error("expected error to be returned")
	}
	if len(f.Events) != 0 {
		t.Error("failed publish should not be recorded")
	}
}

func TestFakePublisherSystem(t *testing.T) {
	f := NewFakePublisher()

	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.SystemEvents) != 1 || f.SystemEvents[0].Event != "STARTUP" {
		t.Fatal("expected recorded STARTUP system event")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(logic.Event{Type: logic.EventActivated})
	f.Close()

	f.Reset()

	if len(f.Events) != 0 || f.Closed {
		t.Error("Reset should clear recorded state")
	}
}
