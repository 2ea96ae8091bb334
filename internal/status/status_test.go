package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/starter-interlock/internal/logic"
	"github.com/sweeney/starter-interlock/internal/sensor"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{PollMs: 10, QuietMs: 500, BuzzerMs: 3000, Broker: "tcp://localhost:1883", HTTPPort: ":80"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.PollMs != 10 {
		t.Errorf("Config.PollMs: got %d, want 10", snap.Config.PollMs)
	}
	if snap.Latch != logic.LatchIdle {
		t.Errorf("Latch: got %q, want IDLE", snap.Latch)
	}
	if !snap.QuietPeriod {
		t.Error("expected QuietPeriod=true initially")
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	safety := logic.SafetyReading{Neutral: true, BrakePressed: true}
	cmd := logic.Commands{Indicator: true, PowerEnable: true, Buzzer: true}
	sample := sensor.Sample{ChargeVolts: 0.1, NeutralVolts: 4.8, BrakeVolts: 4.8}
	tr.Update(logic.LatchActive, safety, cmd, sample, false, logic.EventCounts{Activations: 2, DroppedEdges: 1})

	snap := tr.Snapshot()
	if snap.Latch != logic.LatchActive {
		t.Errorf("Latch: got %q, want ACTIVE", snap.Latch)
	}
	if !snap.Safety.Neutral || !snap.Safety.BrakePressed || snap.Safety.Charging {
		t.Errorf("Safety: got %+v", snap.Safety)
	}
	if snap.Commands != cmd {
		t.Errorf("Commands: got %+v, want %+v", snap.Commands, cmd)
	}
	if snap.QuietPeriod {
		t.Error("expected QuietPeriod=false")
	}
	if snap.Counts.Activations != 2 {
		t.Errorf("Counts.Activations: got %d, want 2", snap.Counts.Activations)
	}
	if snap.Counts.DroppedEdges != 1 {
		t.Errorf("Counts.DroppedEdges: got %d, want 1", snap.Counts.DroppedEdges)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSetNetwork(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	if tr.Snapshot().Network != nil {
		t.Error("expected nil Network initially")
	}

	net := &NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected"}
	tr.SetNetwork(net)

	snap := tr.Snapshot()
	if snap.Network == nil {
		t.Fatal("expected non-nil Network")
	}
	if snap.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want %q", snap.Network.IP, "192.168.1.42")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, Config{PollMs: 10, Broker: "tcp://b:1883"})
	tr.Update(
		logic.LatchActive,
		logic.SafetyReading{Neutral: true, BrakePressed: true},
		logic.Commands{Indicator: true, PowerEnable: true},
		sensor.Sample{ChargeVolts: 0.125, NeutralVolts: 4.8, BrakeVolts: 2.0},
		false,
		logic.EventCounts{Activations: 1},
	)

	data := FormatJSON(tr.Snapshot())

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Latch != "ACTIVE" {
		t.Errorf("latch: got %q", parsed.Status.Latch)
	}
	if parsed.Status.Event != "" {
		t.Errorf("web JSON should carry no event, got %q", parsed.Status.Event)
	}
	if !parsed.Status.Outputs.Indicator || !parsed.Status.Outputs.PowerEnable {
		t.Errorf("outputs: got %+v", parsed.Status.Outputs)
	}
	if parsed.Status.Voltages.Charge != "0.12" {
		t.Errorf("charge voltage: got %q, want 0.12", parsed.Status.Voltages.Charge)
	}
	if parsed.Status.Counts.Activations != 1 {
		t.Errorf("activations: got %d", parsed.Status.Counts.Activations)
	}
	if parsed.Status.MQTT.Broker != "tcp://b:1883" {
		t.Errorf("broker: got %q", parsed.Status.MQTT.Broker)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	data := FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("event: got %q", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGTERM" {
		t.Errorf("reason: got %q", parsed.Status.Reason)
	}
	if parsed.Status.Latch != "IDLE" {
		t.Errorf("latch: got %q", parsed.Status.Latch)
	}
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tr.Update(logic.LatchActive, logic.SafetyReading{}, logic.Commands{}, sensor.Sample{}, false, logic.EventCounts{})
		}()
		go func() {
			defer wg.Done()
			_ = tr.Snapshot()
		}()
	}
	wg.Wait()
}
