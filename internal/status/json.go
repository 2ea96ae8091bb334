package status

import (
	"encoding/json"
	"fmt"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string         `json:"event,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	Latch         string         `json:"latch"`
	QuietPeriod   bool           `json:"quiet_period"`
	Interlocks    InterlocksJSON `json:"interlocks"`
	Outputs       OutputsJSON    `json:"outputs"`
	Voltages      VoltagesJSON   `json:"voltages"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	StartTime     string         `json:"start_time"`
	Timestamp     string         `json:"timestamp"`
	MQTT          MQTTStatus     `json:"mqtt"`
	Counts        CountsJSON     `json:"event_counts"`
	Network       *NetworkJSON   `json:"network,omitempty"`
	Config        ConfigJSON     `json:"config"`
}

// InterlocksJSON is the JSON representation of the safety reading.
type InterlocksJSON struct {
	Charging     bool `json:"charging"`
	Neutral      bool `json:"neutral"`
	BrakePressed bool `json:"brake_pressed"`
}

// OutputsJSON is the JSON representation of the command vector.
type OutputsJSON struct {
	Indicator   bool `json:"indicator"`
	PowerEnable bool `json:"power_enable"`
	Buzzer      bool `json:"buzzer"`
}

// VoltagesJSON reports the last sampled voltages, 2 decimal places.
type VoltagesJSON struct {
	Charge  string `json:"charge"`
	Neutral string `json:"neutral"`
	Brake   string `json:"brake"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Activations  int `json:"activations"`
	Delatches    int `json:"delatches"`
	DroppedEdges int `json:"dropped_edges"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	QuietMs     int64  `json:"quiet_ms"`
	BuzzerMs    int64  `json:"buzzer_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPPort    string `json:"http_port"`
	Diag        string `json:"diag,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	latch := string(snap.Latch)
	if latch == "" {
		latch = "UNKNOWN"
	}

	return StatusInner{
		Latch:       latch,
		QuietPeriod: snap.QuietPeriod,
		Interlocks: InterlocksJSON{
			Charging:     snap.Safety.Charging,
			Neutral:      snap.Safety.Neutral,
			BrakePressed: snap.Safety.BrakePressed,
		},
		Outputs: OutputsJSON{
			Indicator:   snap.Commands.Indicator,
			PowerEnable: snap.Commands.PowerEnable,
			Buzzer:      snap.Commands.Buzzer,
		},
		Voltages: VoltagesJSON{
			Charge:  fmt.Sprintf("%.2f", snap.Sample.ChargeVolts),
			Neutral: fmt.Sprintf("%.2f", snap.Sample.NeutralVolts),
			Brake:   fmt.Sprintf("%.2f", snap.Sample.BrakeVolts),
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Activations:  snap.Counts.Activations,
			Delatches:    snap.Counts.Delatches,
			DroppedEdges: snap.Counts.DroppedEdges,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			QuietMs:     snap.Config.QuietMs,
			BuzzerMs:    snap.Config.BuzzerMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
			Diag:        snap.Config.Diag,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
