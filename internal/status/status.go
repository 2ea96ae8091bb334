// Package status provides a thread-safe status tracker for the
// starter-interlock daemon. It is read by HTTP handlers and by the
// heartbeat formatting in the main loop.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/starter-interlock/internal/logic"
	"github.com/sweeney/starter-interlock/internal/sensor"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	QuietMs     int64
	BuzzerMs    int64
	HeartbeatMs int64
	Broker      string
	HTTPPort    string
	Diag        string // diagnostic sink ("stdout", serial device, or empty)
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Latch         logic.LatchState
	Safety        logic.SafetyReading
	Commands      logic.Commands
	Sample        sensor.Sample
	QuietPeriod   bool
	Counts        logic.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Latch:       logic.LatchIdle,
			QuietPeriod: true,
			StartTime:   startTime,
			Config:      cfg,
		},
	}
}

// Update sets latch state, interlocks, commands, and counters.
// Called from runLoop on every tick.
func (t *Tracker) Update(latch logic.LatchState, safety logic.SafetyReading, cmd logic.Commands, sample sensor.Sample, quiet bool, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.Latch = latch
	t.snap.Safety = safety
	t.snap.Commands = cmd
	t.snap.Sample = sample
	t.snap.QuietPeriod = quiet
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
