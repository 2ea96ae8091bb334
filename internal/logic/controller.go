package logic

import "time"

// Default timings. Overridable at process start, never at runtime.
const (
	DefaultQuietPeriod    = 500 * time.Millisecond
	DefaultBuzzerDuration = 3 * time.Second
)

// Controller owns all latch state and evaluates one tick at a time.
type Controller struct {
	quietPeriod    time.Duration
	buzzerDuration time.Duration
	startTime      time.Time

	prevPressed bool
	latch       LatchState

	buzzerActive bool
	buzzerStart  time.Time

	// Last command vector issued. The degraded branch (not charging, not in
	// neutral) holds power-enable and buzzer at their previous value, so the
	// controller must remember what it last commanded.
	out Commands

	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewController creates a startup controller in the Idle state with the quiet
// period armed. The startTime anchors the quiet period and uptime reporting.
func NewController(quietPeriod, buzzerDuration time.Duration, startTime time.Time) *Controller {
	return &Controller{
		quietPeriod:    quietPeriod,
		buzzerDuration: buzzerDuration,
		startTime:      startTime,
		latch:          LatchIdle,
		lastHeartbeat:  startTime,
	}
}

// Tick consumes one input sample and returns the command vector plus any
// latch transition events. Every tick is a pure re-evaluation from current
// inputs; there is no error state and nothing to retry.
func (c *Controller) Tick(input Input) (Commands, []Event) {
	now := input.Time

	// Edge detection. Suppressed entirely during the post-boot quiet period,
	// but the previous-level memory updates every tick regardless so no stale
	// edge fires once the period ends.
	quiet := now.Sub(c.startTime) < c.quietPeriod
	edge := !quiet && !c.prevPressed && input.ButtonPressed
	c.prevPressed = input.ButtonPressed

	var events []Event

	// Activation. All four conditions must hold at the instant of the edge;
	// otherwise the edge is dropped, not queued.
	if c.latch == LatchIdle && edge {
		s := input.Safety
		if !s.Charging && s.Neutral && s.BrakePressed {
			c.latch = LatchActive
			c.buzzerActive = true
			c.buzzerStart = now
			c.eventCounts.Activations++
			events = append(events, Event{
				Timestamp: now,
				Type:      EventActivated,
				Latch:     c.latch,
				Safety:    s,
			})
		} else {
			c.eventCounts.DroppedEdges++
		}
	}

	// Retention and de-latching, evaluated every tick while Active,
	// independent of button state.
	if c.latch == LatchActive {
		s := input.Safety
		switch {
		case !s.Charging && s.Neutral:
			c.out.Indicator = true
			c.out.PowerEnable = true
			if c.buzzerActive && now.Sub(c.buzzerStart) >= c.buzzerDuration {
				c.buzzerActive = false
			}
			c.out.Buzzer = c.buzzerActive

		case !s.Charging && !s.Neutral:
			// Degraded: still indicating, power-enable and buzzer hold their
			// previous commanded value. The buzzer timer keeps counting from
			// its original start.
			c.out.Indicator = true

		default: // charging, regardless of neutral
			c.latch = LatchIdle
			c.buzzerActive = false
			c.out = Commands{}
			c.eventCounts.Delatches++
			events = append(events, Event{
				Timestamp: now,
				Type:      EventDelatched,
				Latch:     c.latch,
				Safety:    s,
			})
		}
	} else {
		c.out = Commands{}
	}

	return c.out, events
}

// Latch returns the current latch state.
func (c *Controller) Latch() LatchState {
	return c.latch
}

// Commands returns the last command vector issued by Tick.
func (c *Controller) Commands() Commands {
	return c.out
}

// EventCountsSnapshot returns a copy of the event counters.
func (c *Controller) EventCountsSnapshot() EventCounts {
	return c.eventCounts
}

// InQuietPeriod reports whether the given time still falls inside the
// post-boot quiet period.
func (c *Controller) InQuietPeriod(now time.Time) bool {
	return now.Sub(c.startTime) < c.quietPeriod
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed or
// if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}

	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Latch:     c.latch,
		Counts:    c.eventCounts,
	}
}
