package actuator

import "github.com/sweeney/starter-interlock/internal/logic"

// FakeDriver records applied command vectors for test assertions.
type FakeDriver struct {
	// History contains every command vector passed to Apply, in order.
	History []logic.Commands

	// ApplyError, if set, will be returned by Apply.
	ApplyError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeDriver creates a FakeDriver for testing.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

// Apply records the command vector.
func (f *FakeDriver) Apply(cmd logic.Commands) error {
	if f.ApplyError != nil {
		return f.ApplyError
	}
	f.History = append(f.History, cmd)
	return nil
}

// Last returns the most recently applied command vector, or the zero vector
// if nothing was applied yet.
func (f *FakeDriver) Last() logic.Commands {
	if len(f.History) == 0 {
		return logic.Commands{}
	}
	return f.History[len(f.History)-1]
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded history.
func (f *FakeDriver) Reset() {
	f.History = nil
	f.Closed = false
	f.ApplyError = nil
}
