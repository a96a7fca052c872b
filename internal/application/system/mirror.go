package system

import "time"

// MirrorToggle holds a session's mirroring switch. Mirroring starts
// enabled. Only the methods below write it.
//
// A timed call schedules a single revert to enabled; any later call
// replaces a pending revert (last writer wins). The revert is driven by
// the simulation clock through Update, so it fires exactly once no
// matter what happens to the caller that scheduled it.
//
// MirrorToggle is not safe for concurrent use. Call it from the tick
// goroutine.
type MirrorToggle struct {
	clock Clock

	enabled  bool
	revertAt time.Duration
	pending  bool
}

// NewMirrorToggle creates an enabled toggle reading time from clock
func NewMirrorToggle(clock Clock) *MirrorToggle {
	return &MirrorToggle{clock: clock, enabled: true}
}

// Enabled reports whether the mirror character is currently mirrored
func (m *MirrorToggle) Enabled() bool {
	return m.enabled
}

// RevertAt returns the pending revert time, if one is scheduled
func (m *MirrorToggle) RevertAt() (time.Duration, bool) {
	return m.revertAt, m.pending
}

// SetMirroring sets the switch and cancels any pending revert
func (m *MirrorToggle) SetMirroring(enabled bool) {
	m.enabled = enabled
	m.revertAt = 0
	m.pending = false
}

// SetMirroringFor sets the switch and schedules a revert to enabled
// after autoRevertAfter.
func (m *MirrorToggle) SetMirroringFor(enabled bool, autoRevertAfter time.Duration) {
	m.enabled = enabled
	m.revertAt = m.clock.Now() + autoRevertAfter
	m.pending = true
}

// Update fires the pending revert if now has reached it.
// Returns true on the call that fired it.
func (m *MirrorToggle) Update(now time.Duration) bool {
	if !m.pending || now < m.revertAt {
		return false
	}
	m.enabled = true
	m.revertAt = 0
	m.pending = false
	return true
}

// Reset restores the initial state
func (m *MirrorToggle) Reset() {
	m.SetMirroring(true)
}
