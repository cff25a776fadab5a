package domain

import "time"

// DefaultEnforceInterval is how often locked streams are re-clamped when no
// interval is configured.
const DefaultEnforceInterval = 500 * time.Millisecond

// Pure policy functions shared by the control layer and the enforcer.
// None of them perform I/O.

// WritePolicy decides whether a volume write for stream may be committed.
type WritePolicy func(stream Stream, mode Mode, locks map[Stream]Lock) bool

// IsWriteAllowed is the default WritePolicy. Notification stream writes are
// only permitted in the permissive mode; every other stream is always writable.
// A notification lock outside the permissive mode stays registered but is
// not enforced until the mode returns.
func IsWriteAllowed(stream Stream, mode Mode, locks map[Stream]Lock) bool {
	if stream == StreamNotification {
		return mode.Permissive()
	}
	return true
}

// ControlStateFor derives the state of a stream's controls from the current
// locks, mode and access gate. It must be recomputed on every render.
func ControlStateFor(stream Stream, mode Mode, locks map[Stream]Lock, accessGated bool) ControlState {
	_, locked := locks[stream]
	state := ControlState{
		Enabled:       !locked,
		Locked:        locked,
		ToggleEnabled: true,
	}
	if stream == StreamNotification {
		state.Enabled = mode.Permissive() && !locked
	}
	if accessGated {
		state.Enabled = false
		state.ToggleEnabled = false
	}
	return state
}

// IsEnforcing reports whether the lock set requires background enforcement.
func IsEnforcing(locks int) bool {
	return locks > 0
}
