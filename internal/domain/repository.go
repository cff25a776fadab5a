package domain

// AudioManager is a secondary port over the system audio API.
// Implementations may silently clamp writes to device bounds.
type AudioManager interface {
	Streams() []Stream
	StreamVolume(stream Stream) (int, error)
	SetStreamVolume(stream Stream, value int, flags int) error
	StreamMaxVolume(stream Stream) (int, error)
}

// ModeSource reports the current ringer/interruption mode.
type ModeSource interface {
	Mode() Mode
}

// EnforcementHost runs the background enforcement process.
// Start and Stop are idempotent, fire-and-forget commands.
type EnforcementHost interface {
	Start()
	Stop()
	// Release hands over a lock that was just removed. Its stream is left
	// inside last by the next pass, even if that is the final one.
	Release(stream Stream, last Lock)
}

// NotificationHost shows or hides the persistent "volumes locked" notification.
// Both calls are idempotent.
type NotificationHost interface {
	TryShow()
	TryHide()
}

// Preferences is read-only access to user preference storage.
type Preferences interface {
	Bool(key string, def bool) bool
}

// PasswordProtectedKey is the preference consulted by the access gate.
const PasswordProtectedKey = "password_protected"
