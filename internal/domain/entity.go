package domain

// Volume is a snapshot of one stream's volume as reported by the audio backend.
// Locked mirrors registry membership at the time the snapshot was taken and
// must not be used as the source of truth.
type Volume struct {
	Name   string
	Stream Stream
	Value  int
	Min    int
	Max    int
	Locked bool
}

// Lock is a closed interval of permitted volume values in the stream's own units.
type Lock struct {
	Lower int
	Upper int
}

// Validate checks the lock bounds.
func (l Lock) Validate() error {
	if l.Lower < 0 || l.Lower > l.Upper {
		return ErrInvalidBounds
	}
	return nil
}

// Contains reports whether v lies within the lock.
func (l Lock) Contains(v int) bool {
	return v >= l.Lower && v <= l.Upper
}

// Clamp returns the value nearest to candidate within [lower, upper].
func Clamp(candidate, lower, upper int) int {
	return min(upper, max(lower, candidate))
}

// Reconcile returns a copy of v with its value clamped into l.
func (v Volume) Reconcile(l Lock) Volume {
	v.Value = Clamp(v.Value, l.Lower, l.Upper)
	return v
}

// SelectRange turns a fractional range selection (0..1 of the stream max) into
// the pair of volumes that define the bounds of a new lock.
func SelectRange(v Volume, from, to float64) (Volume, Volume) {
	from = clampFraction(from)
	to = clampFraction(to)
	if from > to {
		from, to = to, from
	}
	volumeFrom := v
	volumeFrom.Value = int(float64(v.Max) * from)
	volumeTo := v
	volumeTo.Value = int(float64(v.Max) * to)
	return volumeFrom, volumeTo
}

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// ControlState is the derived interactivity of a stream's controls.
type ControlState struct {
	// Enabled reports whether the adjustment control accepts input.
	Enabled bool
	// Locked is the lock toggle position.
	Locked bool
	// ToggleEnabled reports whether the lock toggle accepts input.
	ToggleEnabled bool
}
