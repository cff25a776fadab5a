package volume

import (
	"fmt"
	"sync"

	"volumelockr/internal/domain"
)

// DefaultMaxVolumes mirrors the stream maxima of a typical handset.
var DefaultMaxVolumes = map[domain.Stream]int{
	domain.StreamVoiceCall:    5,
	domain.StreamSystem:       7,
	domain.StreamRing:         7,
	domain.StreamMedia:        15,
	domain.StreamAlarm:        7,
	domain.StreamNotification: 7,
}

// MemoryMixer implements domain.AudioManager entirely in memory. It is the
// demo backend: nothing else changes its volumes, so drift only happens
// through Nudge (the shell's nudge command).
type MemoryMixer struct {
	mu     sync.RWMutex
	values map[domain.Stream]int
	maxes  map[domain.Stream]int
}

// NewMemoryMixer creates a mixer with the given stream maxima; every stream
// starts at half volume. A nil map uses DefaultMaxVolumes.
func NewMemoryMixer(maxes map[domain.Stream]int) *MemoryMixer {
	if maxes == nil {
		maxes = DefaultMaxVolumes
	}
	m := &MemoryMixer{
		values: make(map[domain.Stream]int, len(maxes)),
		maxes:  make(map[domain.Stream]int, len(maxes)),
	}
	for s, mx := range maxes {
		m.maxes[s] = mx
		m.values[s] = mx / 2
	}
	return m
}

func (m *MemoryMixer) Streams() []domain.Stream {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Stream
	for _, s := range domain.AllStreams() {
		if _, ok := m.maxes[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (m *MemoryMixer) StreamVolume(stream domain.Stream) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[stream]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnsupportedStream, stream)
	}
	return v, nil
}

func (m *MemoryMixer) StreamMaxVolume(stream domain.Stream) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mx, ok := m.maxes[stream]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnsupportedStream, stream)
	}
	return mx, nil
}

// SetStreamVolume clamps value to the device bounds like a real mixer does.
func (m *MemoryMixer) SetStreamVolume(stream domain.Stream, value int, flags int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mx, ok := m.maxes[stream]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedStream, stream)
	}
	m.values[stream] = domain.Clamp(value, 0, mx)
	return nil
}

// Nudge simulates a change made by another app or the OS.
func (m *MemoryMixer) Nudge(stream domain.Stream, value int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mx, ok := m.maxes[stream]; ok {
		m.values[stream] = domain.Clamp(value, 0, mx)
	}
}
