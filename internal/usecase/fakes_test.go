package usecase

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"volumelockr/internal/domain"
)

type fakeHost struct {
	mu       sync.Mutex
	starts   int
	stops    int
	released map[domain.Stream]domain.Lock
}

func (h *fakeHost) Start() { h.mu.Lock(); h.starts++; h.mu.Unlock() }
func (h *fakeHost) Stop()  { h.mu.Lock(); h.stops++; h.mu.Unlock() }

func (h *fakeHost) Release(s domain.Stream, last domain.Lock) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released == nil {
		h.released = make(map[domain.Stream]domain.Lock)
	}
	h.released[s] = last
}

func (h *fakeHost) counts() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.starts, h.stops
}

type fakeNotifier struct {
	shows, hides int
}

func (n *fakeNotifier) TryShow() { n.shows++ }
func (n *fakeNotifier) TryHide() { n.hides++ }

// stallingNotifier blocks every call until release is closed, like a
// platform notifier waiting on a slow helper process.
type stallingNotifier struct {
	entered chan struct{}
	release chan struct{}
}

func newStallingNotifier() *stallingNotifier {
	return &stallingNotifier{entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (n *stallingNotifier) stall() {
	select {
	case n.entered <- struct{}{}:
	default:
	}
	<-n.release
}

func (n *stallingNotifier) TryShow() { n.stall() }
func (n *stallingNotifier) TryHide() { n.stall() }

type fakeMode struct {
	mu   sync.Mutex
	mode domain.Mode
}

func (m *fakeMode) Mode() domain.Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

func (m *fakeMode) SetMode(mode domain.Mode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mode
	return nil
}

type fakePrefs map[string]bool

func (p fakePrefs) Bool(key string, def bool) bool {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

func (p fakePrefs) SetBool(key string, v bool) error {
	p[key] = v
	return nil
}

// fakeAudio clamps writes to [0, max] like a device does.
type fakeAudio struct {
	mu     sync.Mutex
	values map[domain.Stream]int
	maxes  map[domain.Stream]int
	writes int
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{
		values: map[domain.Stream]int{domain.StreamMedia: 10, domain.StreamNotification: 4, domain.StreamRing: 3},
		maxes:  map[domain.Stream]int{domain.StreamMedia: 15, domain.StreamNotification: 10, domain.StreamRing: 7},
	}
}

func (a *fakeAudio) Streams() []domain.Stream {
	return []domain.Stream{domain.StreamRing, domain.StreamMedia, domain.StreamNotification}
}

func (a *fakeAudio) StreamVolume(s domain.Stream) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.values[s]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnsupportedStream, s)
	}
	return v, nil
}

func (a *fakeAudio) StreamMaxVolume(s domain.Stream) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.maxes[s]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnsupportedStream, s)
	}
	return v, nil
}

func (a *fakeAudio) SetStreamVolume(s domain.Stream, value, flags int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	mx, ok := a.maxes[s]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedStream, s)
	}
	a.values[s] = domain.Clamp(value, 0, mx)
	a.writes++
	return nil
}

func (a *fakeAudio) set(s domain.Stream, v int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values[s] = v
}

func (a *fakeAudio) get(s domain.Stream) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.values[s]
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
