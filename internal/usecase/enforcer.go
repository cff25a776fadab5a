package usecase

import (
	"context"
	"sync"
	"time"

	"volumelockr/internal/domain"
	"volumelockr/internal/logging"
)

// EnforcerStats summarizes the enforcement loop for status output.
type EnforcerStats struct {
	Running     bool
	Passes      int
	Corrections int
	LastPass    time.Time
	LastError   string
}

// Enforcer is the background enforcement process. It periodically re-applies
// every lock to the live system volume. It only reads the registry.
//
// Start and Stop are commands: they record the desired state and wake the
// loop, which acts on the latest request.
type Enforcer struct {
	registry *domain.LockRegistry
	audio    domain.AudioManager
	modes    domain.ModeSource
	policy   domain.WritePolicy
	interval time.Duration

	mu      sync.RWMutex
	desired bool
	stats   EnforcerStats
	// retired holds released locks not yet applied by a pass.
	retired map[domain.Stream]domain.Lock

	wake chan struct{}
}

// NewEnforcer creates an enforcer over registry. policy is consulted before
// each correction; nil means domain.IsWriteAllowed. A zero interval falls
// back to domain.DefaultEnforceInterval.
func NewEnforcer(
	registry *domain.LockRegistry,
	audio domain.AudioManager,
	modes domain.ModeSource,
	policy domain.WritePolicy,
	interval time.Duration,
) *Enforcer {
	if policy == nil {
		policy = domain.IsWriteAllowed
	}
	if interval <= 0 {
		interval = domain.DefaultEnforceInterval
	}
	return &Enforcer{
		registry: registry,
		audio:    audio,
		modes:    modes,
		policy:   policy,
		interval: interval,
		retired:  make(map[domain.Stream]domain.Lock),
		wake:     make(chan struct{}, 1),
	}
}

// Start requests enforcement. Safe to call repeatedly or before Run.
func (e *Enforcer) Start() {
	e.request(true)
}

// Stop requests the loop to go idle after a final pass. Safe to call
// repeatedly or when never started.
func (e *Enforcer) Stop() {
	e.request(false)
}

// Release records the bounds of a removed lock. The newest release of a
// stream wins.
func (e *Enforcer) Release(stream domain.Stream, last domain.Lock) {
	e.mu.Lock()
	e.retired[stream] = last
	e.mu.Unlock()
}

func (e *Enforcer) request(on bool) {
	e.mu.Lock()
	e.desired = on
	e.mu.Unlock()
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// Running reports whether the loop is actively enforcing.
func (e *Enforcer) Running() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats.Running
}

// Stats returns a snapshot of the loop counters.
func (e *Enforcer) Stats() EnforcerStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

// Run drives the loop until ctx is cancelled.
func (e *Enforcer) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if e.Running() {
				e.pass()
				e.setRunning(false)
			}
			return nil
		case <-e.wake:
			e.mu.RLock()
			desired, running := e.desired, e.stats.Running
			released := len(e.retired) > 0
			e.mu.RUnlock()

			switch {
			case desired && !running:
				e.setRunning(true)
				logging.Infof("enforcement started")
				e.pass()
			case !desired && running:
				e.pass()
				e.setRunning(false)
				logging.Infof("enforcement stopped")
			case !desired && released:
				// Locked and unlocked again before the loop woke up.
				e.pass()
			}
		case <-ticker.C:
			if e.Running() {
				e.pass()
			}
		}
	}
}

func (e *Enforcer) setRunning(on bool) {
	e.mu.Lock()
	e.stats.Running = on
	e.mu.Unlock()
}

// snapshot returns the registry merged with the released locks, and
// forgets the released ones. A live lock wins over a released one.
func (e *Enforcer) snapshot() map[domain.Stream]domain.Lock {
	e.mu.Lock()
	retired := e.retired
	e.retired = make(map[domain.Stream]domain.Lock)
	e.mu.Unlock()

	locks := e.registry.Locks()
	for s, l := range retired {
		if _, ok := locks[s]; !ok {
			locks[s] = l
		}
	}
	return locks
}

// pass applies every live and released lock once. The stop and shutdown
// passes run it too, so a lock removed between ticks is still honored.
func (e *Enforcer) pass() {
	locks := e.snapshot()
	mode := domain.ModeNormal
	if e.modes != nil {
		mode = e.modes.Mode()
	}

	corrections := 0
	var lastErr error
	for stream, lock := range locks {
		if !e.policy(stream, mode, locks) {
			logging.Tracef("skip %s: write not allowed in %s mode", stream, mode)
			continue
		}
		current, err := e.audio.StreamVolume(stream)
		if err != nil {
			logging.Warnf("read %s volume: %v", stream, err)
			lastErr = err
			continue
		}
		want := domain.Clamp(current, lock.Lower, lock.Upper)
		if want == current {
			continue
		}
		if err := e.audio.SetStreamVolume(stream, want, 0); err != nil {
			logging.Warnf("correct %s volume %d -> %d: %v", stream, current, want, err)
			lastErr = err
			continue
		}
		logging.Debugf("corrected %s volume %d -> %d", stream, current, want)
		corrections++
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.Passes++
	e.stats.Corrections += corrections
	e.stats.LastPass = time.Now()
	if lastErr != nil {
		e.stats.LastError = lastErr.Error()
	}
}
