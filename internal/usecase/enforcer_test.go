package usecase

import (
	"context"
	"testing"
	"time"

	"volumelockr/internal/domain"
)

func startEnforcer(t *testing.T, e *Enforcer) (cancel func()) {
	t.Helper()
	ctx, cancelCtx := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = e.Run(ctx)
		close(done)
	}()
	return func() {
		cancelCtx()
		<-done
	}
}

func TestEnforcerCorrectsDrift(t *testing.T) {
	registry := domain.NewLockRegistry()
	audio := newFakeAudio()
	e := NewEnforcer(registry, audio, &fakeMode{mode: domain.ModeNormal}, nil, 5*time.Millisecond)
	stop := startEnforcer(t, e)
	defer stop()

	_ = registry.AddLock(domain.StreamMedia, 5, 10)
	e.Start()
	waitFor(t, "enforcer running", e.Running)

	audio.set(domain.StreamMedia, 15)
	waitFor(t, "media clamped to 10", func() bool { return audio.get(domain.StreamMedia) == 10 })

	audio.set(domain.StreamMedia, 0)
	waitFor(t, "media clamped to 5", func() bool { return audio.get(domain.StreamMedia) == 5 })

	if e.Stats().Corrections < 2 {
		t.Errorf("Corrections = %d, want >= 2", e.Stats().Corrections)
	}
}

func TestEnforcerRespectsModeGate(t *testing.T) {
	registry := domain.NewLockRegistry()
	audio := newFakeAudio()
	mode := &fakeMode{mode: domain.ModeSilent}
	e := NewEnforcer(registry, audio, mode, nil, 5*time.Millisecond)
	stop := startEnforcer(t, e)
	defer stop()

	_ = registry.AddLock(domain.StreamNotification, 6, 8)
	e.Start()
	waitFor(t, "enforcer running", e.Running)
	passes := e.Stats().Passes
	waitFor(t, "two more passes", func() bool { return e.Stats().Passes >= passes+2 })

	if got := audio.get(domain.StreamNotification); got != 4 {
		t.Fatalf("notification changed to %d while mode is silent", got)
	}
	if !registry.Contains(domain.StreamNotification) {
		t.Fatal("latent notification lock was revoked")
	}

	_ = mode.SetMode(domain.ModeNormal)
	waitFor(t, "notification clamped to 6", func() bool { return audio.get(domain.StreamNotification) == 6 })
}

func TestEnforcerFinalPassOnStop(t *testing.T) {
	registry := domain.NewLockRegistry()
	audio := newFakeAudio()
	// Long interval: only start/stop passes run.
	e := NewEnforcer(registry, audio, nil, nil, time.Hour)
	stop := startEnforcer(t, e)
	defer stop()

	_ = registry.AddLock(domain.StreamRing, 1, 2)
	e.Start()
	waitFor(t, "enforcer running", e.Running)
	waitFor(t, "ring clamped on start", func() bool { return audio.get(domain.StreamRing) == 2 })

	audio.set(domain.StreamRing, 7)
	last, _ := registry.Get(domain.StreamRing)
	_ = registry.RemoveLock(domain.StreamRing)
	e.Release(domain.StreamRing, last)
	e.Stop()
	waitFor(t, "enforcer idle", func() bool { return !e.Running() })

	if got := audio.get(domain.StreamRing); got != 2 {
		t.Errorf("ring = %d after stop, want last-known bound 2", got)
	}
}

func TestEnforcerStopWithoutStart(t *testing.T) {
	audio := newFakeAudio()
	e := NewEnforcer(domain.NewLockRegistry(), audio, nil, nil, 5*time.Millisecond)
	e.Stop()
	e.Stop()
	stop := startEnforcer(t, e)
	time.Sleep(20 * time.Millisecond)
	stop()

	if e.Running() || e.Stats().Passes != 0 || audio.writes != 0 {
		t.Errorf("idle enforcer did work: %+v", e.Stats())
	}
}

func TestEnforcerLastRequestWins(t *testing.T) {
	registry := domain.NewLockRegistry()
	_ = registry.AddLock(domain.StreamMedia, 5, 10)
	e := NewEnforcer(registry, newFakeAudio(), nil, nil, 5*time.Millisecond)

	// Queue a burst before the loop runs; only the last one counts.
	e.Start()
	e.Stop()
	e.Start()
	e.Stop()
	e.Start()
	stop := startEnforcer(t, e)
	defer stop()
	waitFor(t, "enforcer running", e.Running)

	e.Stop()
	e.Start()
	e.Stop()
	waitFor(t, "enforcer idle", func() bool { return !e.Running() })
}

func TestEnforcerCancelLeavesStreamsInRange(t *testing.T) {
	registry := domain.NewLockRegistry()
	audio := newFakeAudio()
	e := NewEnforcer(registry, audio, nil, nil, time.Hour)
	stop := startEnforcer(t, e)

	_ = registry.AddLock(domain.StreamMedia, 5, 8)
	e.Start()
	waitFor(t, "enforcer running", e.Running)
	audio.set(domain.StreamMedia, 14)
	stop()

	if got := audio.get(domain.StreamMedia); got != 8 {
		t.Errorf("media = %d after shutdown, want 8", got)
	}
	if e.Running() {
		t.Error("enforcer still running after shutdown")
	}
}

func TestEnforcerHonorsLockRemovedBetweenTicks(t *testing.T) {
	registry := domain.NewLockRegistry()
	audio := newFakeAudio()
	e := NewEnforcer(registry, audio, nil, nil, time.Hour)
	stop := startEnforcer(t, e)
	defer stop()
	c := NewLockController(registry, e, nil)

	_ = c.OnLockRequested(domain.StreamMedia, 5, 10)
	waitFor(t, "enforcer running", e.Running)
	waitFor(t, "start pass", func() bool { return e.Stats().Passes >= 1 })

	// ring is 3; its lock never sees a tick before it is removed.
	_ = c.OnLockRequested(domain.StreamRing, 1, 2)
	_ = c.OnUnlockRequested(domain.StreamRing)
	_ = c.OnUnlockRequested(domain.StreamMedia)
	waitFor(t, "enforcer idle", func() bool { return !e.Running() })

	if got := audio.get(domain.StreamRing); got > 2 {
		t.Errorf("ring = %d after stop, want <= 2", got)
	}
}

func TestEnforcerStopUsesNewestBounds(t *testing.T) {
	registry := domain.NewLockRegistry()
	audio := newFakeAudio()
	e := NewEnforcer(registry, audio, nil, nil, time.Hour)
	stop := startEnforcer(t, e)
	defer stop()
	c := NewLockController(registry, e, nil)

	_ = c.OnLockRequested(domain.StreamMedia, 5, 10)
	waitFor(t, "enforcer running", e.Running)
	waitFor(t, "start pass", func() bool { return e.Stats().Passes >= 1 })

	_ = c.OnLockRequested(domain.StreamMedia, 2, 3)
	_ = c.OnUnlockRequested(domain.StreamMedia)
	waitFor(t, "enforcer idle", func() bool { return !e.Running() })

	if got := audio.get(domain.StreamMedia); got != 3 {
		t.Errorf("media = %d after stop, want 3 from the last lock [2, 3]", got)
	}
}

func TestEnforcerAppliesReleaseWhileIdle(t *testing.T) {
	registry := domain.NewLockRegistry()
	audio := newFakeAudio()
	e := NewEnforcer(registry, audio, nil, nil, time.Hour)
	c := NewLockController(registry, e, nil)

	// Lock and unlock before the loop ever wakes up.
	_ = c.OnLockRequested(domain.StreamRing, 1, 2)
	_ = c.OnUnlockRequested(domain.StreamRing)
	stop := startEnforcer(t, e)
	defer stop()

	waitFor(t, "ring clamped", func() bool { return audio.get(domain.StreamRing) == 2 })
	if e.Running() {
		t.Error("enforcer running with no locks")
	}
}

func TestEnforcerUsesInjectedPolicy(t *testing.T) {
	registry := domain.NewLockRegistry()
	audio := newFakeAudio()
	denyMedia := func(s domain.Stream, _ domain.Mode, _ map[domain.Stream]domain.Lock) bool {
		return s != domain.StreamMedia
	}
	e := NewEnforcer(registry, audio, nil, denyMedia, 5*time.Millisecond)
	stop := startEnforcer(t, e)
	defer stop()

	_ = registry.AddLock(domain.StreamMedia, 2, 4)
	_ = registry.AddLock(domain.StreamRing, 1, 2)
	e.Start()
	waitFor(t, "ring clamped", func() bool { return audio.get(domain.StreamRing) == 2 })
	passes := e.Stats().Passes
	waitFor(t, "two more passes", func() bool { return e.Stats().Passes >= passes+2 })

	if got := audio.get(domain.StreamMedia); got != 10 {
		t.Errorf("media = %d, want 10 untouched by a denying policy", got)
	}
}
