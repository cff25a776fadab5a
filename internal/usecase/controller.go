package usecase

import (
	"sync"

	"volumelockr/internal/domain"
	"volumelockr/internal/logging"
)

// NotificationGate shows the persistent notification while any lock exists.
// On platforms without persistent notifications it does nothing.
type NotificationGate struct {
	host      domain.NotificationHost
	supported bool

	mu      sync.Mutex
	applied uint64
}

// NewNotificationGate resolves the platform capability once.
func NewNotificationGate(host domain.NotificationHost, supported bool) *NotificationGate {
	return &NotificationGate{host: host, supported: supported}
}

// evaluate shows or hides the notification for registry generation gen.
// A generation older than the last one applied is dropped, so the
// notification always ends up matching the newest mutation.
func (g *NotificationGate) evaluate(gen uint64, enforcing bool) {
	if g == nil || !g.supported || g.host == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if gen <= g.applied {
		logging.Tracef("notification for generation %d superseded by %d", gen, g.applied)
		return
	}
	g.applied = gen
	if enforcing {
		g.host.TryShow()
	} else {
		g.host.TryHide()
	}
}

// LockController is the single mutation path of the lock registry. Each
// mutation and the host transition it causes are serialized, so start/stop
// of the enforcement host happen exactly once per Idle<->Enforcing edge.
// The notification is updated after the mutation is released.
type LockController struct {
	registry      *domain.LockRegistry
	host          domain.EnforcementHost
	notifications *NotificationGate

	mu  sync.Mutex
	gen uint64
}

// NewLockController wires the controller to its registry and collaborators.
// A nil host turns every mutation into a silent no-op.
func NewLockController(
	registry *domain.LockRegistry,
	host domain.EnforcementHost,
	notifications *NotificationGate,
) *LockController {
	return &LockController{
		registry:      registry,
		host:          host,
		notifications: notifications,
	}
}

// OnLockRequested adds or replaces the lock for stream.
func (c *LockController) OnLockRequested(stream domain.Stream, lower, upper int) error {
	if c.host == nil {
		logging.Debugf("lock %s ignored: no enforcement host", stream)
		return nil
	}
	return c.mutate(func() error {
		if err := c.registry.AddLock(stream, lower, upper); err != nil {
			return err
		}
		logging.Infof("locked %s to [%d, %d]", stream, lower, upper)
		return nil
	})
}

// OnUnlockRequested removes the lock for stream, if any. The removed bounds
// are released to the host before it may be stopped.
func (c *LockController) OnUnlockRequested(stream domain.Stream) error {
	if c.host == nil {
		logging.Debugf("unlock %s ignored: no enforcement host", stream)
		return nil
	}
	return c.mutate(func() error {
		last, held := c.registry.Get(stream)
		if err := c.registry.RemoveLock(stream); err != nil {
			return err
		}
		if held {
			c.host.Release(stream, last)
		}
		logging.Infof("unlocked %s", stream)
		return nil
	})
}

func (c *LockController) mutate(change func() error) error {
	c.mu.Lock()
	before := c.registry.Len()
	if err := change(); err != nil {
		c.mu.Unlock()
		return err
	}
	show, notify := c.apply(domain.Transition(before, c.registry.Len()))
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	// The platform notifier may block; registry mutations must not wait on it.
	if notify {
		c.notifications.evaluate(gen, show)
	}
	return nil
}

// apply runs the host effects and reports the notification effect, if any.
func (c *LockController) apply(effects []domain.Effect) (show, notify bool) {
	for _, eff := range effects {
		logging.Tracef("effect %s", eff.Type)
		switch eff.Type {
		case domain.EffectStartEnforcement:
			c.host.Start()
		case domain.EffectStopEnforcement:
			c.host.Stop()
		case domain.EffectShowNotification:
			show, notify = true, true
		case domain.EffectHideNotification:
			show, notify = false, true
		}
	}
	return show, notify
}

// IsEnforcing is derived from the registry on every call.
func (c *LockController) IsEnforcing() bool {
	return domain.IsEnforcing(c.registry.Len())
}

// Locks returns a snapshot of the registry.
func (c *LockController) Locks() map[domain.Stream]domain.Lock {
	return c.registry.Locks()
}

func (c *LockController) Contains(stream domain.Stream) bool {
	return c.registry.Contains(stream)
}
