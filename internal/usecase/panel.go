package usecase

import (
	"errors"
	"fmt"

	"volumelockr/internal/domain"
	"volumelockr/internal/logging"
)

// VolumeUseCase is the primary port used by the CLI and web adapters.
type VolumeUseCase interface {
	Status() (Status, error)
	SetVolume(stream domain.Stream, value int) (domain.Volume, error)
	AdjustRange(stream domain.Stream, lower, upper int) (domain.Volume, error)
	Lock(stream domain.Stream, lower, upper int) error
	LockFraction(stream domain.Stream, from, to float64) error
	Unlock(stream domain.Stream) error
	SetMode(mode domain.Mode) error
	SetProtected(protected bool) error
}

// Status is one refresh of every control.
type Status struct {
	Enforcing bool
	Mode      domain.Mode
	Protected bool
	Controls  []ControlView
	Enforcer  *EnforcerStats
}

// ControlView pairs a volume snapshot with the derived state of its controls.
type ControlView struct {
	Volume domain.Volume
	State  domain.ControlState
	Lock   *domain.Lock
}

// ModeSetter is implemented by mode sources that can be changed at runtime.
type ModeSetter interface {
	SetMode(mode domain.Mode) error
}

// PreferenceWriter is implemented by preference stores that accept writes.
type PreferenceWriter interface {
	SetBool(key string, value bool) error
}

// ErrReadOnly is returned when a setting has no writable backing store.
var ErrReadOnly = errors.New("setting is read-only")

// AccessGate disables every mutating control while the password preference is set.
type AccessGate struct {
	prefs domain.Preferences
}

func NewAccessGate(prefs domain.Preferences) AccessGate {
	return AccessGate{prefs: prefs}
}

// Protected is evaluated once per refresh or user action.
func (g AccessGate) Protected() bool {
	if g.prefs == nil {
		return false
	}
	return g.prefs.Bool(domain.PasswordProtectedKey, false)
}

// VolumePanel is the control layer: it renders volumes and controls from the
// registry on every call and turns user actions into registry mutations and
// gated volume writes.
type VolumePanel struct {
	audio      domain.AudioManager
	controller *LockController
	modes      domain.ModeSource
	gate       AccessGate
	policy     domain.WritePolicy
	enforcer   *Enforcer
}

// NewVolumePanel creates the control layer. policy gates every committed
// write; nil means domain.IsWriteAllowed. enforcer may be nil; it is only
// used for status output.
func NewVolumePanel(
	audio domain.AudioManager,
	controller *LockController,
	modes domain.ModeSource,
	prefs domain.Preferences,
	policy domain.WritePolicy,
	enforcer *Enforcer,
) *VolumePanel {
	if policy == nil {
		policy = domain.IsWriteAllowed
	}
	return &VolumePanel{
		audio:      audio,
		controller: controller,
		modes:      modes,
		gate:       NewAccessGate(prefs),
		policy:     policy,
		enforcer:   enforcer,
	}
}

func (p *VolumePanel) mode() domain.Mode {
	if p.modes == nil {
		return domain.ModeNormal
	}
	return p.modes.Mode()
}

// Volume reads one stream from the audio backend.
func (p *VolumePanel) Volume(stream domain.Stream) (domain.Volume, error) {
	value, err := p.audio.StreamVolume(stream)
	if err != nil {
		return domain.Volume{}, fmt.Errorf("read %s volume: %w", stream, err)
	}
	maxVolume, err := p.audio.StreamMaxVolume(stream)
	if err != nil {
		return domain.Volume{}, fmt.Errorf("read %s max volume: %w", stream, err)
	}
	return domain.Volume{
		Name:   stream.Title(),
		Stream: stream,
		Value:  value,
		Min:    0,
		Max:    maxVolume,
		Locked: p.controller.Contains(stream),
	}, nil
}

// Volumes lists every stream the backend supports.
func (p *VolumePanel) Volumes() ([]domain.Volume, error) {
	var out []domain.Volume
	for _, s := range p.audio.Streams() {
		v, err := p.Volume(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Status re-queries the registry, mode and access gate.
func (p *VolumePanel) Status() (Status, error) {
	volumes, err := p.Volumes()
	if err != nil {
		return Status{}, err
	}
	locks := p.controller.Locks()
	st := Status{
		Enforcing: p.controller.IsEnforcing(),
		Mode:      p.mode(),
		Protected: p.gate.Protected(),
	}
	for _, v := range volumes {
		view := ControlView{
			Volume: v,
			State:  domain.ControlStateFor(v.Stream, st.Mode, locks, st.Protected),
		}
		if l, ok := locks[v.Stream]; ok {
			view.Lock = &l
		}
		st.Controls = append(st.Controls, view)
	}
	if p.enforcer != nil {
		stats := p.enforcer.Stats()
		st.Enforcer = &stats
	}
	return st, nil
}

// SetVolume commits a raw value: it is reconciled against the stream's lock,
// then written if the mode gate allows it.
func (p *VolumePanel) SetVolume(stream domain.Stream, value int) (domain.Volume, error) {
	if p.gate.Protected() {
		return domain.Volume{}, domain.ErrAccessLocked
	}
	v, err := p.Volume(stream)
	if err != nil {
		return domain.Volume{}, err
	}
	v.Value = domain.Clamp(value, v.Min, v.Max)
	if l, ok := p.controller.registry.Get(stream); ok {
		v = v.Reconcile(l)
	}
	return p.commit(v)
}

// AdjustRange handles a range selection on an unlocked stream: the current
// value is clamped into [lower, upper] and committed.
func (p *VolumePanel) AdjustRange(stream domain.Stream, lower, upper int) (domain.Volume, error) {
	if p.gate.Protected() {
		return domain.Volume{}, domain.ErrAccessLocked
	}
	if err := (domain.Lock{Lower: lower, Upper: upper}).Validate(); err != nil {
		return domain.Volume{}, err
	}
	state := domain.ControlStateFor(stream, p.mode(), p.controller.Locks(), false)
	if !state.Enabled {
		return domain.Volume{}, fmt.Errorf("%s: %w", stream, domain.ErrControlDisabled)
	}
	v, err := p.Volume(stream)
	if err != nil {
		return domain.Volume{}, err
	}
	v.Value = domain.Clamp(v.Value, lower, upper)
	return p.commit(v)
}

func (p *VolumePanel) commit(v domain.Volume) (domain.Volume, error) {
	if !p.policy(v.Stream, p.mode(), p.controller.Locks()) {
		logging.Debugf("write %s=%d suppressed in %s mode", v.Stream, v.Value, p.mode())
		return v, fmt.Errorf("%s: %w", v.Stream, domain.ErrWriteNotAllowed)
	}
	if err := p.audio.SetStreamVolume(v.Stream, v.Value, 0); err != nil {
		return v, fmt.Errorf("set %s volume: %w", v.Stream, err)
	}
	return p.Volume(v.Stream)
}

// Lock pins stream to [lower, upper], clamping upper to the stream max.
func (p *VolumePanel) Lock(stream domain.Stream, lower, upper int) error {
	if p.gate.Protected() {
		return domain.ErrAccessLocked
	}
	if !stream.Valid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedStream, stream)
	}
	maxVolume, err := p.audio.StreamMaxVolume(stream)
	if err != nil {
		return fmt.Errorf("read %s max volume: %w", stream, err)
	}
	return p.controller.OnLockRequested(stream, lower, min(upper, maxVolume))
}

// LockFraction locks stream to a fractional range selection of its max.
func (p *VolumePanel) LockFraction(stream domain.Stream, from, to float64) error {
	if p.gate.Protected() {
		return domain.ErrAccessLocked
	}
	v, err := p.Volume(stream)
	if err != nil {
		return err
	}
	volumeFrom, volumeTo := domain.SelectRange(v, from, to)
	return p.Lock(stream, volumeFrom.Value, volumeTo.Value)
}

// Unlock releases the lock on stream.
func (p *VolumePanel) Unlock(stream domain.Stream) error {
	if p.gate.Protected() {
		return domain.ErrAccessLocked
	}
	return p.controller.OnUnlockRequested(stream)
}

// SetMode changes the ringer mode when the mode source is writable.
func (p *VolumePanel) SetMode(mode domain.Mode) error {
	setter, ok := p.modes.(ModeSetter)
	if !ok {
		return fmt.Errorf("mode: %w", ErrReadOnly)
	}
	return setter.SetMode(mode)
}

// SetProtected toggles the access gate preference. The toggle itself lives
// outside the gate, like a settings screen.
func (p *VolumePanel) SetProtected(protected bool) error {
	w, ok := p.gate.prefs.(PreferenceWriter)
	if !ok {
		return fmt.Errorf("%s: %w", domain.PasswordProtectedKey, ErrReadOnly)
	}
	return w.SetBool(domain.PasswordProtectedKey, protected)
}
