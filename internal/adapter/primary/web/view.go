package web

import (
	"errors"
	"time"

	"volumelockr/internal/domain"
	"volumelockr/internal/usecase"
)

// StatusView is the JSON form of usecase.Status shared by server and client.
type StatusView struct {
	Enforcing bool          `json:"enforcing"`
	Mode      int           `json:"mode"`
	ModeName  string        `json:"modeName"`
	Protected bool          `json:"protected"`
	Volumes   []VolumeView  `json:"volumes"`
	Enforcer  *EnforcerView `json:"enforcer,omitempty"`
}

type VolumeView struct {
	Name          string    `json:"name"`
	Stream        string    `json:"stream"`
	StreamID      int       `json:"streamId"`
	Value         int       `json:"value"`
	Min           int       `json:"min"`
	Max           int       `json:"max"`
	Locked        bool      `json:"locked"`
	Lock          *LockView `json:"lock,omitempty"`
	Enabled       bool      `json:"enabled"`
	ToggleEnabled bool      `json:"toggleEnabled"`
}

type LockView struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
}

type EnforcerView struct {
	Running     bool       `json:"running"`
	Passes      int        `json:"passes"`
	Corrections int        `json:"corrections"`
	LastPass    *time.Time `json:"lastPass,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
}

// NewStatusView converts a use case status into its JSON form.
func NewStatusView(st usecase.Status) StatusView {
	view := StatusView{
		Enforcing: st.Enforcing,
		Mode:      int(st.Mode),
		ModeName:  st.Mode.String(),
		Protected: st.Protected,
		Volumes:   make([]VolumeView, 0, len(st.Controls)),
	}
	for _, c := range st.Controls {
		vv := VolumeView{
			Name:          c.Volume.Name,
			Stream:        c.Volume.Stream.String(),
			StreamID:      int(c.Volume.Stream),
			Value:         c.Volume.Value,
			Min:           c.Volume.Min,
			Max:           c.Volume.Max,
			Locked:        c.State.Locked,
			Enabled:       c.State.Enabled,
			ToggleEnabled: c.State.ToggleEnabled,
		}
		if c.Lock != nil {
			vv.Lock = &LockView{Lower: c.Lock.Lower, Upper: c.Lock.Upper}
		}
		view.Volumes = append(view.Volumes, vv)
	}
	if st.Enforcer != nil {
		ev := &EnforcerView{
			Running:     st.Enforcer.Running,
			Passes:      st.Enforcer.Passes,
			Corrections: st.Enforcer.Corrections,
			LastError:   st.Enforcer.LastError,
		}
		if !st.Enforcer.LastPass.IsZero() {
			lp := st.Enforcer.LastPass
			ev.LastPass = &lp
		}
		view.Enforcer = ev
	}
	return view
}

// Status converts the view back into the use case type.
func (v StatusView) Status() usecase.Status {
	st := usecase.Status{
		Enforcing: v.Enforcing,
		Mode:      domain.Mode(v.Mode),
		Protected: v.Protected,
	}
	for _, vv := range v.Volumes {
		c := usecase.ControlView{
			Volume: volumeFromView(vv),
			State: domain.ControlState{
				Enabled:       vv.Enabled,
				Locked:        vv.Locked,
				ToggleEnabled: vv.ToggleEnabled,
			},
		}
		if vv.Lock != nil {
			c.Lock = &domain.Lock{Lower: vv.Lock.Lower, Upper: vv.Lock.Upper}
		}
		st.Controls = append(st.Controls, c)
	}
	if v.Enforcer != nil {
		stats := usecase.EnforcerStats{
			Running:     v.Enforcer.Running,
			Passes:      v.Enforcer.Passes,
			Corrections: v.Enforcer.Corrections,
			LastError:   v.Enforcer.LastError,
		}
		if v.Enforcer.LastPass != nil {
			stats.LastPass = *v.Enforcer.LastPass
		}
		st.Enforcer = &stats
	}
	return st
}

func volumeToView(v domain.Volume) VolumeView {
	return VolumeView{
		Name:     v.Name,
		Stream:   v.Stream.String(),
		StreamID: int(v.Stream),
		Value:    v.Value,
		Min:      v.Min,
		Max:      v.Max,
		Locked:   v.Locked,
	}
}

func volumeFromView(vv VolumeView) domain.Volume {
	return domain.Volume{
		Name:   vv.Name,
		Stream: domain.Stream(vv.StreamID),
		Value:  vv.Value,
		Min:    vv.Min,
		Max:    vv.Max,
		Locked: vv.Locked,
	}
}

type volumePayload struct {
	Value *int `json:"value,omitempty"`
	Lower *int `json:"lower,omitempty"`
	Upper *int `json:"upper,omitempty"`
}

type lockPayload struct {
	Lower *int     `json:"lower,omitempty"`
	Upper *int     `json:"upper,omitempty"`
	From  *float64 `json:"from,omitempty"`
	To    *float64 `json:"to,omitempty"`
}

type modePayload struct {
	Mode int `json:"mode"`
}

type protectionPayload struct {
	Protected bool `json:"protected"`
}

type errorPayload struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// errorCodes lets the client restore sentinel errors from responses.
var errorCodes = map[string]error{
	"invalid_bounds":     domain.ErrInvalidBounds,
	"unsupported_stream": domain.ErrUnsupportedStream,
	"invalid_mode":       domain.ErrInvalidMode,
	"access_locked":      domain.ErrAccessLocked,
	"control_disabled":   domain.ErrControlDisabled,
	"write_not_allowed":  domain.ErrWriteNotAllowed,
	"read_only":          usecase.ErrReadOnly,
}

func errorCode(err error) string {
	for code, sentinel := range errorCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}
