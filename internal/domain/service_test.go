package domain

import "testing"

func TestIsWriteAllowed(t *testing.T) {
	locks := map[Stream]Lock{StreamNotification: {3, 8}}
	tests := []struct {
		stream Stream
		mode   Mode
		want   bool
	}{
		{StreamNotification, ModeSilent, false},
		{StreamNotification, ModeVibrate, false},
		{StreamNotification, ModeNormal, true},
		{StreamNotification, Mode(7), false},
		{StreamMedia, ModeSilent, true},
		{StreamRing, ModeVibrate, true},
	}
	for _, tt := range tests {
		if got := IsWriteAllowed(tt.stream, tt.mode, locks); got != tt.want {
			t.Errorf("IsWriteAllowed(%s, %s) = %v, want %v", tt.stream, tt.mode, got, tt.want)
		}
	}
}

func TestControlStateFor(t *testing.T) {
	locks := map[Stream]Lock{StreamMedia: {5, 10}}
	tests := []struct {
		name   string
		stream Stream
		mode   Mode
		locks  map[Stream]Lock
		gated  bool
		want   ControlState
	}{
		{"unlocked media", StreamRing, ModeSilent, locks, false, ControlState{Enabled: true, ToggleEnabled: true}},
		{"locked media", StreamMedia, ModeNormal, locks, false, ControlState{Locked: true, ToggleEnabled: true}},
		{"notification restrictive", StreamNotification, ModeSilent, nil, false, ControlState{ToggleEnabled: true}},
		{"notification permissive", StreamNotification, ModeNormal, nil, false, ControlState{Enabled: true, ToggleEnabled: true}},
		{"notification locked", StreamNotification, ModeNormal, map[Stream]Lock{StreamNotification: {3, 8}}, false, ControlState{Locked: true, ToggleEnabled: true}},
		{"access gated", StreamRing, ModeNormal, locks, true, ControlState{}},
		{"access gated locked", StreamMedia, ModeNormal, locks, true, ControlState{Locked: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ControlStateFor(tt.stream, tt.mode, tt.locks, tt.gated)
			if got != tt.want {
				t.Errorf("ControlStateFor = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name          string
		before, after int
		want          []EffectType
	}{
		{"first lock", 0, 1, []EffectType{EffectStartEnforcement, EffectShowNotification}},
		{"second lock", 1, 2, []EffectType{EffectShowNotification}},
		{"relock", 1, 1, []EffectType{EffectShowNotification}},
		{"partial unlock", 2, 1, []EffectType{EffectShowNotification}},
		{"last unlock", 1, 0, []EffectType{EffectStopEnforcement, EffectHideNotification}},
		{"unlock nothing", 0, 0, []EffectType{EffectHideNotification}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transition(tt.before, tt.after)
			if len(got) != len(tt.want) {
				t.Fatalf("Transition(%d, %d) = %v, want %v", tt.before, tt.after, got, tt.want)
			}
			for i := range got {
				if got[i].Type != tt.want[i] {
					t.Errorf("effect[%d] = %s, want %s", i, got[i].Type, tt.want[i])
				}
			}
		})
	}
}
