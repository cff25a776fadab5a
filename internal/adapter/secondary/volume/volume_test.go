package volume

import (
	"context"
	"errors"
	"testing"

	"volumelockr/internal/domain"
)

func TestMemoryMixerClampsToDeviceBounds(t *testing.T) {
	m := NewMemoryMixer(map[domain.Stream]int{domain.StreamMedia: 15})

	if err := m.SetStreamVolume(domain.StreamMedia, 40, 0); err != nil {
		t.Fatalf("SetStreamVolume: %v", err)
	}
	if v, _ := m.StreamVolume(domain.StreamMedia); v != 15 {
		t.Errorf("volume = %d, want 15", v)
	}
	m.Nudge(domain.StreamMedia, -3)
	if v, _ := m.StreamVolume(domain.StreamMedia); v != 0 {
		t.Errorf("volume after nudge = %d, want 0", v)
	}
}

func TestMemoryMixerUnknownStream(t *testing.T) {
	m := NewMemoryMixer(map[domain.Stream]int{domain.StreamMedia: 15})
	if _, err := m.StreamVolume(domain.StreamRing); !errors.Is(err, domain.ErrUnsupportedStream) {
		t.Errorf("StreamVolume(ring) err = %v", err)
	}
	if err := m.SetStreamVolume(domain.StreamRing, 1, 0); !errors.Is(err, domain.ErrUnsupportedStream) {
		t.Errorf("SetStreamVolume(ring) err = %v", err)
	}
	if got := m.Streams(); len(got) != 1 || got[0] != domain.StreamMedia {
		t.Errorf("Streams() = %v", got)
	}
}

func TestMemoryMixerDefaults(t *testing.T) {
	m := NewMemoryMixer(nil)
	if len(m.Streams()) != len(domain.AllStreams()) {
		t.Fatalf("Streams() = %v", m.Streams())
	}
	if mx, _ := m.StreamMaxVolume(domain.StreamMedia); mx != 15 {
		t.Errorf("media max = %d, want 15", mx)
	}
	if v, _ := m.StreamVolume(domain.StreamMedia); v != 7 {
		t.Errorf("media initial volume = %d, want 7", v)
	}
}

func TestAppleScriptMixerScripts(t *testing.T) {
	var scripts []string
	m := NewAppleScriptMixerWithRunner(func(ctx context.Context, script string) (string, error) {
		scripts = append(scripts, script)
		return "42", nil
	})

	v, err := m.StreamVolume(domain.StreamMedia)
	if err != nil || v != 42 {
		t.Fatalf("StreamVolume = %d, %v", v, err)
	}
	if err := m.SetStreamVolume(domain.StreamNotification, 30, 0); err != nil {
		t.Fatalf("SetStreamVolume: %v", err)
	}
	want := []string{
		"output volume of (get volume settings)",
		"set volume alert volume 30",
	}
	if len(scripts) != len(want) {
		t.Fatalf("scripts = %q", scripts)
	}
	for i := range want {
		if scripts[i] != want[i] {
			t.Errorf("script[%d] = %q, want %q", i, scripts[i], want[i])
		}
	}
}

func TestAppleScriptMixerRejects(t *testing.T) {
	m := NewAppleScriptMixerWithRunner(func(ctx context.Context, script string) (string, error) {
		return "not a number", nil
	})
	if _, err := m.StreamVolume(domain.StreamRing); !errors.Is(err, domain.ErrUnsupportedStream) {
		t.Errorf("StreamVolume(ring) err = %v", err)
	}
	if _, err := m.StreamVolume(domain.StreamMedia); err == nil {
		t.Error("expected parse error")
	}
	if err := m.SetStreamVolume(domain.StreamMedia, 101, 0); err == nil {
		t.Error("expected range error")
	}
}
