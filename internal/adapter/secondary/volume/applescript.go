package volume

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"volumelockr/internal/domain"
)

// appleScriptSetting maps a stream to its key in `get volume settings`.
var appleScriptSetting = map[domain.Stream]string{
	domain.StreamMedia:        "output volume",
	domain.StreamSystem:       "alert volume",
	domain.StreamNotification: "alert volume",
}

const appleScriptMax = 100

// Runner executes osascript. Replaced in tests.
type Runner func(ctx context.Context, script string) (string, error)

// AppleScriptMixer implements domain.AudioManager using macOS osascript.
type AppleScriptMixer struct {
	run     Runner
	timeout time.Duration
}

// NewAppleScriptMixer creates a mixer that shells out to osascript.
func NewAppleScriptMixer() *AppleScriptMixer {
	return &AppleScriptMixer{run: runOsascript, timeout: 5 * time.Second}
}

// NewAppleScriptMixerWithRunner is used in tests to avoid running osascript.
func NewAppleScriptMixerWithRunner(run Runner) *AppleScriptMixer {
	return &AppleScriptMixer{run: run, timeout: 5 * time.Second}
}

func runOsascript(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("osascript failed: %w, output: %s", err, string(output))
	}
	return strings.TrimSpace(string(output)), nil
}

func (a *AppleScriptMixer) Streams() []domain.Stream {
	return []domain.Stream{domain.StreamSystem, domain.StreamMedia, domain.StreamNotification}
}

func (a *AppleScriptMixer) setting(stream domain.Stream) (string, error) {
	key, ok := appleScriptSetting[stream]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedStream, stream)
	}
	return key, nil
}

// StreamVolume reads the setting from `get volume settings`.
func (a *AppleScriptMixer) StreamVolume(stream domain.Stream) (int, error) {
	key, err := a.setting(stream)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	out, err := a.run(ctx, fmt.Sprintf("%s of (get volume settings)", key))
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %q: %w", key, out, err)
	}
	return v, nil
}

func (a *AppleScriptMixer) StreamMaxVolume(stream domain.Stream) (int, error) {
	if _, err := a.setting(stream); err != nil {
		return 0, err
	}
	return appleScriptMax, nil
}

// SetStreamVolume runs `set volume <key> N`. flags are ignored.
func (a *AppleScriptMixer) SetStreamVolume(stream domain.Stream, value int, flags int) error {
	key, err := a.setting(stream)
	if err != nil {
		return err
	}
	if value < 0 || value > appleScriptMax {
		return fmt.Errorf("volume must be between 0 and %d, got %d", appleScriptMax, value)
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	_, err = a.run(ctx, fmt.Sprintf("set volume %s %d", key, value))
	return err
}
