// Package notify implements the persistent "volumes locked" notification.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"volumelockr/internal/logging"
)

// LogNotifier records the notification as log lines. Show and hide only act
// on a visibility change.
type LogNotifier struct {
	mu      sync.Mutex
	visible bool
	shows   int
	hides   int
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) TryShow() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.visible {
		return
	}
	n.visible = true
	n.shows++
	logging.Infof("notification shown: volumes are locked")
}

func (n *LogNotifier) TryHide() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.visible {
		return
	}
	n.visible = false
	n.hides++
	logging.Infof("notification hidden")
}

// Visible reports whether the notification is currently shown.
func (n *LogNotifier) Visible() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.visible
}

// Counts returns how many times the notification was shown and hidden.
func (n *LogNotifier) Counts() (shows, hides int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.shows, n.hides
}

// AppleScriptNotifier posts a macOS notification when locking begins.
// macOS notifications cannot be withdrawn, so hide only updates state.
type AppleScriptNotifier struct {
	LogNotifier
	run func(ctx context.Context, script string) error
}

func NewAppleScriptNotifier() *AppleScriptNotifier {
	return &AppleScriptNotifier{run: func(ctx context.Context, script string) error {
		out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput()
		if err != nil {
			return fmt.Errorf("osascript failed: %w, output: %s", err, string(out))
		}
		return nil
	}}
}

func (n *AppleScriptNotifier) TryShow() {
	if n.Visible() {
		return
	}
	n.LogNotifier.TryShow()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	script := `display notification "Volume locks are being enforced" with title "volumelockr"`
	if err := n.run(ctx, script); err != nil {
		logging.Warnf("post notification: %v", err)
	}
}
