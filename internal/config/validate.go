package config

import (
	"fmt"
	"strings"
	"time"
)

// MinInterval is the shortest accepted enforcement interval.
const MinInterval = 100 * time.Millisecond

// Normalize validates cfg and returns a cleaned copy.
func Normalize(cfg Config) (Config, error) {
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	switch cfg.Backend {
	case BackendMemory, BackendAppleScript:
	default:
		return cfg, fmt.Errorf("unknown backend %q (want %s or %s)", cfg.Backend, BackendMemory, BackendAppleScript)
	}
	if cfg.Interval < MinInterval {
		return cfg, fmt.Errorf("interval must be >=%s", MinInterval)
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return cfg, fmt.Errorf("addr is required")
	}
	return cfg, nil
}
