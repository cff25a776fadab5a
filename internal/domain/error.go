package domain

import "errors"

var (
	// ErrInvalidBounds indicates a lock whose lower bound is negative or above its upper bound.
	ErrInvalidBounds = errors.New("lock bounds must satisfy 0 <= lower <= upper")

	// ErrUnsupportedStream indicates a stream outside the supported set.
	ErrUnsupportedStream = errors.New("unsupported stream")

	// ErrInvalidMode indicates an unknown ringer mode code.
	ErrInvalidMode = errors.New("invalid ringer mode")

	// ErrAccessLocked indicates that the access gate disables mutating controls.
	ErrAccessLocked = errors.New("controls are password protected")

	// ErrControlDisabled indicates that the stream's adjustment control is disabled.
	ErrControlDisabled = errors.New("volume control is disabled")

	// ErrWriteNotAllowed indicates that the mode gate suppressed a volume write.
	ErrWriteNotAllowed = errors.New("volume write not allowed in current mode")
)
