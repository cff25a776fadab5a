package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Stream identifies a logical audio output channel.
type Stream int

const (
	StreamVoiceCall Stream = iota
	StreamSystem
	StreamRing
	StreamMedia
	StreamAlarm
	StreamNotification
)

var streamNames = map[Stream]string{
	StreamVoiceCall:    "voice_call",
	StreamSystem:       "system",
	StreamRing:         "ring",
	StreamMedia:        "media",
	StreamAlarm:        "alarm",
	StreamNotification: "notification",
}

// AllStreams returns every supported stream in id order.
func AllStreams() []Stream {
	return []Stream{
		StreamVoiceCall,
		StreamSystem,
		StreamRing,
		StreamMedia,
		StreamAlarm,
		StreamNotification,
	}
}

// Valid reports whether s belongs to the supported stream set.
func (s Stream) Valid() bool {
	_, ok := streamNames[s]
	return ok
}

func (s Stream) String() string {
	if name, ok := streamNames[s]; ok {
		return name
	}
	return "stream(" + strconv.Itoa(int(s)) + ")"
}

// Title is the human readable label shown next to a control.
func (s Stream) Title() string {
	switch s {
	case StreamVoiceCall:
		return "Voice call"
	case StreamSystem:
		return "System"
	case StreamRing:
		return "Ring"
	case StreamMedia:
		return "Media"
	case StreamAlarm:
		return "Alarm"
	case StreamNotification:
		return "Notification"
	default:
		return s.String()
	}
}

// ParseStream accepts a stream name ("media") or its numeric id ("3").
func ParseStream(v string) (Stream, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if id, err := strconv.Atoi(v); err == nil {
		s := Stream(id)
		if !s.Valid() {
			return 0, fmt.Errorf("%w: %d", ErrUnsupportedStream, id)
		}
		return s, nil
	}
	for s, name := range streamNames {
		if name == v {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedStream, v)
}

// Mode is the device-wide ringer/interruption mode code.
type Mode int

const (
	ModeSilent  Mode = 0
	ModeVibrate Mode = 1
	// ModeNormal is the permissive mode in which every notification may sound.
	ModeNormal Mode = 2
)

// Permissive reports whether notification volume may be altered in this mode.
func (m Mode) Permissive() bool {
	return m == ModeNormal
}

func (m Mode) String() string {
	switch m {
	case ModeSilent:
		return "silent"
	case ModeVibrate:
		return "vibrate"
	case ModeNormal:
		return "normal"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseMode accepts "silent", "vibrate", "normal" or a numeric code 0-2.
func ParseMode(v string) (Mode, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "silent":
		return ModeSilent, nil
	case "vibrate":
		return ModeVibrate, nil
	case "normal":
		return ModeNormal, nil
	}
	id, err := strconv.Atoi(v)
	if err != nil || id < int(ModeSilent) || id > int(ModeNormal) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, v)
	}
	return Mode(id), nil
}
