// Package timemath converts between "HH:MM" wall-clock strings, millisecond
// offsets from midnight and human readable ramp durations.
//
// All durations are plain int64 milliseconds because that is the unit the
// device speaks on the wire (/start?time=ms, /setalarm?duration=ms).
package timemath

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

const (
	// MinuteMs is one minute in milliseconds
	MinuteMs int64 = 60_000

	// HourMs is one hour in milliseconds
	HourMs int64 = 60 * MinuteMs

	// DayMs is one day in milliseconds, added once when a ramp crosses midnight
	DayMs int64 = 24 * HourMs

	// DefaultRampDuration is used for a manual ramp when no end time is known
	DefaultRampDuration = HourMs

	// Placeholder is shown for an empty or non-positive duration
	Placeholder = "—"
)

// ErrInvalidFormat is returned when a clock string is not "H:MM" or "HH:MM"
var ErrInvalidFormat = errors.New("invalid clock format (expected HH:MM)")

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseClock converts "HH:MM" into milliseconds since midnight.
func ParseClock(s string) (int64, error) {
	hour, min, err := SplitClock(s)
	if err != nil {
		return 0, err
	}
	return int64(hour*60+min) * MinuteMs, nil
}

// SplitClock returns the hour and minute parts of "HH:MM".
func SplitClock(s string) (hour, min int, err error) {
	matches := clockPattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	hour, _ = strconv.Atoi(matches[1])
	min, _ = strconv.Atoi(matches[2])
	if hour > 23 || min > 59 {
		return 0, 0, fmt.Errorf("%w: %q out of range", ErrInvalidFormat, s)
	}
	return hour, min, nil
}

// FormatClock renders an hour and minute as zero-padded "HH:MM".
func FormatClock(hour, min int) string {
	return fmt.Sprintf("%02d:%02d", hour, min)
}

// FormatMs renders milliseconds since midnight as "HH:MM", wrapping past 24h.
func FormatMs(ms int64) string {
	ms %= DayMs
	if ms < 0 {
		ms += DayMs
	}
	total := int(ms / MinuteMs)
	return FormatClock(total/60, total%60)
}

// FormatDuration renders a duration for the ramp label.
// The value is rounded to whole minutes first, so 29.6s already counts as "1 min".
func FormatDuration(ms int64) string {
	total := int64(math.Floor(float64(ms)/float64(MinuteMs) + 0.5))
	if total <= 0 {
		return Placeholder
	}
	if total < 60 {
		return fmt.Sprintf("%d min", total)
	}

	h, m := total/60, total%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// ResolveRampDuration returns end-start, treating an end at or before the
// start as the next day. Only a single rollover is applied.
func ResolveRampDuration(startMs, endMs int64) int64 {
	d := endMs - startMs
	if d <= 0 {
		d += DayMs
	}
	return d
}

// RampDuration parses both clock strings and resolves the ramp length.
func RampDuration(start, end string) (int64, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, fmt.Errorf("start time: %w", err)
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, fmt.Errorf("end time: %w", err)
	}
	return ResolveRampDuration(s, e), nil
}
