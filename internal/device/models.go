package device

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/muurk/sunrise/internal/timemath"
)

// Status is the authoritative device state returned by GET /status.
// It is replaced wholesale on every poll.
type Status struct {
	// Time is the device wall clock ("HH:MM", or "--:--" before NTP sync)
	Time string `json:"time"`

	// IsFading is true while a ramp is running
	IsFading bool `json:"isFading"`

	// Progress is the ramp completion fraction in [0,1]; only meaningful while fading
	Progress float64 `json:"progress"`

	// Alarm schedule
	AlarmEnabled bool `json:"alarmEnabled"`
	AlarmHour    int  `json:"alarmHour"`
	AlarmMin     int  `json:"alarmMin"`

	// UTCOffset is the configured timezone offset in seconds
	UTCOffset int `json:"utcOffset"`

	// FadeDuration is the configured ramp length in milliseconds.
	// Older firmware does not report it, in which case it is zero.
	FadeDuration int64 `json:"fadeDuration,omitempty"`
}

// wireStatus mirrors Status with pointers so missing keys can be detected
type wireStatus struct {
	Time         *string  `json:"time"`
	IsFading     *bool    `json:"isFading"`
	Progress     *float64 `json:"progress"`
	AlarmEnabled *bool    `json:"alarmEnabled"`
	AlarmHour    *int     `json:"alarmHour"`
	AlarmMin     *int     `json:"alarmMin"`
	UTCOffset    *int     `json:"utcOffset"`
	FadeDuration *int64   `json:"fadeDuration"`
}

// ParseStatus decodes a /status body. Either every required field is present
// and well typed, or an error is returned and nothing is produced.
func ParseStatus(data []byte) (*Status, error) {
	var w wireStatus
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode status: %w", err)
	}

	missing := ""
	switch {
	case w.Time == nil:
		missing = "time"
	case w.IsFading == nil:
		missing = "isFading"
	case w.Progress == nil:
		missing = "progress"
	case w.AlarmEnabled == nil:
		missing = "alarmEnabled"
	case w.AlarmHour == nil:
		missing = "alarmHour"
	case w.AlarmMin == nil:
		missing = "alarmMin"
	case w.UTCOffset == nil:
		missing = "utcOffset"
	}
	if missing != "" {
		return nil, fmt.Errorf("status is missing field %q", missing)
	}

	st := &Status{
		Time:         *w.Time,
		IsFading:     *w.IsFading,
		Progress:     *w.Progress,
		AlarmEnabled: *w.AlarmEnabled,
		AlarmHour:    *w.AlarmHour,
		AlarmMin:     *w.AlarmMin,
		UTCOffset:    *w.UTCOffset,
	}
	if w.FadeDuration != nil {
		st.FadeDuration = *w.FadeDuration
	}
	return st, nil
}

// AlarmClock returns the scheduled start as "HH:MM"
func (s *Status) AlarmClock() string {
	return timemath.FormatClock(s.AlarmHour, s.AlarmMin)
}

// ProgressPercent returns round(progress*100) clamped to [0,100]
func (s *Status) ProgressPercent() int {
	pct := jsRound(s.Progress * 100)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// OffsetHours converts the offset to whole hours for display.
// Half-hour zones round toward +inf, e.g. -5.5h shows as -5.
func (s *Status) OffsetHours() int {
	return jsRound(float64(s.UTCOffset) / 3600)
}

// jsRound rounds half up (toward +inf), unlike math.Round which rounds half
// away from zero
func jsRound(v float64) int {
	return int(math.Floor(v + 0.5))
}
