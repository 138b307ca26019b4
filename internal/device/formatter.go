package device

import (
	"fmt"
	"strings"

	"github.com/muurk/sunrise/internal/timemath"
)

// StateLabel describes what the light is doing right now
func (s *Status) StateLabel() string {
	switch {
	case s.IsFading:
		return fmt.Sprintf("ramping %d%%", s.ProgressPercent())
	case s.AlarmEnabled:
		return "armed " + s.AlarmClock()
	default:
		return "idle"
	}
}

// FormatCompact returns a single status line, as printed by "sunrise watch"
func (s *Status) FormatCompact() string {
	return fmt.Sprintf("%s  %s  utc%+dh", s.Time, s.StateLabel(), s.OffsetHours())
}

// FormatDetailed returns a multi-line human readable status block
func (s *Status) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("=== Sunrise Status ===\n")
	b.WriteString(fmt.Sprintf("Device Time:   %s\n", s.Time))
	if s.IsFading {
		b.WriteString(fmt.Sprintf("Ramp:          running (%d%%)\n", s.ProgressPercent()))
	} else {
		b.WriteString("Ramp:          not running\n")
	}

	b.WriteString("\n=== Alarm ===\n")
	b.WriteString(fmt.Sprintf("Enabled:       %v\n", s.AlarmEnabled))
	b.WriteString(fmt.Sprintf("Start:         %s\n", s.AlarmClock()))
	if s.FadeDuration > 0 {
		end := int64(s.AlarmHour)*timemath.HourMs + int64(s.AlarmMin)*timemath.MinuteMs + s.FadeDuration
		b.WriteString(fmt.Sprintf("Full bright:   %s\n", timemath.FormatMs(end)))
		b.WriteString(fmt.Sprintf("Duration:      %s\n", timemath.FormatDuration(s.FadeDuration)))
	}

	b.WriteString("\n=== Settings ===\n")
	b.WriteString(fmt.Sprintf("UTC Offset:    %+dh (%ds)\n", s.OffsetHours(), s.UTCOffset))

	return b.String()
}
