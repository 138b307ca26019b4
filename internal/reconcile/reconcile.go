// Package reconcile merges authoritative device status into what the
// dashboard shows, without clobbering a control the user is working in.
//
// Every function here is pure: it takes a View and returns a new one. The
// caller owns the View and the Focus and must apply results on the same
// goroutine that handles user input, so that a pass sees one focus value
// from start to finish.
package reconcile

import (
	"strconv"

	"github.com/muurk/sunrise/internal/device"
	"github.com/muurk/sunrise/internal/timemath"
)

const (
	// ClockPlaceholder is shown before the first successful poll
	ClockPlaceholder = "--:--"

	durationPrefix = "Ramp: "
)

// Indicator labels for the two non-status states
const (
	LabelConnecting  = "Connecting…"
	LabelUnreachable = "Unreachable"
	LabelNoAlarm     = "No alarm"
)

// NewView returns the initial view for a freshly opened dashboard
func NewView(form Form) View {
	v := View{
		Clock:         ClockPlaceholder,
		Indicator:     Indicator{State: StateConnecting, Label: LabelConnecting},
		Form:          form,
		DurationLabel: durationPrefix + timemath.Placeholder,
	}
	v.DurationLabel = durationLabel(form, v.DurationLabel)
	return v
}

// Apply merges st into v. Guarded fields (enabled, start time, UTC offset)
// are only written when focus does not hold them; everything the user cannot
// edit is always overwritten. Applying the same status twice is a no-op.
func Apply(v View, st *device.Status, focus Focus) View {
	if st == nil {
		return Fail(v)
	}

	first := v.Last == nil
	v.Last = st
	v.Clock = st.Time
	v.Progress = ProgressOf(st)
	v.Indicator = IndicatorOf(st)

	form := v.Form
	if !focus.Holds(FieldEnabled) {
		form.Enabled = st.AlarmEnabled
	}
	if !focus.Holds(FieldStart) {
		form.StartTime = st.AlarmClock()
	}
	if !focus.Holds(FieldUTCOffset) {
		form.UTCOffsetHours = st.OffsetHours()
	}
	// The end time is never merged; it is only filled in once, from the
	// first status, when the form starts out without one.
	if first && form.EndTime == "" && !focus.Holds(FieldEnd) {
		form.EndTime = seedEndTime(form.StartTime, st.FadeDuration)
	}

	return WithForm(v, form)
}

// Fail records a poll that did not produce a status. Only the indicator
// changes; the last accepted values stay on screen.
func Fail(v View) View {
	v.Indicator = Indicator{State: StateConnecting, Label: LabelConnecting}
	return v
}

// Unreachable records a failed user action
func Unreachable(v View) View {
	v.Indicator = Indicator{State: StateUnreachable, Label: LabelUnreachable}
	return v
}

// WithForm replaces the form after a local edit and recomputes the duration
// label from it.
func WithForm(v View, form Form) View {
	v.Form = form
	v.DurationLabel = durationLabel(form, v.DurationLabel)
	return v
}

// IndicatorOf classifies a successfully fetched status
func IndicatorOf(st *device.Status) Indicator {
	switch {
	case st.IsFading:
		return Indicator{State: StateFading, Label: "Ramping " + percent(st.ProgressPercent())}
	case st.AlarmEnabled:
		return Indicator{State: StateArmed, Label: st.AlarmClock()}
	default:
		return Indicator{State: StateIdle, Label: LabelNoAlarm}
	}
}

// ProgressOf returns the progress card state; hidden unless fading
func ProgressOf(st *device.Status) Progress {
	if !st.IsFading {
		return Progress{}
	}
	return Progress{Visible: true, Percent: st.ProgressPercent()}
}

// Text renders the card's percentage, e.g. "42%"
func (p Progress) Text() string {
	if !p.Visible {
		return ""
	}
	return percent(p.Percent)
}

// Fraction returns the bar fill in [0,1]
func (p Progress) Fraction() float64 {
	if !p.Visible {
		return 0
	}
	return float64(p.Percent) / 100
}

// RampDuration is the duration implied by the form, and whether both times
// were usable
func (f Form) RampDuration() (int64, bool) {
	if f.StartTime == "" || f.EndTime == "" {
		return 0, false
	}
	d, err := timemath.RampDuration(f.StartTime, f.EndTime)
	if err != nil {
		return 0, false
	}
	return d, true
}

// durationLabel keeps the previous label when either time is missing or
// unparseable, so half-typed input does not blank it.
func durationLabel(form Form, prev string) string {
	d, ok := form.RampDuration()
	if !ok {
		return prev
	}
	return durationPrefix + timemath.FormatDuration(d)
}

// seedEndTime derives an end time from the device's configured ramp length
func seedEndTime(start string, fadeMs int64) string {
	if fadeMs <= 0 {
		return ""
	}
	s, err := timemath.ParseClock(start)
	if err != nil {
		return ""
	}
	return timemath.FormatMs(s + fadeMs)
}

func percent(p int) string {
	return strconv.Itoa(p) + "%"
}
