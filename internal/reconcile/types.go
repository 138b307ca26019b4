package reconcile

import (
	"strings"

	"github.com/muurk/sunrise/internal/device"
)

// Field identifies one user-editable control on the dashboard
type Field int

const (
	FieldNone Field = iota
	FieldEnabled
	FieldStart
	FieldEnd
	FieldUTCOffset
)

// String returns the field name used in logs
func (f Field) String() string {
	switch f {
	case FieldEnabled:
		return "enabled"
	case FieldStart:
		return "start"
	case FieldEnd:
		return "end"
	case FieldUTCOffset:
		return "utcoffset"
	default:
		return "none"
	}
}

// Focus is the interaction state owned by the UI: either idle or holding
// one or more fields. A Save control holds every field it is about to send.
type Focus struct {
	fields uint8
}

// Idle is the focus value when no editable control is focused
func Idle() Focus {
	return Focus{}
}

// Editing is the focus value while the user holds the given controls
func Editing(fields ...Field) Focus {
	var f Focus
	for _, field := range fields {
		if field != FieldNone {
			f.fields |= 1 << field
		}
	}
	return f
}

// IsIdle reports whether no control is focused
func (f Focus) IsIdle() bool {
	return f.fields == 0
}

// Holds reports whether the given control has focus
func (f Focus) Holds(field Field) bool {
	return field != FieldNone && f.fields&(1<<field) != 0
}

func (f Focus) String() string {
	if f.IsIdle() {
		return "idle"
	}
	var names []string
	for _, field := range []Field{FieldEnabled, FieldStart, FieldEnd, FieldUTCOffset} {
		if f.Holds(field) {
			names = append(names, field.String())
		}
	}
	return "editing(" + strings.Join(names, ",") + ")"
}

// Form is the alarm and settings form as shown on screen
type Form struct {
	StartTime      string // "HH:MM" or empty
	EndTime        string // "HH:MM" or empty
	Enabled        bool
	UTCOffsetHours int
}

// State is the status indicator category
type State string

const (
	StateUnreachable State = "unreachable"
	StateConnecting  State = "connecting"
	StateFading      State = "fading"
	StateArmed       State = "armed"
	StateIdle        State = "idle"
)

// Indicator is the status dot plus its text
type Indicator struct {
	State State
	Label string
}

// Progress is the ramp progress card. Percent is meaningless when hidden.
type Progress struct {
	Visible bool
	Percent int
}

// View is everything the dashboard renders that can change on a poll
type View struct {
	Clock         string
	Indicator     Indicator
	Progress      Progress
	Form          Form
	DurationLabel string

	// Last is the most recently applied status, nil until the first poll
	Last *device.Status
}
