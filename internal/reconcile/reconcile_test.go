package reconcile

import (
	"reflect"
	"testing"

	"github.com/muurk/sunrise/internal/device"
)

func armedStatus() *device.Status {
	return &device.Status{
		Time:         "22:14",
		AlarmEnabled: true,
		AlarmHour:    7,
		AlarmMin:     30,
		UTCOffset:    7200,
	}
}

func TestNewView(t *testing.T) {
	v := NewView(Form{})
	if v.Indicator.State != StateConnecting || v.Indicator.Label != LabelConnecting {
		t.Errorf("Indicator = %+v, want connecting", v.Indicator)
	}
	if v.Progress.Visible {
		t.Error("progress visible before any poll")
	}
	if v.Clock != ClockPlaceholder {
		t.Errorf("Clock = %s", v.Clock)
	}
	if v.DurationLabel != "Ramp: —" {
		t.Errorf("DurationLabel = %q", v.DurationLabel)
	}

	v = NewView(Form{StartTime: "06:30", EndTime: "07:15"})
	if v.DurationLabel != "Ramp: 45 min" {
		t.Errorf("DurationLabel = %q, want Ramp: 45 min", v.DurationLabel)
	}
}

func TestApply_Idempotent(t *testing.T) {
	st := armedStatus()
	st.FadeDuration = 1800000

	for _, focus := range []Focus{Idle(), Editing(FieldStart), Editing(FieldEnd), Editing(FieldUTCOffset)} {
		once := Apply(NewView(Form{StartTime: "05:00"}), st, focus)
		twice := Apply(once, st, focus)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("focus %s: second apply changed the view\nonce:  %+v\ntwice: %+v", focus, once, twice)
		}
	}
}

func TestApply_FocusGuardStart(t *testing.T) {
	start := NewView(Form{StartTime: "06:1"})

	v := Apply(start, armedStatus(), Editing(FieldStart))
	if v.Form.StartTime != "06:1" {
		t.Errorf("focused start field overwritten: %q", v.Form.StartTime)
	}

	v = Apply(start, armedStatus(), Idle())
	if v.Form.StartTime != "07:30" {
		t.Errorf("StartTime = %q, want 07:30", v.Form.StartTime)
	}
}

func TestApply_FocusGuardPerField(t *testing.T) {
	local := Form{StartTime: "05:00", EndTime: "06:00", Enabled: false, UTCOffsetHours: -3}
	st := armedStatus()

	tests := []struct {
		focus Focus
		want  Form
	}{
		{Idle(), Form{StartTime: "07:30", EndTime: "06:00", Enabled: true, UTCOffsetHours: 2}},
		{Editing(FieldEnabled), Form{StartTime: "07:30", EndTime: "06:00", Enabled: false, UTCOffsetHours: 2}},
		{Editing(FieldStart), Form{StartTime: "05:00", EndTime: "06:00", Enabled: true, UTCOffsetHours: 2}},
		{Editing(FieldUTCOffset), Form{StartTime: "07:30", EndTime: "06:00", Enabled: true, UTCOffsetHours: -3}},
		{Editing(FieldEnd), Form{StartTime: "07:30", EndTime: "06:00", Enabled: true, UTCOffsetHours: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.focus.String(), func(t *testing.T) {
			v := Apply(NewView(local), st, tt.focus)
			if v.Form != tt.want {
				t.Errorf("Form = %+v, want %+v", v.Form, tt.want)
			}
			// Unguarded fields always follow the device.
			if v.Clock != "22:14" || v.Indicator.State != StateArmed {
				t.Errorf("unguarded fields not applied: clock=%s indicator=%+v", v.Clock, v.Indicator)
			}
		})
	}
}

func TestApply_DurationFollowsStart(t *testing.T) {
	v := Apply(NewView(Form{EndTime: "08:00"}), armedStatus(), Idle())
	if v.DurationLabel != "Ramp: 30 min" {
		t.Errorf("DurationLabel = %q, want Ramp: 30 min", v.DurationLabel)
	}
}

func TestApply_SeedsEmptyEndTime(t *testing.T) {
	st := armedStatus()
	st.FadeDuration = 2700000

	v := Apply(NewView(Form{}), st, Idle())
	if v.Form.EndTime != "08:15" {
		t.Errorf("EndTime = %q, want 08:15", v.Form.EndTime)
	}
	if v.DurationLabel != "Ramp: 45 min" {
		t.Errorf("DurationLabel = %q", v.DurationLabel)
	}

	// Not while the user is in the field.
	v = Apply(NewView(Form{}), st, Editing(FieldEnd))
	if v.Form.EndTime != "" {
		t.Errorf("focused end field seeded with %q", v.Form.EndTime)
	}

	// Never replaces a value the user typed.
	v = Apply(NewView(Form{EndTime: "09:00"}), st, Idle())
	if v.Form.EndTime != "09:00" {
		t.Errorf("EndTime = %q, want 09:00", v.Form.EndTime)
	}
}

func TestApply_ClearedEndTimeStaysEmpty(t *testing.T) {
	st := armedStatus()
	st.FadeDuration = 2700000

	v := Apply(NewView(Form{}), st, Idle())
	form := v.Form
	form.EndTime = ""
	v = WithForm(v, form)

	for i := 0; i < 3; i++ {
		v = Apply(v, st, Idle())
	}
	if v.Form.EndTime != "" {
		t.Errorf("EndTime = %q, want it left empty", v.Form.EndTime)
	}
}

func TestApply_SectionFocusGuardsEveryField(t *testing.T) {
	local := Form{StartTime: "05:00", EndTime: "06:00", Enabled: false, UTCOffsetHours: -3}
	v := Apply(NewView(local), armedStatus(), Editing(FieldStart, FieldEnd, FieldEnabled))

	if v.Form.StartTime != "05:00" || v.Form.Enabled {
		t.Errorf("alarm section overwritten: %+v", v.Form)
	}
	if v.Form.UTCOffsetHours != 2 {
		t.Errorf("UTCOffsetHours = %d, want the device value", v.Form.UTCOffsetHours)
	}
}

func TestApply_ProgressVisibility(t *testing.T) {
	idle := &device.Status{Time: "06:00", Progress: 0.8}
	v := Apply(NewView(Form{}), idle, Idle())
	if v.Progress.Visible || v.Progress.Text() != "" || v.Progress.Fraction() != 0 {
		t.Errorf("progress shown while not fading: %+v", v.Progress)
	}
	if v.Indicator != (Indicator{State: StateIdle, Label: "No alarm"}) {
		t.Errorf("Indicator = %+v", v.Indicator)
	}

	fading := &device.Status{Time: "06:10", IsFading: true, Progress: 0.42, AlarmEnabled: true}
	v = Apply(v, fading, Idle())
	if !v.Progress.Visible || v.Progress.Text() != "42%" || v.Progress.Fraction() != 0.42 {
		t.Errorf("Progress = %+v, want visible 42%%", v.Progress)
	}
	if v.Indicator.Label != "Ramping 42%" || v.Indicator.State != StateFading {
		t.Errorf("Indicator = %+v", v.Indicator)
	}

	// Hidden again, not left at the last percentage.
	v = Apply(v, idle, Idle())
	if v.Progress.Visible {
		t.Error("progress still visible after ramp ended")
	}
}

func TestFail_LeavesFieldsAlone(t *testing.T) {
	v := Apply(NewView(Form{EndTime: "08:00"}), armedStatus(), Idle())
	failed := Fail(v)

	if failed.Indicator.State != StateConnecting {
		t.Errorf("Indicator = %+v, want connecting", failed.Indicator)
	}
	failed.Indicator = v.Indicator
	if !reflect.DeepEqual(failed, v) {
		t.Error("Fail changed something other than the indicator")
	}

	if got := Apply(v, nil, Idle()); got.Indicator.State != StateConnecting {
		t.Errorf("nil status indicator = %+v", got.Indicator)
	}
}

func TestUnreachable(t *testing.T) {
	v := Unreachable(NewView(Form{}))
	if v.Indicator != (Indicator{State: StateUnreachable, Label: "Unreachable"}) {
		t.Errorf("Indicator = %+v", v.Indicator)
	}

	// The next good poll clears it.
	v = Apply(v, armedStatus(), Idle())
	if v.Indicator.Label != "07:30" {
		t.Errorf("Indicator = %+v, want armed 07:30", v.Indicator)
	}
}

func TestWithForm_KeepsLabelOnBadInput(t *testing.T) {
	v := NewView(Form{StartTime: "06:30", EndTime: "07:15"})

	v = WithForm(v, Form{StartTime: "06:30", EndTime: "7:"})
	if v.DurationLabel != "Ramp: 45 min" {
		t.Errorf("DurationLabel = %q, want previous label kept", v.DurationLabel)
	}

	v = WithForm(v, Form{StartTime: "23:00", EndTime: "06:30"})
	if v.DurationLabel != "Ramp: 7h 30m" {
		t.Errorf("DurationLabel = %q, want Ramp: 7h 30m", v.DurationLabel)
	}
}

func TestFocus(t *testing.T) {
	if !Idle().IsIdle() || Idle().Holds(FieldNone) {
		t.Error("idle focus holds nothing")
	}
	f := Editing(FieldUTCOffset)
	if !f.Holds(FieldUTCOffset) || f.Holds(FieldStart) {
		t.Error("Editing should hold exactly its field")
	}
	if f.String() != "editing(utcoffset)" {
		t.Errorf("String() = %s", f.String())
	}

	section := Editing(FieldStart, FieldEnabled)
	if !section.Holds(FieldStart) || !section.Holds(FieldEnabled) || section.Holds(FieldEnd) {
		t.Error("Editing should hold each field it was given")
	}
	if section.String() != "editing(enabled,start)" {
		t.Errorf("String() = %s", section.String())
	}
	if !Editing(FieldNone).IsIdle() {
		t.Error("Editing(FieldNone) should be idle")
	}
}
