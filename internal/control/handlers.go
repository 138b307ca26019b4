// Package control turns user intents into color selection changes and
// device actions. It has no knowledge of how the intents are captured; the
// terminal dashboard and the CLI both drive it through Port.
package control

import (
	"github.com/muurk/sunrise/internal/colormodel"
	"github.com/muurk/sunrise/internal/device"
	"github.com/muurk/sunrise/internal/reconcile"
	"github.com/muurk/sunrise/internal/timemath"
)

// Port is the set of user intents a front end can raise. Methods that return
// a nil *Action mean "nothing to send".
type Port interface {
	PresetSelected(id string) (*Action, error)
	CustomSelected()
	PickerInput(hex string) error
	TurnOn() *Action
	SaveAlarm(form reconcile.Form) *Action
	StartRamp(form reconcile.Form) *Action
	Stop() *Action
	SaveSettings(form reconcile.Form) *Action
}

// Handlers implements Port on top of an owned color selection
type Handlers struct {
	sel *colormodel.Selection
}

var _ Port = (*Handlers)(nil)

// NewHandlers wraps sel; a nil sel starts from the default selection
func NewHandlers(sel *colormodel.Selection) *Handlers {
	if sel == nil {
		sel = colormodel.NewSelection()
	}
	return &Handlers{sel: sel}
}

// Selection exposes the owned selection for rendering
func (h *Handlers) Selection() *colormodel.Selection {
	return h.sel
}

// PresetSelected applies a preset swatch and sends it straight to the device
func (h *Handlers) PresetSelected(id string) (*Action, error) {
	sw, err := h.sel.SelectPreset(id)
	if err != nil {
		return nil, err
	}
	return onAction(sw.R, sw.G, sw.B), nil
}

// CustomSelected reveals the picker; nothing is sent
func (h *Handlers) CustomSelected() {
	h.sel.SelectCustom()
}

// PickerInput updates the color from the picker; nothing is sent
func (h *Handlers) PickerInput(hex string) error {
	return h.sel.SelectFromHex(hex)
}

// TurnOn sends the current selection
func (h *Handlers) TurnOn() *Action {
	r, g, b := h.sel.RGB()
	return onAction(r, g, b)
}

// SaveAlarm sends the schedule. Both times must be present and valid,
// otherwise there is nothing to save.
func (h *Handlers) SaveAlarm(form reconcile.Form) *Action {
	if form.StartTime == "" || form.EndTime == "" {
		return nil
	}
	hour, min, err := timemath.SplitClock(form.StartTime)
	if err != nil {
		return nil
	}
	duration, err := timemath.RampDuration(form.StartTime, form.EndTime)
	if err != nil {
		return nil
	}

	return &Action{
		Kind:            KindSaveAlarm,
		Request:         device.ScheduleUpdate(hour, min, duration, form.Enabled).Request(),
		Ack:             AckText,
		RepollOnSuccess: true,
	}
}

// StartRamp begins a ramp lasting the form's duration, or an hour when the
// form does not give one
func (h *Handlers) StartRamp(form reconcile.Form) *Action {
	duration, ok := form.RampDuration()
	if !ok {
		duration = timemath.DefaultRampDuration
	}
	return &Action{
		Kind:        KindStart,
		Request:     device.StartRequest(duration),
		RepollAfter: StartSettle,
	}
}

// Stop halts the ramp and turns the light off
func (h *Handlers) Stop() *Action {
	return &Action{
		Kind:        KindStop,
		Request:     device.StopRequest(),
		RepollAfter: StopSettle,
	}
}

// SaveSettings sends only the UTC offset, converted to seconds
func (h *Handlers) SaveSettings(form reconcile.Form) *Action {
	return &Action{
		Kind:    KindSaveSettings,
		Request: device.OffsetUpdate(device.OffsetHoursToSeconds(form.UTCOffsetHours)).Request(),
		Ack:     AckText,
	}
}

// UTC offsets the settings field accepts, in hours
const (
	MinOffsetHours = -12
	MaxOffsetHours = 14
)

// ValidOffsetHours reports whether h is an offset the device can be set to
func ValidOffsetHours(h int) bool {
	return h >= MinOffsetHours && h <= MaxOffsetHours
}

func onAction(r, g, b uint8) *Action {
	return &Action{Kind: KindOn, Request: device.OnRequest(r, g, b)}
}
