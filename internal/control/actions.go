package control

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/sunrise/internal/device"
	"github.com/muurk/sunrise/internal/logging"
)

const (
	// AckText replaces a save button's label after the device accepted a save
	AckText = "Saved ✓"

	// AckDuration is how long AckText stays up
	AckDuration = 1800 * time.Millisecond

	// StartSettle is the re-poll delay after a manual ramp start
	StartSettle = 800 * time.Millisecond

	// StopSettle is the re-poll delay after a stop
	StopSettle = 500 * time.Millisecond
)

// Kind says which control produced an action
type Kind int

const (
	KindOn Kind = iota + 1
	KindStart
	KindStop
	KindSaveAlarm
	KindSaveSettings
)

func (k Kind) String() string {
	switch k {
	case KindOn:
		return "on"
	case KindStart:
		return "start"
	case KindStop:
		return "stop"
	case KindSaveAlarm:
		return "save-alarm"
	case KindSaveSettings:
		return "save-settings"
	default:
		return "unknown"
	}
}

// Action is one device request plus what the UI does afterwards
type Action struct {
	Kind    Kind
	Request device.Request

	// Ack is shown for AckDuration when the request succeeds
	Ack string

	// RepollOnSuccess asks for an immediate status fetch after success
	RepollOnSuccess bool

	// RepollAfter schedules a status fetch after the delay, whatever the
	// outcome. Zero means no delayed fetch.
	RepollAfter time.Duration
}

// Caller sends a request and reports success. *device.Client implements it.
type Caller interface {
	Call(ctx context.Context, req device.Request) bool
}

// Outcome is the result of running an Action
type Outcome struct {
	Action Action
	OK     bool
}

// ShowAck reports whether the acknowledgement label should be displayed
func (o Outcome) ShowAck() bool {
	return o.OK && o.Action.Ack != ""
}

// RepollNow reports whether an immediate status fetch is due
func (o Outcome) RepollNow() bool {
	return o.OK && o.Action.RepollOnSuccess
}

// Execute runs the action's request through caller
func Execute(ctx context.Context, caller Caller, a Action) Outcome {
	ok := caller.Call(ctx, a.Request)
	logging.Debug("Action executed",
		zap.Stringer("kind", a.Kind),
		zap.Stringer("request", a.Request),
		zap.Bool("ok", ok),
	)
	return Outcome{Action: a, OK: ok}
}
