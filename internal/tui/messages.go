package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/sunrise/internal/control"
	"github.com/muurk/sunrise/internal/poller"
)

// actionTimeout bounds a single user action against the device
const actionTimeout = 10 * time.Second

// statusMsg carries one poll cycle from the poller goroutine
type statusMsg struct {
	result poller.Result
}

// unreachableMsg is sent by the client hook when a user action fails
type unreachableMsg struct {
	err error
}

// actionDoneMsg reports the outcome of a device action
type actionDoneMsg struct {
	outcome control.Outcome
}

// ackExpiredMsg clears a "Saved ✓" label. seq guards against clearing a
// newer acknowledgement for the same button.
type ackExpiredMsg struct {
	kind control.Kind
	seq  int
}

// StatusMsg wraps a poll result for delivery through tea.Program.Send
func StatusMsg(r poller.Result) tea.Msg {
	return statusMsg{result: r}
}

// UnreachableMsg wraps a failed action for delivery through tea.Program.Send
func UnreachableMsg(err error) tea.Msg {
	return unreachableMsg{err: err}
}

// runActionCmd executes a device action off the UI goroutine
func runActionCmd(caller control.Caller, a control.Action) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return actionDoneMsg{outcome: control.Execute(ctx, caller, a)}
	}
}

// ackExpireCmd fires when an acknowledgement should be taken down
func ackExpireCmd(kind control.Kind, seq int) tea.Cmd {
	return tea.Tick(control.AckDuration, func(time.Time) tea.Msg {
		return ackExpiredMsg{kind: kind, seq: seq}
	})
}
