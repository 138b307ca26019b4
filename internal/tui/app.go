package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/sunrise/internal/control"
	"github.com/muurk/sunrise/internal/device"
	"github.com/muurk/sunrise/internal/poller"
	"github.com/muurk/sunrise/internal/ui"
)

// Options configures a dashboard session
type Options struct {
	Client       *device.Client
	Address      string
	PollInterval time.Duration
}

// InitialSize is the terminal size used until the first WindowSizeMsg
func InitialSize() (int, int) {
	return ui.GetTerminalSize()
}

// Run opens the dashboard and blocks until the user quits or ctx is done.
// The status poller runs for exactly as long as the program does.
func Run(ctx context.Context, opts Options) error {
	if opts.Client == nil {
		return errors.New("dashboard needs a device client")
	}

	var program *tea.Program

	poll := poller.New(opts.Client, func(r poller.Result) {
		program.Send(StatusMsg(r))
	}, poller.WithInterval(opts.PollInterval))

	model := NewModel(opts.Address, opts.Client, control.NewHandlers(nil), poll)
	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Left installed after Run returns: actions still in flight may call it.
	opts.Client.OnUnreachable = forwardUnreachable(program)

	pollCtx, stopPolling := context.WithCancel(ctx)
	defer stopPolling()
	go func() { _ = poll.Run(pollCtx) }()

	_, err := program.Run()
	stopPolling()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// forwardUnreachable turns client failures into messages. Send returns
// immediately once the program has finished, so the hook is safe to call
// from commands that outlive it.
func forwardUnreachable(program *tea.Program) func(error) {
	return func(err error) {
		program.Send(UnreachableMsg(err))
	}
}
