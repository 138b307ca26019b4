// Package tui implements the full-screen sunrise dashboard.
//
// The dashboard is a single Bubble Tea model. Everything that touches the
// on-screen form happens inside Update, which makes the bubbletea event loop
// the one thread of control:
//
//   - keystrokes edit the form or raise intents on control.Handlers
//   - device actions run as tea.Cmds and come back as actionDoneMsg
//   - the status poller delivers results through tea.Program.Send, and each
//     one is merged with reconcile.Apply using the focus at that moment
//
// # Focus
//
// The editable row under the cursor (start, full brightness, enabled, UTC
// offset) is treated as focused. A poll never overwrites it; move the cursor
// away and the next poll brings the device's value back.
//
// # Usage
//
//	client := device.NewClient("192.168.1.50", 80)
//	if err := tui.Run(ctx, tui.Options{Client: client, Address: "192.168.1.50:80"}); err != nil {
//	    return err
//	}
//
// Components used: bubbles/textinput for inline edits, bubbles/progress for
// the ramp card, bubbles/spinner while connecting, bubbles/help for the
// footer, lipgloss for layout.
package tui
