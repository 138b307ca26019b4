package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerTitleStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	headerCommandStyle = lipgloss.NewStyle().
				Foreground(MutedColor)

	headerParamKeyStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Width(12)
)

// Header is the box printed before a one-shot command talks to the device
type Header struct {
	Title   string   // e.g., "Set alarm"
	Command string   // e.g., "sunrise set-alarm"
	Params  []Detail // printed in order
	Width   int
}

// NewHeader creates a header
func NewHeader(title, command string, params ...Detail) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// Render returns the styled header
func (h *Header) Render() string {
	width := clampWidth(h.Width)

	top := lipgloss.JoinVertical(lipgloss.Left,
		headerTitleStyle.Render(strings.ToUpper(h.Title)),
		headerCommandStyle.Render(h.Command),
	)

	content := top
	if len(h.Params) > 0 {
		dividerWidth := width - 6
		if dividerWidth < 10 {
			dividerWidth = 10
		}
		divider := lipgloss.NewStyle().Foreground(PrimaryColor).Render(strings.Repeat("─", dividerWidth))

		lines := make([]string, 0, len(h.Params))
		for _, p := range h.Params {
			lines = append(lines, headerParamKeyStyle.Render(p.Key+":")+" "+p.Value)
		}
		content = lipgloss.JoinVertical(lipgloss.Left, top, divider, strings.Join(lines, "\n"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Render(content)
}

// Plain renders the header without styling
func (h *Header) Plain() string {
	var b strings.Builder
	b.WriteString(h.Title + " (" + h.Command + ")\n")
	for _, p := range h.Params {
		b.WriteString("  " + p.Key + ": " + p.Value + "\n")
	}
	return b.String()
}
