package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/sunrise/internal/colormodel"
	"github.com/muurk/sunrise/internal/reconcile"
	"github.com/muurk/sunrise/internal/version"
)

// Application branding constants
const (
	AppName   = "SUNRISE"
	GitHubURL = "github.com/muurk/sunrise"
)

// Layout constants
const (
	MinTerminalWidth = 60
	contentWidth     = 56
	labelWidth       = 16
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#FF7A3C") // Sunrise orange
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFB347") // Amber
	ErrorColor     = lipgloss.Color("#FF5555") // Red

	TextColor       = lipgloss.Color("#FFFFFF")
	SubtleColor     = lipgloss.Color("#626262")
	BorderColor     = lipgloss.Color("#FF7A3C")
	HighlightColor  = lipgloss.Color("#FFD27F") // Morning yellow
	BackgroundColor = lipgloss.Color("#1A1A1A")
)

// indicatorColors maps each status state to its dot color
var indicatorColors = map[reconcile.State]lipgloss.Color{
	reconcile.StateUnreachable: ErrorColor,
	reconcile.StateConnecting:  SubtleColor,
	reconcile.StateFading:      PrimaryColor,
	reconcile.StateArmed:       SecondaryColor,
	reconcile.StateIdle:        SubtleColor,
}

var (
	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	AckStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	NoteStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Italic(true)

	ClockStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)
)

// RenderIndicator renders the status dot and label
func RenderIndicator(ind reconcile.Indicator) string {
	color, ok := indicatorColors[ind.State]
	if !ok {
		color = SubtleColor
	}
	dot := lipgloss.NewStyle().Foreground(color).Render("●")
	return dot + " " + lipgloss.NewStyle().Foreground(TextColor).Render(ind.Label)
}

// RenderSwatch renders one color chip, bracketed when active
func RenderSwatch(label, hex string, active, selected bool) string {
	chip := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
	text := label
	style := lipgloss.NewStyle().Foreground(SubtleColor)
	if active {
		text = "[" + label + "]"
		style = style.Foreground(TextColor).Bold(true)
	}
	if selected {
		style = style.Foreground(HighlightColor).Underline(true)
	}
	return chip + " " + style.Render(text)
}

// RenderColorBlock renders a solid block of the given color
func RenderColorBlock(hex string, width int) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render(strings.Repeat(" ", width))
}

// RenderRampPreview paints the fixed sunrise gradient, one cell per column
func RenderRampPreview(width int) string {
	var b strings.Builder
	for _, hex := range colormodel.RampGradient(width) {
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render(" "))
	}
	return b.String()
}

// BuildHeaderContent creates header content with app name and device address
func BuildHeaderContent(address string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + version.Version)

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(address)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// RenderApplicationContainer wraps a screen with the header, a footer
// holding help text, and an outer border that fills the terminal.
func RenderApplicationContainer(header, content, footer string, width, height int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(width-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Foreground(SubtleColor).
		Width(width-4).
		Padding(0, 1)

	inner := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(header),
		lipgloss.NewStyle().Width(width-4).Padding(0, 1).Render(content),
		footerStyle.Render(footer),
	)

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(width - 2)
	if height > 2 {
		borderStyle = borderStyle.Height(height - 2).AlignVertical(lipgloss.Top)
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, borderStyle.Render(inner))
}
