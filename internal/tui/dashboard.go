package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/sunrise/internal/colormodel"
	"github.com/muurk/sunrise/internal/control"
	"github.com/muurk/sunrise/internal/logging"
	"github.com/muurk/sunrise/internal/reconcile"
	"github.com/muurk/sunrise/internal/timemath"
)

// row is a cursor position on the dashboard
type row int

const (
	rowSwatches row = iota
	rowPicker
	rowOn
	rowRamp
	rowStop
	rowStart
	rowEnd
	rowEnabled
	rowSaveAlarm
	rowOffset
	rowSaveSettings
	rowCount
)

// Repoller asks for out-of-band status fetches. *poller.Poller satisfies it.
type Repoller interface {
	Trigger()
	TriggerAfter(d time.Duration) *time.Timer
}

// Model is the sunrise dashboard
type Model struct {
	// Address is shown in the header
	Address string

	caller   control.Caller
	handlers *control.Handlers
	repoll   Repoller

	// view is the reconciled state; only Update writes it
	view reconcile.View

	Width  int
	Height int

	// Navigation
	cursor       row
	swatchCursor int

	// Inline editing of the row under the cursor
	editing bool
	input   textinput.Model
	note    string // validation message for the last commit

	// Per-button acknowledgements ("Saved ✓")
	alarmAck       string
	alarmAckSeq    int
	settingsAck    string
	settingsAckSeq int

	pending int // actions in flight

	spinner spinner.Model
	bar     progress.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates the dashboard. caller runs device actions and repoll
// receives re-poll requests; either may be nil in tests.
func NewModel(address string, caller control.Caller, handlers *control.Handlers, repoll Repoller) Model {
	if handlers == nil {
		handlers = control.NewHandlers(nil)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	bar := progress.New(
		progress.WithGradient("#3d0000", "#ff3c0a"),
		progress.WithoutPercentage(),
	)
	bar.Width = 40

	input := textinput.New()
	input.CharLimit = 7
	input.Width = 12

	width, height := InitialSize()

	return Model{
		Address:  address,
		caller:   caller,
		handlers: handlers,
		repoll:   repoll,
		view:     reconcile.NewView(reconcile.Form{}),
		Width:    width,
		Height:   height,
		cursor:   rowSwatches,
		input:    input,
		spinner:  s,
		bar:      bar,
		help:     help.New(),
		keys:     defaultKeyMap(),
	}
}

// Init starts the connecting spinner
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// ReconciledView returns the current reconciled state
func (m Model) ReconciledView() reconcile.View {
	return m.view
}

// Focus maps the cursor to the reconciler's focus value. The editable row
// under the cursor counts as focused whether or not it is being edited, and
// a Save row holds every field of its section so a poll cannot revert an
// edit on the way to saving it.
func (m Model) Focus() reconcile.Focus {
	switch m.cursor {
	case rowStart:
		return reconcile.Editing(reconcile.FieldStart)
	case rowEnd:
		return reconcile.Editing(reconcile.FieldEnd)
	case rowEnabled:
		return reconcile.Editing(reconcile.FieldEnabled)
	case rowOffset, rowSaveSettings:
		return reconcile.Editing(reconcile.FieldUTCOffset)
	case rowSaveAlarm:
		return reconcile.Editing(reconcile.FieldStart, reconcile.FieldEnd, reconcile.FieldEnabled)
	default:
		return reconcile.Idle()
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case statusMsg:
		if msg.result.OK() {
			m.view = reconcile.Apply(m.view, msg.result.Status, m.Focus())
		} else {
			m.view = reconcile.Fail(m.view)
		}
		return m, nil

	case unreachableMsg:
		logging.Debug("Device unreachable", zap.Error(msg.err))
		m.view = reconcile.Unreachable(m.view)
		return m, nil

	case actionDoneMsg:
		return m.finishAction(msg.outcome)

	case ackExpiredMsg:
		switch {
		case msg.kind == control.KindSaveAlarm && msg.seq == m.alarmAckSeq:
			m.alarmAck = ""
		case msg.kind == control.KindSaveSettings && msg.seq == m.settingsAckSeq:
			m.settingsAck = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateNormalMode(msg)
	}

	return m, nil
}

// updateNormalMode handles keys while navigating
func (m Model) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Tab):
		// Jump between section starts: light → alarm → settings
		switch {
		case m.cursor < rowStart:
			m.cursor = rowStart
		case m.cursor < rowOffset:
			m.cursor = rowOffset
		default:
			m.cursor = rowSwatches
		}

	case key.Matches(msg, m.keys.Left):
		return m.nudge(-1), nil

	case key.Matches(msg, m.keys.Right):
		return m.nudge(1), nil

	case key.Matches(msg, m.keys.On):
		return m.dispatch(m.handlers.TurnOn())

	case key.Matches(msg, m.keys.Ramp):
		return m.dispatch(m.handlers.StartRamp(m.view.Form))

	case key.Matches(msg, m.keys.Stop):
		return m.dispatch(m.handlers.Stop())

	case key.Matches(msg, m.keys.Enter):
		return m.activate()
	}

	return m, nil
}

// moveCursor steps up or down, skipping the picker row while it is hidden
func (m *Model) moveCursor(delta int) {
	next := m.cursor
	for {
		next = (next + row(delta) + rowCount) % rowCount
		if next != rowPicker || m.handlers.Selection().PickerVisible {
			break
		}
	}
	m.cursor = next
	m.note = ""
}

// nudge handles left/right on rows that have a horizontal meaning
func (m Model) nudge(delta int) Model {
	switch m.cursor {
	case rowSwatches:
		n := len(colormodel.SwatchIDs())
		m.swatchCursor = (m.swatchCursor + delta + n) % n
	case rowOffset:
		form := m.view.Form
		h := form.UTCOffsetHours + delta
		if control.ValidOffsetHours(h) {
			form.UTCOffsetHours = h
			m.view = reconcile.WithForm(m.view, form)
		}
	}
	return m
}

// activate handles enter on the row under the cursor
func (m Model) activate() (tea.Model, tea.Cmd) {
	m.note = ""
	form := m.view.Form

	switch m.cursor {
	case rowSwatches:
		id := colormodel.SwatchIDs()[m.swatchCursor]
		if id == colormodel.CustomSwatchID {
			m.handlers.CustomSelected()
			m.cursor = rowPicker
			return m, nil
		}
		action, err := m.handlers.PresetSelected(id)
		if err != nil {
			m.note = err.Error()
			return m, nil
		}
		return m.dispatch(action)

	case rowPicker:
		return m.startEditing(m.handlers.Selection().Hex())

	case rowOn:
		return m.dispatch(m.handlers.TurnOn())

	case rowRamp:
		return m.dispatch(m.handlers.StartRamp(form))

	case rowStop:
		return m.dispatch(m.handlers.Stop())

	case rowStart:
		return m.startEditing(form.StartTime)

	case rowEnd:
		return m.startEditing(form.EndTime)

	case rowEnabled:
		form.Enabled = !form.Enabled
		m.view = reconcile.WithForm(m.view, form)
		return m, nil

	case rowSaveAlarm:
		action := m.handlers.SaveAlarm(form)
		if action == nil {
			m.note = "Set both start and end time first"
			return m, nil
		}
		return m.dispatch(action)

	case rowOffset:
		return m.startEditing(strconv.Itoa(form.UTCOffsetHours))

	case rowSaveSettings:
		return m.dispatch(m.handlers.SaveSettings(form))
	}

	return m, nil
}

func (m Model) startEditing(value string) (tea.Model, tea.Cmd) {
	m.editing = true
	m.input.SetValue(value)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

// updateEditing handles keys while a text field is open
func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.input.Blur()
		return m.commit(strings.TrimSpace(m.input.Value())), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// commit validates an edited value. Invalid input leaves the field as it
// was and sets a note.
func (m Model) commit(value string) Model {
	form := m.view.Form

	switch m.cursor {
	case rowPicker:
		if err := m.handlers.PickerInput(value); err != nil {
			m.note = "Invalid color, expected #rrggbb"
		}
		return m

	case rowStart, rowEnd:
		clock := ""
		if value != "" {
			ms, err := timemath.ParseClock(value)
			if err != nil {
				m.note = "Invalid time, expected HH:MM"
				return m
			}
			clock = timemath.FormatMs(ms)
		}
		if m.cursor == rowStart {
			form.StartTime = clock
		} else {
			form.EndTime = clock
		}

	case rowOffset:
		h, err := strconv.Atoi(strings.TrimPrefix(value, "+"))
		if err != nil || !control.ValidOffsetHours(h) {
			m.note = fmt.Sprintf("Offset must be a whole number of hours (%d to %+d)", control.MinOffsetHours, control.MaxOffsetHours)
			return m
		}
		form.UTCOffsetHours = h
	}

	m.view = reconcile.WithForm(m.view, form)
	return m
}

// dispatch runs an action as a command and schedules any delayed re-poll
func (m Model) dispatch(action *control.Action) (tea.Model, tea.Cmd) {
	if action == nil || m.caller == nil {
		return m, nil
	}
	m.pending++
	if action.RepollAfter > 0 && m.repoll != nil {
		m.repoll.TriggerAfter(action.RepollAfter)
	}
	return m, runActionCmd(m.caller, *action)
}

// finishAction applies an action's follow-ups
func (m Model) finishAction(out control.Outcome) (tea.Model, tea.Cmd) {
	if m.pending > 0 {
		m.pending--
	}
	if out.RepollNow() && m.repoll != nil {
		m.repoll.Trigger()
	}
	if !out.ShowAck() {
		return m, nil
	}

	switch out.Action.Kind {
	case control.KindSaveAlarm:
		m.alarmAckSeq++
		m.alarmAck = out.Action.Ack
		return m, ackExpireCmd(control.KindSaveAlarm, m.alarmAckSeq)
	case control.KindSaveSettings:
		m.settingsAckSeq++
		m.settingsAck = out.Action.Ack
		return m, ackExpireCmd(control.KindSaveSettings, m.settingsAckSeq)
	}
	return m, nil
}

// View renders the dashboard
func (m Model) View() string {
	footer := m.help.View(m.keys)
	return RenderApplicationContainer(BuildHeaderContent(m.Address), m.renderContent(), footer, m.Width, m.Height)
}

func (m Model) renderContent() string {
	sections := []string{
		m.renderStatusLine(),
	}
	if m.view.Progress.Visible {
		sections = append(sections, "  "+m.bar.ViewAs(m.view.Progress.Fraction())+"  "+m.view.Progress.Text())
	}

	sections = append(sections,
		"",
		SectionTitleStyle.Render("LIGHT"),
		m.renderSwatches(),
	)
	if m.handlers.Selection().PickerVisible {
		sections = append(sections, m.renderPicker())
	}
	sections = append(sections,
		m.renderButtons(),
		"",
		SectionTitleStyle.Render("ALARM"),
		m.renderField("Start", m.fieldValue(rowStart, m.view.Form.StartTime), rowStart),
		m.renderField("Full brightness", m.fieldValue(rowEnd, m.view.Form.EndTime), rowEnd),
		m.renderField("Enabled", checkbox(m.view.Form.Enabled), rowEnabled),
		"  "+lipgloss.NewStyle().Foreground(SubtleColor).Render(m.view.DurationLabel),
		"  "+RenderRampPreview(contentWidth-2),
		m.renderButton(ackOr(m.alarmAck, "Save alarm"), rowSaveAlarm),
		"",
		SectionTitleStyle.Render("SETTINGS"),
		m.renderField("UTC offset", m.fieldValue(rowOffset, fmt.Sprintf("%+dh", m.view.Form.UTCOffsetHours)), rowOffset),
		m.renderButton(ackOr(m.settingsAck, "Save"), rowSaveSettings),
	)

	if m.note != "" {
		sections = append(sections, "", NoteStyle.Render("  "+m.note))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStatusLine() string {
	clock := ClockStyle.Render(m.view.Clock)
	status := RenderIndicator(m.view.Indicator)
	if m.view.Indicator.State == reconcile.StateConnecting || m.pending > 0 {
		status += " " + m.spinner.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, "  ", clock, "    ", status)
}

func (m Model) renderSwatches() string {
	sel := m.handlers.Selection()
	var chips []string
	for i, id := range colormodel.SwatchIDs() {
		hex := sel.Hex()
		label := "custom"
		if sw, ok := colormodel.LookupPreset(id); ok {
			hex = sw.Hex()
			label = sw.Label
		}
		chips = append(chips, RenderSwatch(label, hex, sel.IsActive(id), m.cursor == rowSwatches && i == m.swatchCursor))
	}
	return arrow(m.cursor == rowSwatches) + strings.Join(chips, "  ")
}

func (m Model) renderPicker() string {
	sel := m.handlers.Selection()
	value := sel.Hex()
	if m.editing && m.cursor == rowPicker {
		value = m.input.View()
	}
	return m.renderField("Custom color", value+"  "+RenderColorBlock(sel.Hex(), 6), rowPicker)
}

func (m Model) renderButtons() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderButton("On", rowOn),
		m.renderButton("Ramp", rowRamp),
		m.renderButton("Stop", rowStop),
	)
}

// renderField renders a label/value line with the selection arrow
func (m Model) renderField(label, value string, r row) string {
	selected := m.cursor == r

	labelStyle := lipgloss.NewStyle().Width(labelWidth).Foreground(SubtleColor)
	valueStyle := lipgloss.NewStyle()
	if selected {
		labelStyle = labelStyle.Foreground(HighlightColor).Bold(true)
		valueStyle = valueStyle.Foreground(HighlightColor).Bold(true)
	}

	return lipgloss.JoinHorizontal(lipgloss.Left,
		arrow(selected),
		labelStyle.Render(label),
		valueStyle.Render(value),
	)
}

func (m Model) renderButton(label string, r row) string {
	style := lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	if m.cursor == r {
		style = style.Background(PrimaryColor).Foreground(BackgroundColor)
	}
	if label == control.AckText {
		style = AckStyle
	}
	return arrow(m.cursor == r) + style.Render("["+label+"]") + " "
}

// fieldValue shows the live text input for the row being edited
func (m Model) fieldValue(r row, value string) string {
	if m.editing && m.cursor == r {
		return m.input.View()
	}
	if value == "" {
		return timemath.Placeholder
	}
	return value
}

func arrow(selected bool) string {
	if selected {
		return "→ "
	}
	return "  "
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func ackOr(ack, label string) string {
	if ack != "" {
		return ack
	}
	return label
}
