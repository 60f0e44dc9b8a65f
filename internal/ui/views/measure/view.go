package measure

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	measuredto "skytools/internal/modules/measure/dto"
	"skytools/internal/ui/theme"
)

// imagePrefix marks input as an image path to scan instead of QR text.
const imagePrefix = "@"

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Current(ctx context.Context) (measuredto.MeasurementOutput, error)
	SubmitText(ctx context.Context, text string) (measuredto.MeasurementOutput, error)
	SubmitImage(ctx context.Context, imagePath string) (measuredto.MeasurementOutput, error)
	Reset(ctx context.Context) (measuredto.MeasurementOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// UpdatedMsg carries the measurement slot after any port call.
type UpdatedMsg struct {
	Measurement measuredto.MeasurementOutput
	Action      string
	Err         error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port        Port
	input       textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model
	measurement measuredto.MeasurementOutput
	expanded    map[string]bool
	busy        bool
	fault       string
	width       int
	height      int
}

func New(port Port) Model {
	ti := textinput.New()
	ti.Placeholder = "paste QR text or link, or @path/to/qr.png"
	ti.CharLimit = 8192
	ti.Prompt = "› "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:     port,
		input:    ti,
		spinner:  sp,
		viewport: viewport.New(0, 0),
		expanded: map[string]bool{},
	}
}

func (m Model) Init() tea.Cmd {
	if m.port == nil {
		return nil
	}
	return m.call("load", func(ctx context.Context) (measuredto.MeasurementOutput, error) {
		return m.port.Current(ctx)
	})
}

// Editing reports whether the input has focus; global keys must yield then.
func (m Model) Editing() bool { return m.input.Focused() }

func (m Model) Busy() bool { return m.busy }

func (m Model) Measurement() measuredto.MeasurementOutput { return m.measurement }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(m.width-6, 10)
		m.viewport.Width = m.width
		m.viewport.Height = max(m.height-4, 1)
		m.viewport.SetContent(m.renderReport())

	case UpdatedMsg:
		m.busy = false
		m.fault = ""
		if msg.Err != nil {
			m.fault = msg.Err.Error()
		}
		if msg.Measurement.State != "" {
			m.measurement = msg.Measurement
			m.seedExpanded()
		}
		m.viewport.SetContent(m.renderReport())
		if msg.Action != "load" {
			m.viewport.GotoTop()
		}

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if m.input.Focused() {
			switch msg.String() {
			case "esc":
				m.input.Blur()
				return m, nil
			case "enter":
				value := m.input.Value()
				m.input.SetValue("")
				m.input.Blur()
				return m, m.Submit(value)
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "i", "/":
			return m, m.input.Focus()
		case "r":
			return m, m.Reset()
		case "x":
			m.toggle("extra")
		case "a":
			m.toggle("advanced")
		}
	}

	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

// Submit decodes raw text, or scans the image when raw starts with "@".
// Blank text is still submitted so the controller records its prompt.
func (m *Model) Submit(raw string) tea.Cmd {
	if m.port == nil || m.busy {
		return nil
	}
	trimmed := strings.TrimSpace(raw)
	if path, ok := strings.CutPrefix(trimmed, imagePrefix); ok && strings.TrimSpace(path) != "" {
		return m.start("scan", func(ctx context.Context) (measuredto.MeasurementOutput, error) {
			return m.port.SubmitImage(ctx, strings.TrimSpace(path))
		})
	}
	return m.start("decode", func(ctx context.Context) (measuredto.MeasurementOutput, error) {
		return m.port.SubmitText(ctx, raw)
	})
}

// Reset is allowed while a decode is in flight; the late result is discarded.
func (m *Model) Reset() tea.Cmd {
	if m.port == nil {
		return nil
	}
	m.busy = false
	return m.call("reset", func(ctx context.Context) (measuredto.MeasurementOutput, error) {
		return m.port.Reset(ctx)
	})
}

func (m *Model) Refresh() tea.Cmd {
	if m.port == nil {
		return nil
	}
	return m.call("load", func(ctx context.Context) (measuredto.MeasurementOutput, error) {
		return m.port.Current(ctx)
	})
}

func (m Model) View() string {
	header := m.renderHeader()
	inputBox := theme.Pane.Width(max(m.width-2, 20)).Render(m.input.View())
	if m.input.Focused() {
		inputBox = theme.PaneActive.Width(max(m.width-2, 20)).Render(m.input.View())
	}
	used := lipgloss.Height(header) + lipgloss.Height(inputBox)
	vp := m.viewport
	vp.Height = max(m.height-used, 1)

	if m.busy {
		waiting := lipgloss.Place(m.width, vp.Height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Decoding…")
		return lipgloss.JoinVertical(lipgloss.Left, header, inputBox, waiting)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, inputBox, vp.View())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) start(action string, fn func(context.Context) (measuredto.MeasurementOutput, error)) tea.Cmd {
	m.busy = true
	return tea.Batch(m.call(action, fn), m.spinner.Tick)
}

func (m Model) call(action string, fn func(context.Context) (measuredto.MeasurementOutput, error)) tea.Cmd {
	return func() tea.Msg {
		out, err := fn(context.Background())
		return UpdatedMsg{Measurement: out, Action: action, Err: err}
	}
}

func (m *Model) seedExpanded() {
	for _, section := range m.measurement.Sections {
		if _, ok := m.expanded[section.ID]; !ok {
			m.expanded[section.ID] = section.DefaultOpen
		}
	}
}

func (m *Model) toggle(sectionID string) {
	m.expanded[sectionID] = !m.expanded[sectionID]
	m.viewport.SetContent(m.renderReport())
}

func (m Model) renderHeader() string {
	parts := []string{theme.Title.Render("Measure")}
	switch {
	case m.busy:
		parts = append(parts, theme.Hot.Render("decoding"))
	case m.measurement.HasMeasurement:
		parts = append(parts, theme.Good.Render("decoded"))
		if m.measurement.FileName != "" {
			parts = append(parts, theme.Muted.Render(m.measurement.FileName))
		}
	default:
		parts = append(parts, theme.Muted.Render("idle"))
	}
	nav := theme.Muted.Render("  i: input  r: reset  x/a: more/advanced  ↑/↓: scroll")
	return strings.Join(parts, "  ") + nav + "\n"
}

func (m Model) renderReport() string {
	var b strings.Builder
	if m.fault != "" {
		b.WriteString(theme.Bad.Render("Error: "+m.fault) + "\n")
	}
	if m.measurement.Error != "" {
		b.WriteString(theme.Bad.Render(m.measurement.Error) + "\n")
	}
	if !m.measurement.HasMeasurement {
		b.WriteString(theme.Muted.Render("No measurement yet. Paste the outfit QR text or link, or scan a screenshot.") + "\n")
		if m.measurement.State == "" {
			return b.String()
		}
	} else {
		b.WriteString(theme.Muted.Render(fmt.Sprintf("scale %g  height %g  via %s", m.measurement.Scale, m.measurement.Height, m.measurement.Strategy)) + "\n")
	}

	for _, section := range m.measurement.Sections {
		marker := "▸"
		if m.expanded[section.ID] {
			marker = "▾"
		}
		b.WriteString(theme.Section.Render(marker+" "+section.Title) + "\n")
		if !m.expanded[section.ID] {
			continue
		}
		for _, metric := range section.Metrics {
			b.WriteString("  " + theme.MetricLabel.Render(metric.Label) + theme.MetricValue.Render(metric.Value) + "\n")
		}
	}
	return b.String()
}
