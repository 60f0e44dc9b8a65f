package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	guidedto "skytools/internal/modules/guide/dto"
	measuredto "skytools/internal/modules/measure/dto"
	"skytools/internal/ui/components"
	"skytools/internal/ui/theme"
	guideview "skytools/internal/ui/views/guide"
	measureview "skytools/internal/ui/views/measure"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type measurePort interface {
	Current(ctx context.Context) (measuredto.MeasurementOutput, error)
	SubmitText(ctx context.Context, text string) (measuredto.MeasurementOutput, error)
	SubmitImage(ctx context.Context, imagePath string) (measuredto.MeasurementOutput, error)
	Reset(ctx context.Context) (measuredto.MeasurementOutput, error)
}

type guidePort interface {
	Current(ctx context.Context) (guidedto.SlideOutput, error)
	Next(ctx context.Context) (guidedto.SlideOutput, error)
	Prev(ctx context.Context) (guidedto.SlideOutput, error)
	Goto(ctx context.Context, index int) (guidedto.SlideOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabMeasure tabID = iota
	tabGuide
	tabCount
)

var tabLabels = [tabCount]string{"Measure", "Guide"}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Input   key.Binding
	Reset   key.Binding
	Expand  key.Binding
	Slides  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Input:   key.NewBinding(key.WithKeys("i", "/"), key.WithHelp("i", "paste QR text / @image")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "measure another")),
		Expand:  key.NewBinding(key.WithKeys("x", "a"), key.WithHelp("x/a", "more/advanced")),
		Slides:  key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "guide slides")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Input, k.Reset, k.Expand},
		{k.Slides},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It routes tabs, the help overlay and
// the command palette; the views own rendering and port calls.
type Model struct {
	measureView measureview.Model
	guideView   guideview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(measure measurePort, guide guidePort) Model {
	var mv measureview.Model
	if measure != nil {
		mv = measureview.New(measurePortBridge{p: measure})
	} else {
		mv = measureview.New(nil)
	}
	var gv guideview.Model
	if guide != nil {
		gv = guideview.New(guidePortBridge{p: guide})
	} else {
		gv = guideview.New(nil)
	}
	return Model{
		measureView: mv,
		guideView:   gv,
		activeTab:   tabMeasure,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.measureView.Init(), m.guideView.Init())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() && !isResult(msg) {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	// Results are routed to their view regardless of the active tab.
	case measureview.UpdatedMsg:
		m.status = measureStatus(msg)
		var cmd tea.Cmd
		m.measureView, cmd = m.measureView.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.measureView, cmd = m.measureView.Update(msg)
		return m, cmd

	case guideview.SlideMsg:
		if msg.Err == nil && msg.Slide.Total > 0 {
			m.status = "guide: " + msg.Slide.Step
		}
		var cmd tea.Cmd
		m.guideView, cmd = m.guideView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabMeasure && m.measureView.Editing() {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case tabMeasure:
		m.measureView, cmd = m.measureView.Update(msg)
	case tabGuide:
		m.guideView, cmd = m.guideView.Update(msg)
	}
	return m, cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabGuide:
		content = m.guideView.View()
	default:
		content = m.measureView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "skytools  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if current := m.measureView.Measurement(); current.HasMeasurement && len(current.Sections) > 0 && len(current.Sections[0].Metrics) > 0 {
		left = theme.Good.Render("● "+current.Sections[0].Metrics[0].Value) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	command, arg, ok := components.ParseCommand(input)
	if !ok {
		m.status = "unknown command: " + strings.Fields(input)[0]
		return m, nil
	}

	switch command.Name {
	case "decode":
		m.activeTab = tabMeasure
		return m, m.measureView.Submit(arg)

	case "scan":
		if arg == "" {
			m.status = "usage: " + command.Usage()
			return m, nil
		}
		m.activeTab = tabMeasure
		return m, m.measureView.Submit("@" + arg)

	case "reset":
		m.activeTab = tabMeasure
		return m, m.measureView.Reset()

	case "refresh":
		return m, m.measureView.Refresh()

	case "guide:next":
		m.activeTab = tabGuide
		return m, m.guideView.Next()

	case "guide:prev":
		m.activeTab = tabGuide
		return m, m.guideView.Prev()

	case "guide:goto":
		step, err := strconv.Atoi(arg)
		if err != nil {
			m.status = "usage: " + command.Usage()
			return m, nil
		}
		m.activeTab = tabGuide
		return m, m.guideView.Goto(step - 1)
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.measureView, _ = m.measureView.Update(sz)
	m.guideView, _ = m.guideView.Update(sz)
}

// isResult reports whether msg completes a port call; those bypass the
// palette so a view never stays busy.
func isResult(msg tea.Msg) bool {
	switch msg.(type) {
	case measureview.UpdatedMsg, guideview.SlideMsg:
		return true
	}
	return false
}

func measureStatus(msg measureview.UpdatedMsg) string {
	switch {
	case msg.Err != nil:
		return msg.Action + " failed: " + msg.Err.Error()
	case msg.Measurement.Error != "":
		return msg.Action + ": " + msg.Measurement.Error
	case msg.Action == "reset":
		return "ready for another measurement"
	case msg.Measurement.HasMeasurement && msg.Action != "load":
		return "decoded via " + msg.Measurement.Strategy
	case msg.Measurement.HasMeasurement:
		return "measurement restored"
	}
	return "ready"
}

// ─── port bridges ─────────────────────────────────────────────────────────────

type measurePortBridge struct{ p measurePort }

func (b measurePortBridge) Current(ctx context.Context) (measuredto.MeasurementOutput, error) {
	return b.p.Current(ctx)
}
func (b measurePortBridge) SubmitText(ctx context.Context, text string) (measuredto.MeasurementOutput, error) {
	return b.p.SubmitText(ctx, text)
}
func (b measurePortBridge) SubmitImage(ctx context.Context, path string) (measuredto.MeasurementOutput, error) {
	return b.p.SubmitImage(ctx, path)
}
func (b measurePortBridge) Reset(ctx context.Context) (measuredto.MeasurementOutput, error) {
	return b.p.Reset(ctx)
}

type guidePortBridge struct{ p guidePort }

func (b guidePortBridge) Current(ctx context.Context) (guidedto.SlideOutput, error) {
	return b.p.Current(ctx)
}
func (b guidePortBridge) Next(ctx context.Context) (guidedto.SlideOutput, error) {
	return b.p.Next(ctx)
}
func (b guidePortBridge) Prev(ctx context.Context) (guidedto.SlideOutput, error) {
	return b.p.Prev(ctx)
}
func (b guidePortBridge) Goto(ctx context.Context, index int) (guidedto.SlideOutput, error) {
	return b.p.Goto(ctx, index)
}
