package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"skytools/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

// Command is one palette entry. Arg names the argument in usage text; an
// empty Arg means the command takes none.
type Command struct {
	Name    string
	Aliases []string
	Arg     string
	Help    string
}

func (c Command) Usage() string {
	if c.Arg == "" {
		return c.Name
	}
	return c.Name + " <" + c.Arg + ">"
}

// Commands is the palette vocabulary; app/model.go executes each Name.
var Commands = []Command{
	{Name: "decode", Aliases: []string{"d"}, Arg: "text or link", Help: "decode pasted QR text"},
	{Name: "scan", Aliases: []string{"s"}, Arg: "image path", Help: "read the QR code from a screenshot"},
	{Name: "reset", Help: "start a new measurement"},
	{Name: "refresh", Help: "reload the saved measurement"},
	{Name: "guide:next", Aliases: []string{"next"}, Help: "next guide step"},
	{Name: "guide:prev", Aliases: []string{"prev"}, Help: "previous guide step"},
	{Name: "guide:goto", Aliases: []string{"goto"}, Arg: "step", Help: "jump to a guide step"},
}

// ParseCommand splits input into a known command and the rest of the line.
// Aliases resolve to their command.
func ParseCommand(input string) (Command, string, bool) {
	input = strings.TrimSpace(input)
	word, rest, _ := strings.Cut(input, " ")
	word = strings.ToLower(word)
	for _, c := range Commands {
		if c.Name == word {
			return c, strings.TrimSpace(rest), true
		}
		for _, alias := range c.Aliases {
			if alias == word {
				return c, strings.TrimSpace(rest), true
			}
		}
	}
	return Command{}, strings.TrimSpace(rest), false
}

// matchCommands returns commands whose name starts with the typed first word.
// Once an argument is being typed only the exact command stays listed.
func matchCommands(input string) []Command {
	word, _, hasArg := strings.Cut(strings.TrimLeft(strings.ToLower(input), " "), " ")
	if hasArg {
		if c, _, ok := ParseCommand(word); ok {
			return []Command{c}
		}
		return nil
	}
	var out []Command
	for _, c := range Commands {
		if strings.HasPrefix(c.Name, word) {
			out = append(out, c)
		}
	}
	return out
}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	usageStyle = lipgloss.NewStyle().Foreground(theme.Lavender).Width(30)
	hintStyle  = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

type Palette struct {
	input   textinput.Model
	visible bool
	width   int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "decode, scan, reset, guide:goto 3…"
	ti.CharLimit = 8192
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

func (p Palette) Value() string { return p.input.Value() }

// Open shows an empty palette and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			p.complete()
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// complete fills in the command name when exactly one command matches.
func (p *Palette) complete() {
	value := p.input.Value()
	if strings.Contains(strings.TrimLeft(value, " "), " ") {
		return
	}
	matches := matchCommands(value)
	if len(matches) != 1 {
		return
	}
	completed := matches[0].Name
	if matches[0].Arg != "" {
		completed += " "
	}
	p.input.SetValue(completed)
	p.input.CursorEnd()
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if matching := matchCommands(p.input.Value()); len(matching) > 0 {
		sb.WriteString("\n")
		for _, c := range matching {
			sb.WriteString("  " + usageStyle.Render(c.Usage()) + hintStyle.Render(c.Help) + "\n")
		}
	} else {
		sb.WriteString("\n" + theme.Bad.Render("  no matching command") + "\n")
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
