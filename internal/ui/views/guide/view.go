package guide

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	guidedto "skytools/internal/modules/guide/dto"
	"skytools/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Current(ctx context.Context) (guidedto.SlideOutput, error)
	Next(ctx context.Context) (guidedto.SlideOutput, error)
	Prev(ctx context.Context) (guidedto.SlideOutput, error)
	Goto(ctx context.Context, index int) (guidedto.SlideOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SlideMsg struct {
	Slide guidedto.SlideOutput
	Err   error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	viewport viewport.Model
	renderer *glamour.TermRenderer
	slide    guidedto.SlideOutput
	fault    string
	width    int
	height   int
}

func New(port Port) Model {
	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)
	return Model{port: port, viewport: viewport.New(0, 0), renderer: r}
}

func (m Model) Init() tea.Cmd {
	return m.fetch(func(ctx context.Context) (guidedto.SlideOutput, error) { return m.port.Current(ctx) })
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width
		m.viewport.Height = max(m.height-3, 1)
		if r, err := glamour.NewTermRenderer(
			glamour.WithStylePath("dark"),
			glamour.WithWordWrap(max(m.width-4, 20)),
		); err == nil {
			m.renderer = r
		}
		m.viewport.SetContent(m.renderSlide())

	case SlideMsg:
		m.fault = ""
		if msg.Err != nil {
			m.fault = msg.Err.Error()
		}
		if msg.Slide.ID != "" {
			m.slide = msg.Slide
		}
		m.viewport.SetContent(m.renderSlide())
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "right", "l", "n":
			return m, m.Next()
		case "left", "h", "p":
			return m, m.Prev()
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			return m, m.Goto(int(key[0]-'1'))
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) Next() tea.Cmd {
	return m.fetch(func(ctx context.Context) (guidedto.SlideOutput, error) { return m.port.Next(ctx) })
}

func (m Model) Prev() tea.Cmd {
	return m.fetch(func(ctx context.Context) (guidedto.SlideOutput, error) { return m.port.Prev(ctx) })
}

// Goto takes a 0-based index; out-of-range indices leave the slide unchanged.
func (m Model) Goto(index int) tea.Cmd {
	return m.fetch(func(ctx context.Context) (guidedto.SlideOutput, error) { return m.port.Goto(ctx, index) })
}

func (m Model) View() string {
	header := m.renderHeader()
	vp := m.viewport
	vp.Height = max(m.height-lipgloss.Height(header)-1, 1)
	return lipgloss.JoinVertical(lipgloss.Left, header, vp.View(), m.renderDots())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) fetch(fn func(context.Context) (guidedto.SlideOutput, error)) tea.Cmd {
	if m.port == nil {
		return nil
	}
	return func() tea.Msg {
		slide, err := fn(context.Background())
		return SlideMsg{Slide: slide, Err: err}
	}
}

func (m Model) renderHeader() string {
	title := theme.Title.Render("How to get the QR code")
	nav := theme.Muted.Render("  ←/→: prev/next  1-9: jump")
	return title + nav + "\n"
}

func (m Model) renderDots() string {
	if m.slide.Total == 0 {
		return ""
	}
	dots := make([]string, m.slide.Total)
	for i := range dots {
		if i == m.slide.Index {
			dots[i] = theme.Hot.Render("●")
		} else {
			dots[i] = theme.Muted.Render("○")
		}
	}
	return strings.Join(dots, " ")
}

func (m Model) renderSlide() string {
	if m.fault != "" {
		return theme.Bad.Render("Error: " + m.fault)
	}
	if m.slide.ID == "" {
		return theme.Muted.Render("(loading)")
	}
	content := SlideMarkdown(m.slide)
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(content); err == nil {
			return rendered
		}
	}
	return content
}

// SlideMarkdown renders one slide as a markdown document.
func SlideMarkdown(s guidedto.SlideOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s · %s\n\n", s.Step, s.Title)
	if s.Description != "" {
		b.WriteString(s.Description + "\n\n")
	}
	if s.Placeholder != "" || s.ImageAlt != "" {
		fmt.Fprintf(&b, "> **%s**", s.Placeholder)
		if s.ImageAlt != "" {
			b.WriteString(": " + s.ImageAlt)
		}
		b.WriteString("\n")
	}
	return b.String()
}
