package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/oncomark/internal/classifier"
	"github.com/abhisek/oncomark/internal/marker"
	"github.com/abhisek/oncomark/internal/ui/components"
	"github.com/abhisek/oncomark/internal/ui/layout"
	"github.com/abhisek/oncomark/internal/ui/theme"
)

// Model is the root Bubble Tea model for interactive panel entry.
type Model struct {
	engine  *classifier.Engine
	inputs  []components.ReadingInput
	markers []marker.Type
	focus   int
	top     int

	width  int
	height int

	result []classifier.ClassScore
	err    error
}

// New creates the entry model with focus on the first marker.
func New(engine *classifier.Engine, top int) Model {
	m := Model{engine: engine, top: top, markers: marker.All()}
	for _, t := range m.markers {
		m.inputs = append(m.inputs, components.NewReadingInput(t.String(), t.Unit()))
	}
	m.inputs[0].Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			cmd := m.moveFocus(1)
			return m, cmd
		case "shift+tab", "up":
			cmd := m.moveFocus(-1)
			return m, cmd
		case "enter":
			m.submit()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

// submit scores whatever has been entered. Empty fields stay missing so the
// engine reports them.
func (m *Model) submit() {
	m.result, m.err = nil, nil

	panel := make(marker.Panel, len(m.markers))
	for i, t := range m.markers {
		v, ok, err := m.inputs[i].Reading()
		if err != nil {
			m.err = fmt.Errorf("%s: %w", t, err)
			return
		}
		if ok {
			panel[t] = v
		}
	}

	scores, err := m.engine.ScoreAll(panel)
	if err != nil {
		m.err = err
		return
	}
	m.result = classifier.Top(classifier.Rank(scores), m.top)
}

var footerHints = []layout.KeyHint{
	{Key: "Tab/↑↓", Description: "Move"},
	{Key: "Enter", Description: "Classify"},
	{Key: "Esc", Description: "Quit"},
}

func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = m.width > 0 && m.height > 0
	return v
}

func (m Model) render() string {
	content := m.content()

	// No size reported yet: render the bare form.
	if m.width == 0 || m.height == 0 {
		return content
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	status := fmt.Sprintf("%d classes  ", m.engine.Registry().Len())
	header := layout.RenderHeader("Tumor marker panel", status, m.width)
	footer := layout.RenderFooter(footerHints, m.width)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m Model) content() string {
	var b strings.Builder
	b.WriteString("\n")
	for _, in := range m.inputs {
		b.WriteString("  " + in.View() + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString("  " + theme.Failure.Render(m.err.Error()) + "\n")
	case m.result != nil:
		b.WriteString("  Predicted class: " + theme.Prediction.Render(m.result[0].Label) + "\n\n")
		for _, s := range m.result {
			fmt.Fprintf(&b, "  %-28s %6.3f\n", s.Label, s.Posterior)
		}
	default:
		b.WriteString("  " + theme.Hint.Render("Enter all three readings and press enter.") + "\n")
	}
	return b.String()
}

// Run starts the interactive program.
func Run(engine *classifier.Engine, top int) error {
	p := tea.NewProgram(New(engine, top))
	_, err := p.Run()
	return err
}
