package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/oncomark/internal/ui/theme"
)

// ReadingInput wraps bubbles/textinput for a single non-negative decimal
// marker reading.
type ReadingInput struct {
	Model textinput.Model
	Label string
	Unit  string
}

// NewReadingInput creates a blurred input labelled with the marker name.
func NewReadingInput(label, unit string) ReadingInput {
	ti := textinput.New()
	ti.Placeholder = "0.0"
	ti.Prompt = ""
	ti.CharLimit = 12

	return ReadingInput{
		Model: ti,
		Label: label,
		Unit:  unit,
	}
}

// Focus focuses the input and returns the cursor blink command.
func (r *ReadingInput) Focus() tea.Cmd {
	return r.Model.Focus()
}

// Blur removes focus.
func (r *ReadingInput) Blur() {
	r.Model.Blur()
}

// Update handles messages. Keys that cannot be part of a decimal number are
// dropped; a minus sign is only taken as the first character.
func (r ReadingInput) Update(msg tea.Msg) (ReadingInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		key := kmsg.String()
		if len(key) == 1 && !r.accepts(key) {
			return r, nil
		}
	}

	var cmd tea.Cmd
	r.Model, cmd = r.Model.Update(msg)
	return r, cmd
}

// View renders the label, the input, and the unit.
func (r ReadingInput) View() string {
	label := theme.Unselected
	if r.Model.Focused() {
		label = theme.Selected
	}
	return lipgloss.NewStyle().Width(8).Render(label.Render(r.Label)) +
		r.Model.View() + " " + theme.Hint.Render(r.Unit)
}

func (r ReadingInput) accepts(key string) bool {
	if strings.ContainsAny(key, "0123456789.") {
		return true
	}
	return key == "-" && r.Model.Position() == 0 && !strings.HasPrefix(r.Model.Value(), "-")
}

// Reading parses the input. ok is false when the field is empty.
func (r ReadingInput) Reading() (v float64, ok bool, err error) {
	s := strings.TrimSpace(r.Model.Value())
	if s == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
