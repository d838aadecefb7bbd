package marker

import (
	"fmt"
	"math"
)

// Panel holds one patient's observed marker readings.
type Panel map[Type]float64

// NewPanel builds a complete panel from the three readings.
func NewPanel(he4, afp, ca199 float64) Panel {
	return Panel{HE4: he4, AFP: afp, CA199: ca199}
}

// Get returns the reading for t and whether it is present.
func (p Panel) Get(t Type) (float64, bool) {
	v, ok := p[t]
	return v, ok
}

// PanelError describes the first problem found in a panel.
type PanelError struct {
	Marker Type
	Value  float64
	Reason string
}

func (e *PanelError) Error() string {
	return fmt.Sprintf("marker %s: %s", e.Marker, e.Reason)
}

// Validate checks that every marker type is present with a finite reading.
// Markers are checked in canonical order so the reported marker is stable.
func (p Panel) Validate() error {
	for _, t := range All() {
		v, ok := p[t]
		if !ok {
			return &PanelError{Marker: t, Reason: "reading missing"}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &PanelError{Marker: t, Value: v, Reason: fmt.Sprintf("reading is not finite (%v)", v)}
		}
	}
	return nil
}

// Clone returns an independent copy of the panel.
func (p Panel) Clone() Panel {
	out := make(Panel, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
