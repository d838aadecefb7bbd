package classifier

import (
	"fmt"

	"github.com/abhisek/oncomark/internal/marker"
	"github.com/abhisek/oncomark/internal/registry"
)

// ClassScore is the result of scoring one panel against one class.
type ClassScore struct {
	Class         registry.ClassID `json:"class"`
	Label         string           `json:"label"`
	LogLikelihood float64          `json:"log_likelihood"`
	LogPrior      float64          `json:"log_prior"`
	Score         float64          `json:"score"`     // LogLikelihood + LogPrior
	Posterior     float64          `json:"posterior"` // 0.0–1.0, sums to 1 across a ScoreAll result
}

// Term is one marker's contribution to a class score.
type Term struct {
	Marker     marker.Type     `json:"marker"`
	Value      float64         `json:"value"`
	Background bool            `json:"background"` // scored under the healthy baseline
	Dist       marker.Gaussian `json:"dist"`
	LogDensity float64         `json:"log_density"`
	ZScore     float64         `json:"z_score"`
}

// Explanation breaks a class score down by marker.
type Explanation struct {
	ClassID registry.ClassID         `json:"class"`
	Label   string                   `json:"label"`
	Class   registry.ClassDefinition `json:"-"`
	Terms   []Term                   `json:"terms"`
	Total   float64                  `json:"log_likelihood"`
}

// InvalidPanelError reports a panel that cannot be scored.
type InvalidPanelError struct {
	Marker marker.Type
	Value  float64
	Reason string
}

func (e *InvalidPanelError) Error() string {
	return fmt.Sprintf("invalid panel: marker %s: %s", e.Marker, e.Reason)
}
