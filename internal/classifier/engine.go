package classifier

import (
	"errors"
	"fmt"
	"math"

	"github.com/abhisek/oncomark/internal/marker"
	"github.com/abhisek/oncomark/internal/registry"
)

// Engine scores marker panels against a registry. It holds only read-only
// state and is safe for concurrent use.
type Engine struct {
	reg       *registry.Registry
	classes   []registry.ClassDefinition
	baseline  registry.Baseline
	logPriors []float64
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	priors map[registry.ClassID]float64
}

// WithPriors weights classes by prior probability, added as a log term
// before normalization. Every registered class must be given a positive
// weight. Without this option every class has prior 1/N.
func WithPriors(priors map[registry.ClassID]float64) Option {
	return func(o *engineOptions) {
		o.priors = priors
	}
}

// New builds an Engine over reg.
func New(reg *registry.Registry, opts ...Option) (*Engine, error) {
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}

	classes := reg.AllClasses()
	logPriors, err := buildLogPriors(reg, classes, o.priors)
	if err != nil {
		return nil, err
	}

	return &Engine{
		reg:       reg,
		classes:   classes,
		baseline:  reg.Baseline(),
		logPriors: logPriors,
	}, nil
}

// Registry returns the registry the engine scores against.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// ScoreAll scores the panel against every class, in registration order.
// Posteriors are normalized over all classes.
func (e *Engine) ScoreAll(panel marker.Panel) ([]ClassScore, error) {
	if err := checkPanel(panel); err != nil {
		return nil, err
	}

	scores := make([]ClassScore, len(e.classes))
	for i, c := range e.classes {
		ll := e.logLikelihood(c, panel)
		scores[i] = ClassScore{
			Class:         c.ID,
			Label:         c.DisplayName(),
			LogLikelihood: ll,
			LogPrior:      e.logPriors[i],
			Score:         ll + e.logPriors[i],
		}
	}
	if !anyFinite(scores) {
		return nil, e.unscorable(panel)
	}
	normalize(scores)
	return scores, nil
}

// Classify returns the best-supported class. Exact ties go to the class
// registered first.
func (e *Engine) Classify(panel marker.Panel) (ClassScore, error) {
	scores, err := e.ScoreAll(panel)
	if err != nil {
		return ClassScore{}, err
	}
	return scores[argmax(scores)], nil
}

// Explain returns the per-marker terms behind one class's log-likelihood.
func (e *Engine) Explain(panel marker.Panel, id registry.ClassID) (*Explanation, error) {
	if err := checkPanel(panel); err != nil {
		return nil, err
	}
	c, err := e.reg.Class(id)
	if err != nil {
		return nil, err
	}

	ex := &Explanation{ClassID: c.ID, Label: c.DisplayName(), Class: c}
	for _, m := range marker.All() {
		dist, background := e.distFor(c, m)
		x := panel[m]
		t := Term{
			Marker:     m,
			Value:      x,
			Background: background,
			Dist:       dist,
			LogDensity: dist.LogPDF(x),
			ZScore:     dist.ZScore(x),
		}
		ex.Terms = append(ex.Terms, t)
		ex.Total += t.LogDensity
	}
	for _, t := range ex.Terms {
		if math.IsInf(t.LogDensity, -1) {
			return nil, tooExtreme(t.Marker, t.Value)
		}
	}
	return ex, nil
}

// logLikelihood sums log densities over all markers: the class's own
// distribution for its signal marker, the healthy baseline for the rest.
func (e *Engine) logLikelihood(c registry.ClassDefinition, panel marker.Panel) float64 {
	var ll float64
	for _, m := range marker.All() {
		dist, _ := e.distFor(c, m)
		ll += dist.LogPDF(panel[m])
	}
	return ll
}

func (e *Engine) distFor(c registry.ClassDefinition, m marker.Type) (marker.Gaussian, bool) {
	if m == c.Signal {
		return c.Dist, false
	}
	return e.baseline[m], true
}

// unscorable names the marker that drove every class score to -Inf. A
// reading can be finite yet so far from every mean that its squared
// distance overflows.
func (e *Engine) unscorable(panel marker.Panel) error {
	var first error
	for _, m := range marker.All() {
		x := panel[m]
		bad := 0
		for _, c := range e.classes {
			dist, _ := e.distFor(c, m)
			if math.IsInf(dist.LogPDF(x), -1) {
				bad++
			}
		}
		if bad == 0 {
			continue
		}
		if bad == len(e.classes) {
			return tooExtreme(m, x)
		}
		if first == nil {
			first = tooExtreme(m, x)
		}
	}
	if first != nil {
		return first
	}
	return errors.New("panel cannot be scored: no class has a finite score")
}

func tooExtreme(m marker.Type, x float64) *InvalidPanelError {
	return &InvalidPanelError{Marker: m, Value: x, Reason: fmt.Sprintf("reading %g is too extreme to score", x)}
}

func anyFinite(scores []ClassScore) bool {
	for _, s := range scores {
		if !math.IsInf(s.Score, 0) && !math.IsNaN(s.Score) {
			return true
		}
	}
	return false
}

// argmax returns the index of the highest score; the first wins on ties.
func argmax(scores []ClassScore) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i].Score > scores[best].Score {
			best = i
		}
	}
	return best
}

// normalize fills in posteriors with a max-shifted softmax over Score.
func normalize(scores []ClassScore) {
	if len(scores) == 0 {
		return
	}
	maxScore := scores[argmax(scores)].Score
	var sum float64
	for i := range scores {
		p := math.Exp(scores[i].Score - maxScore)
		scores[i].Posterior = p
		sum += p
	}
	for i := range scores {
		scores[i].Posterior /= sum
	}
}

func checkPanel(panel marker.Panel) error {
	err := panel.Validate()
	if err == nil {
		return nil
	}
	var pe *marker.PanelError
	if errors.As(err, &pe) {
		return &InvalidPanelError{Marker: pe.Marker, Value: pe.Value, Reason: pe.Reason}
	}
	return err
}
