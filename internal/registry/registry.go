package registry

import (
	"fmt"
	"slices"

	"github.com/abhisek/oncomark/internal/marker"
)

// Registry holds the validated class table and healthy baseline. It is never
// mutated after New returns, so it can be shared across goroutines.
type Registry struct {
	classes  []ClassDefinition
	byID     map[ClassID]int
	baseline Baseline
	byCancer map[Cancer][]ClassDefinition
	cancers  []Cancer
}

// New validates the inputs and builds a registry. Classes keep the order given,
// which is the tie-break order used by the classifier.
func New(baseline Baseline, classes []ClassDefinition) (*Registry, error) {
	if err := validate(baseline, classes); err != nil {
		return nil, err
	}

	r := &Registry{
		classes:  slices.Clone(classes),
		byID:     make(map[ClassID]int, len(classes)),
		baseline: make(Baseline, len(baseline)),
		byCancer: make(map[Cancer][]ClassDefinition),
	}
	for m, g := range baseline {
		r.baseline[m] = g
	}
	for i, c := range r.classes {
		r.byID[c.ID] = i
		if _, ok := r.byCancer[c.Cancer]; !ok {
			r.cancers = append(r.cancers, c.Cancer)
		}
		r.byCancer[c.Cancer] = append(r.byCancer[c.Cancer], c)
	}
	return r, nil
}

// HealthyDistribution returns the baseline density for a marker.
func (r *Registry) HealthyDistribution(m marker.Type) (marker.Gaussian, error) {
	g, ok := r.baseline[m]
	if !ok {
		return marker.Gaussian{}, &ConfigurationError{
			Problems: []string{fmt.Sprintf("healthy baseline missing marker %s", m)},
		}
	}
	return g, nil
}

// SignalDistribution returns the signal marker and its disease-state density for a class.
func (r *Registry) SignalDistribution(id ClassID) (marker.Type, marker.Gaussian, error) {
	i, ok := r.byID[id]
	if !ok {
		return 0, marker.Gaussian{}, &UnknownClassError{ID: id}
	}
	c := r.classes[i]
	return c.Signal, c.Dist, nil
}

// Class returns the full definition for id.
func (r *Registry) Class(id ClassID) (ClassDefinition, error) {
	i, ok := r.byID[id]
	if !ok {
		return ClassDefinition{}, &UnknownClassError{ID: id}
	}
	return r.classes[i], nil
}

// Index returns the registration position of id.
func (r *Registry) Index(id ClassID) (int, bool) {
	i, ok := r.byID[id]
	return i, ok
}

// AllClasses returns every class in registration order.
func (r *Registry) AllClasses() []ClassDefinition {
	return slices.Clone(r.classes)
}

// Len returns the number of registered classes.
func (r *Registry) Len() int {
	return len(r.classes)
}

// Baseline returns a copy of the healthy baseline.
func (r *Registry) Baseline() Baseline {
	out := make(Baseline, len(r.baseline))
	for m, g := range r.baseline {
		out[m] = g
	}
	return out
}

// Cancers returns cancer types in order of first registration.
func (r *Registry) Cancers() []Cancer {
	return slices.Clone(r.cancers)
}

// ByCancer returns the classes for one cancer type, in registration order.
func (r *Registry) ByCancer(c Cancer) []ClassDefinition {
	return slices.Clone(r.byCancer[c])
}
