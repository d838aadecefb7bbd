package classifier

import (
	"fmt"
	"math"

	"github.com/abhisek/oncomark/internal/registry"
)

// buildLogPriors returns one log prior per class, in registration order.
// A nil map yields the uniform prior -ln(N). Otherwise every class must be
// named with a positive weight; weights are normalized to sum to 1.
func buildLogPriors(reg *registry.Registry, classes []registry.ClassDefinition, priors map[registry.ClassID]float64) ([]float64, error) {
	out := make([]float64, len(classes))
	if priors == nil {
		uniform := -math.Log(float64(len(classes)))
		for i := range out {
			out[i] = uniform
		}
		return out, nil
	}

	for id := range priors {
		if _, err := reg.Class(id); err != nil {
			return nil, fmt.Errorf("prior: %w", err)
		}
	}

	var total float64
	for _, c := range classes {
		p, ok := priors[c.ID]
		if !ok {
			return nil, fmt.Errorf("prior missing for class %q", string(c.ID))
		}
		if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
			return nil, fmt.Errorf("prior for class %q must be > 0, got %v", string(c.ID), p)
		}
		total += p
	}
	for i, c := range classes {
		out[i] = math.Log(priors[c.ID] / total)
	}
	return out, nil
}
