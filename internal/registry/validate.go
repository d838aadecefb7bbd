package registry

import (
	"fmt"
	"strings"

	"github.com/abhisek/oncomark/internal/marker"
)

// validate performs all structural checks on a baseline and class set.
// Returns a *ConfigurationError listing every problem found, or nil if valid.
func validate(baseline Baseline, classes []ClassDefinition) error {
	var errs []string

	// Baseline must cover every marker type with a usable density.
	for _, m := range marker.All() {
		g, ok := baseline[m]
		if !ok {
			errs = append(errs, fmt.Sprintf("healthy baseline missing marker %s", m))
			continue
		}
		if err := g.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("healthy baseline %s: %v", m, err))
		}
	}
	for m := range baseline {
		if !m.Valid() {
			errs = append(errs, fmt.Sprintf("healthy baseline has unknown marker %s", m))
		}
	}

	if len(classes) == 0 {
		errs = append(errs, "no classes defined")
	}

	seen := make(map[ClassID]bool, len(classes))
	for i, c := range classes {
		if strings.TrimSpace(string(c.ID)) == "" {
			errs = append(errs, fmt.Sprintf("class #%d: empty class id", i))
			continue
		}
		if seen[c.ID] {
			errs = append(errs, fmt.Sprintf("duplicate class id: %q", string(c.ID)))
		}
		seen[c.ID] = true

		if !c.Signal.Valid() {
			errs = append(errs, fmt.Sprintf("class %q: unknown signal marker %s", string(c.ID), c.Signal))
		} else if _, ok := baseline[c.Signal]; !ok {
			errs = append(errs, fmt.Sprintf("class %q: signal marker %s has no healthy baseline", string(c.ID), c.Signal))
		}
		if err := c.Dist.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("class %q: %v", string(c.ID), err))
		}
	}

	if len(errs) > 0 {
		return &ConfigurationError{Problems: errs}
	}
	return nil
}
