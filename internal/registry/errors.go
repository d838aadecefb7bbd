package registry

import (
	"fmt"
	"strings"
)

// ConfigurationError reports every invariant violated while building a registry.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Problems) == 1 {
		return "registry configuration invalid: " + e.Problems[0]
	}
	return fmt.Sprintf("registry configuration invalid:\n  %s", strings.Join(e.Problems, "\n  "))
}

// UnknownClassError is returned when a lookup names a class that was never registered.
type UnknownClassError struct {
	ID ClassID
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("unknown class %q", string(e.ID))
}
