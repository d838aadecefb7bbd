package registry

import "github.com/abhisek/oncomark/internal/marker"

// ClassID identifies a diagnosable cancer class or stage.
type ClassID string

const (
	OvarianEarly ClassID = "Ovarian_Early"
	OvarianLate  ClassID = "Ovarian_Late"

	LiverOverall    ClassID = "Liver_Overall"
	LiverStageI     ClassID = "Liver_Stage_I"
	LiverStageIIIII ClassID = "Liver_Stage_II_III"
	LiverStageIV    ClassID = "Liver_Stage_IV"

	PancreaticOverall    ClassID = "Pancreatic_Overall"
	PancreaticStageI     ClassID = "Pancreatic_Stage_I"
	PancreaticStageIIIII ClassID = "Pancreatic_Stage_II_III"
	PancreaticStageIV    ClassID = "Pancreatic_Stage_IV"
)

// Cancer groups classes by primary site.
type Cancer string

const (
	CancerOvarian    Cancer = "ovarian"
	CancerLiver      Cancer = "liver"
	CancerPancreatic Cancer = "pancreatic"
)

// CancerDisplayName returns a human-readable name for a cancer type.
func CancerDisplayName(c Cancer) string {
	switch c {
	case CancerOvarian:
		return "Ovarian"
	case CancerLiver:
		return "Liver"
	case CancerPancreatic:
		return "Pancreatic"
	default:
		return string(c)
	}
}

// ClassDefinition models one class by a single signal marker. Every other
// marker is scored against the healthy baseline.
type ClassDefinition struct {
	ID     ClassID
	Label  string
	Cancer Cancer
	Signal marker.Type
	Dist   marker.Gaussian
}

// DisplayName returns Label, falling back to the ID.
func (c ClassDefinition) DisplayName() string {
	if c.Label != "" {
		return c.Label
	}
	return string(c.ID)
}

// Baseline maps every marker type to its distribution in disease-free individuals.
type Baseline map[marker.Type]marker.Gaussian
