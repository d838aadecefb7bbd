package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/oncomark/internal/marker"
	"github.com/abhisek/oncomark/internal/registry"
)

// SupportedMajor is the model file major version this build understands.
const SupportedMajor = "v1"

// ModelFile is the on-disk model definition. JSON documents parse as YAML.
type ModelFile struct {
	Version string                 `yaml:"version"`
	Healthy map[string]GaussianDoc `yaml:"healthy"`
	Classes []ClassDoc             `yaml:"classes"`
	Priors  map[string]float64     `yaml:"priors"`
}

// GaussianDoc is a mean/variance pair as written in a model file.
type GaussianDoc struct {
	Mean     float64 `yaml:"mean"`
	Variance float64 `yaml:"variance"`
}

// ClassDoc is one class entry in a model file.
type ClassDoc struct {
	ID       string  `yaml:"id"`
	Label    string  `yaml:"label"`
	Cancer   string  `yaml:"cancer"`
	Signal   string  `yaml:"signal"`
	Mean     float64 `yaml:"mean"`
	Variance float64 `yaml:"variance"`
}

// Model is a loaded, validated model: the registry plus optional priors.
type Model struct {
	Registry *registry.Registry
	Priors   map[registry.ClassID]float64
	Source   string
}

// ErrUnsupportedVersion is returned when a model file's major version is not SupportedMajor.
var ErrUnsupportedVersion = errors.New("unsupported model version")

// LoadModel reads a model file. An empty path returns the built-in model.
func LoadModel(path string) (*Model, error) {
	if path == "" {
		return &Model{Registry: registry.Default(), Source: "built-in"}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	m, err := ParseModel(data)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	m.Source = path
	return m, nil
}

// ParseModel validates a model document against the schema and builds its registry.
func ParseModel(data []byte) (*Model, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var doc ModelFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	if !semver.IsValid(doc.Version) {
		return nil, fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedVersion, doc.Version)
	}
	if semver.Major(doc.Version) != SupportedMajor {
		return nil, fmt.Errorf("%w: %s (want %s.x)", ErrUnsupportedVersion, doc.Version, SupportedMajor)
	}

	return doc.build()
}

// build converts marker names and hands the result to registry.New, which
// owns the invariant checks.
func (doc *ModelFile) build() (*Model, error) {
	var problems []string

	baseline := make(registry.Baseline, len(doc.Healthy))
	spelled := make(map[marker.Type]string, len(doc.Healthy))
	for _, name := range slices.Sorted(maps.Keys(doc.Healthy)) {
		m, err := marker.Parse(name)
		if err != nil {
			problems = append(problems, fmt.Sprintf("healthy: %v", err))
			continue
		}
		if prev, ok := spelled[m]; ok {
			problems = append(problems, fmt.Sprintf("duplicate healthy marker %s (%q and %q)", m, prev, name))
			continue
		}
		spelled[m] = name
		g := doc.Healthy[name]
		baseline[m] = marker.Gaussian{Mean: g.Mean, Variance: g.Variance}
	}

	classes := make([]registry.ClassDefinition, 0, len(doc.Classes))
	for _, c := range doc.Classes {
		m, err := marker.Parse(c.Signal)
		if err != nil {
			problems = append(problems, fmt.Sprintf("class %q: %v", c.ID, err))
			continue
		}
		classes = append(classes, registry.ClassDefinition{
			ID:     registry.ClassID(c.ID),
			Label:  c.Label,
			Cancer: registry.Cancer(c.Cancer),
			Signal: m,
			Dist:   marker.Gaussian{Mean: c.Mean, Variance: c.Variance},
		})
	}
	if len(problems) > 0 {
		return nil, &registry.ConfigurationError{Problems: problems}
	}

	reg, err := registry.New(baseline, classes)
	if err != nil {
		return nil, err
	}

	model := &Model{Registry: reg}
	if len(doc.Priors) > 0 {
		model.Priors = make(map[registry.ClassID]float64, len(doc.Priors))
		for id, p := range doc.Priors {
			model.Priors[registry.ClassID(id)] = p
		}
	}
	return model, nil
}
