package registry

import (
	"sync"

	"github.com/abhisek/oncomark/internal/marker"
)

// Published serum ranges; variance is the square of the reported SD.
var seedBaseline = Baseline{
	marker.HE4:   {Mean: 60, Variance: 15 * 15},
	marker.AFP:   {Mean: 5, Variance: 3 * 3},
	marker.CA199: {Mean: 20, Variance: 10 * 10},
}

var seedClasses = []ClassDefinition{
	{ID: OvarianEarly, Label: "Ovarian Early", Cancer: CancerOvarian, Signal: marker.HE4, Dist: marker.Gaussian{Mean: 151, Variance: 6_348}},
	{ID: OvarianLate, Label: "Ovarian Late", Cancer: CancerOvarian, Signal: marker.HE4, Dist: marker.Gaussian{Mean: 570, Variance: 84_840}},

	{ID: LiverOverall, Label: "Liver Overall", Cancer: CancerLiver, Signal: marker.AFP, Dist: marker.Gaussian{Mean: 450, Variance: 2_250_000}},
	{ID: LiverStageI, Label: "Liver Stage I", Cancer: CancerLiver, Signal: marker.AFP, Dist: marker.Gaussian{Mean: 100, Variance: 7_500}},
	{ID: LiverStageIIIII, Label: "Liver Stage II-III", Cancer: CancerLiver, Signal: marker.AFP, Dist: marker.Gaussian{Mean: 600, Variance: 450_000}},
	{ID: LiverStageIV, Label: "Liver Stage IV", Cancer: CancerLiver, Signal: marker.AFP, Dist: marker.Gaussian{Mean: 6_000, Variance: 15_000_000}},

	{ID: PancreaticOverall, Label: "Pancreatic Overall", Cancer: CancerPancreatic, Signal: marker.CA199, Dist: marker.Gaussian{Mean: 1_750, Variance: 3_500_000}},
	{ID: PancreaticStageI, Label: "Pancreatic Stage I", Cancer: CancerPancreatic, Signal: marker.CA199, Dist: marker.Gaussian{Mean: 140, Variance: 17_500}},
	{ID: PancreaticStageIIIII, Label: "Pancreatic Stage II-III", Cancer: CancerPancreatic, Signal: marker.CA199, Dist: marker.Gaussian{Mean: 950, Variance: 750_000}},
	{ID: PancreaticStageIV, Label: "Pancreatic Stage IV", Cancer: CancerPancreatic, Signal: marker.CA199, Dist: marker.Gaussian{Mean: 12_500, Variance: 35_000_000}},
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the built-in registry. It panics if the static table is
// invalid, which can only happen through a bad edit to this file.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := New(seedBaseline, seedClasses)
		if err != nil {
			panic(err)
		}
		defaultReg = r
	})
	return defaultReg
}
