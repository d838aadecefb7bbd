package marker

import (
	"fmt"
	"math"
)

// Gaussian is a univariate normal distribution over a marker reading.
type Gaussian struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
}

// Validate checks that the density is defined: finite mean and a strictly
// positive, finite variance.
func (g Gaussian) Validate() error {
	if math.IsNaN(g.Mean) || math.IsInf(g.Mean, 0) {
		return fmt.Errorf("mean must be finite, got %v", g.Mean)
	}
	if math.IsNaN(g.Variance) || math.IsInf(g.Variance, 0) || g.Variance <= 0 {
		return fmt.Errorf("variance must be > 0 and finite, got %v", g.Variance)
	}
	return nil
}

// LogPDF returns log N(x; mean, variance).
func (g Gaussian) LogPDF(x float64) float64 {
	d := x - g.Mean
	return -0.5*math.Log(2*math.Pi*g.Variance) - d*d/(2*g.Variance)
}

// StdDev returns the standard deviation.
func (g Gaussian) StdDev() float64 {
	return math.Sqrt(g.Variance)
}

// ZScore returns how many standard deviations x lies from the mean.
func (g Gaussian) ZScore(x float64) float64 {
	return (x - g.Mean) / g.StdDev()
}
