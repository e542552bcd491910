package citypandemic

import "math"

// SigmoidDecaying returns a monotone-decreasing sigmoid of x in [0, 1],
// steepness controlled by k. It exists so an airborne exposure kernel
// fancier than the default concentration/airborneScale rule can be dropped
// into PandemicModel.pollTick without touching orchestration (spec §4.E).
func SigmoidDecaying(x, k float64) float64 {
	return 1 / (1 + math.Exp(k*x))
}

// ErfBounded maps x through the cumulative standard normal distribution
// and rescales the result into [lo, hi]. Like SigmoidDecaying, it is an
// unused-by-default probability kernel offered for implementers who want
// to refine the airborne exposure rule (spec §4.E).
func ErfBounded(x, lo, hi float64) float64 {
	cdf := 0.5 * (1 + math.Erf(x/math.Sqrt2))
	return lo + cdf*(hi-lo)
}

// Clamp01 clamps x into [0, 1]. Concentration readings and sampled
// probabilities are clamped here rather than rejected (spec §7 kind 3:
// numeric edges are clamped and the simulation continues).
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
