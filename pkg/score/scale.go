package score

import (
	"math"
)

// Clamp01 bounds x to [0.0, 1.0]. NaN is treated as 0.
func Clamp01(x float64) float64 {
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return x
}

// SaturatingScale maps x into [0.0, 1.0] with diminishing returns: a linear
// ramp from 0 to 0.5 up to knee, then a flatter ramp from 0.5 to 1.0 up to max.
// A knee outside (0, max) degrades to a single linear ramp over [0, max].
func SaturatingScale(x, knee, max float64) float64 {
	if x <= 0 || max <= 0 {
		return 0
	}
	if x >= max {
		return 1
	}
	if knee <= 0 || knee >= max {
		return Clamp01(x / max)
	}
	if x <= knee {
		return 0.5 * x / knee
	}
	return Clamp01(0.5 + 0.5*(x-knee)/(max-knee))
}

// AffineInto clamps x to [0.0, 1.0] and maps it linearly onto [lo, hi].
func AffineInto(x, lo, hi float64) float64 {
	return lo + Clamp01(x)*(hi-lo)
}

func mean(m map[string]float64) float64 {
	if len(m) == 0 {
		return 0
	}
	var sum float64
	for _, k := range sortedKeys(m) {
		sum += m[k]
	}
	return sum / float64(len(m))
}
