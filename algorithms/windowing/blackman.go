package windowing

import "math"

// generateBlackman creates Blackman window coefficients
func generateBlackman(size int, symmetric bool) []float64 {
	coefficients := make([]float64, size)
	denom := denominator(size, symmetric)

	a0, a1, a2 := 0.42, 0.5, 0.08
	for i := range size {
		arg := 2 * math.Pi * float64(i) / denom
		coefficients[i] = a0 - a1*math.Cos(arg) + a2*math.Cos(2*arg)
	}

	return coefficients
}

// generateBlackmanHarris creates 4-term Blackman-Harris window coefficients
func generateBlackmanHarris(size int, symmetric bool) []float64 {
	coefficients := make([]float64, size)
	denom := denominator(size, symmetric)

	a0, a1, a2, a3 := 0.35875, 0.48829, 0.14128, 0.01168
	for i := range size {
		arg := 2 * math.Pi * float64(i) / denom
		coefficients[i] = a0 - a1*math.Cos(arg) + a2*math.Cos(2*arg) - a3*math.Cos(3*arg)
	}

	return coefficients
}
