package windowing

import "math"

// generateHann creates Hann window coefficients.
// Periodic Hann satisfies constant overlap-add for hop = size/2^k.
func generateHann(size int, symmetric bool) []float64 {
	coefficients := make([]float64, size)
	denom := denominator(size, symmetric)

	for i := range size {
		coefficients[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/denom))
	}

	return coefficients
}
