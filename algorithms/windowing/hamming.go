package windowing

import "math"

// generateHamming creates Hamming window coefficients
func generateHamming(size int, symmetric bool) []float64 {
	coefficients := make([]float64, size)
	denom := denominator(size, symmetric)

	for i := range size {
		coefficients[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/denom)
	}

	return coefficients
}
