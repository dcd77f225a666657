package windowing

// generateBartlett creates Bartlett (triangular) window coefficients
func generateBartlett(size int, _ bool) []float64 {
	coefficients := make([]float64, size)
	if size == 1 {
		coefficients[0] = 1.0
		return coefficients
	}

	for i := range size {
		if i <= size/2 {
			coefficients[i] = 2.0 * float64(i) / float64(size-1)
		} else {
			coefficients[i] = 2.0 - 2.0*float64(i)/float64(size-1)
		}
	}

	return coefficients
}
