package windowing

// generateWelch creates Welch (parabolic) window coefficients
func generateWelch(size int, _ bool) []float64 {
	coefficients := make([]float64, size)
	if size == 1 {
		coefficients[0] = 1.0
		return coefficients
	}

	half := float64(size-1) / 2.0
	for i := range size {
		arg := (float64(i) - half) / half
		coefficients[i] = 1.0 - arg*arg
	}

	return coefficients
}
