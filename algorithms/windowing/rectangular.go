package windowing

// generateRectangular creates rectangular (boxcar) window coefficients
func generateRectangular(size int, _ bool) []float64 {
	coefficients := make([]float64, size)
	for i := range coefficients {
		coefficients[i] = 1.0
	}
	return coefficients
}
