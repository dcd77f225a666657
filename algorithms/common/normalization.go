package common

// NormalizationType defines normalization method
type NormalizationType int

const (
	// Peak divides by the maximum absolute value (unit-max output)
	Peak NormalizationType = iota
	// EnergyNorm divides by the L2 norm
	EnergyNorm
	// RMSNorm divides by the root mean square
	RMSNorm
)

// Normalizer provides signal normalization methods
type Normalizer struct {
	method NormalizationType
}

// NewNormalizer creates a new normalizer
func NewNormalizer(method NormalizationType) *Normalizer {
	return &Normalizer{
		method: method,
	}
}

// Normalize returns a normalized copy of the signal using the configured
// method. Signals with no energy are returned unchanged: silence stays
// silence rather than producing NaNs.
func (n *Normalizer) Normalize(signal []float64) []float64 {
	normalized := make([]float64, len(signal))
	copy(normalized, signal)
	n.NormalizeInPlace(normalized)
	return normalized
}

// NormalizeInPlace normalizes the signal in-place
func (n *Normalizer) NormalizeInPlace(signal []float64) {
	if len(signal) == 0 {
		return
	}

	var scale float64
	switch n.method {
	case EnergyNorm:
		scale = Energy(signal)
	case RMSNorm:
		scale = RMS(signal)
	default:
		scale = MaxAbs(signal)
	}

	if scale < 1e-10 {
		return
	}

	// Divide rather than multiply by the reciprocal so the peak sample
	// normalizes to exactly 1
	for i := range signal {
		signal[i] /= scale
	}
}
