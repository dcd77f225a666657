// Package windowing provides analysis window functions for short-time
// spectral processing. Coefficients are deterministic functions of position
// and size; a Window carries no mutable state after construction.
package windowing

import (
	"fmt"

	"github.com/RyanBlaney/sonido-spectral/algorithms/common"
)

// Type identifies a window shape
type Type string

const (
	Hann           Type = "hann"
	Hamming        Type = "hamming"
	Rectangular    Type = "rectangular"
	Blackman       Type = "blackman"
	BlackmanHarris Type = "blackman_harris"
	Bartlett       Type = "bartlett"
	Welch          Type = "welch"
)

// ParseType resolves a window name to its Type
func ParseType(name string) (Type, error) {
	switch Type(name) {
	case Hann, Hamming, Rectangular, Blackman, BlackmanHarris, Bartlett, Welch:
		return Type(name), nil
	default:
		return "", fmt.Errorf("unknown window type %q: %w", name, common.ErrInvalidConfiguration)
	}
}

// Window holds pre-computed weighting coefficients for one frame size
type Window struct {
	typ          Type
	size         int
	symmetric    bool
	coefficients []float64
}

// New creates a periodic (DFT-even) window of the given size and type.
// Periodic windows are the right choice for overlap-add processing; use
// NewSymmetric for filter design.
func New(size int, typ Type) (*Window, error) {
	return newWindow(size, typ, false)
}

// NewSymmetric creates a symmetric window of the given size and type
func NewSymmetric(size int, typ Type) (*Window, error) {
	return newWindow(size, typ, true)
}

func newWindow(size int, typ Type, symmetric bool) (*Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d: %w", size, common.ErrInvalidConfiguration)
	}

	gen, ok := generators[typ]
	if !ok {
		return nil, fmt.Errorf("unknown window type %q: %w", typ, common.ErrInvalidConfiguration)
	}

	return &Window{
		typ:          typ,
		size:         size,
		symmetric:    symmetric,
		coefficients: gen(size, symmetric),
	}, nil
}

// generator produces coefficients for one window shape
type generator func(size int, symmetric bool) []float64

var generators = map[Type]generator{
	Hann:           generateHann,
	Hamming:        generateHamming,
	Rectangular:    generateRectangular,
	Blackman:       generateBlackman,
	BlackmanHarris: generateBlackmanHarris,
	Bartlett:       generateBartlett,
	Welch:          generateWelch,
}

// denominator returns the normalization length for cosine-sum windows.
// Periodic windows divide by size, symmetric ones by size-1.
func denominator(size int, symmetric bool) float64 {
	if symmetric && size > 1 {
		return float64(size - 1)
	}
	return float64(size)
}

// Size returns the window length
func (w *Window) Size() int {
	return w.size
}

// Type returns the window shape identifier
func (w *Window) Type() Type {
	return w.typ
}

// Symmetric reports whether the window was built symmetric
func (w *Window) Symmetric() bool {
	return w.symmetric
}

// Coefficients returns a copy of the window coefficients
func (w *Window) Coefficients() []float64 {
	coeffs := make([]float64, len(w.coefficients))
	copy(coeffs, w.coefficients)
	return coeffs
}

// Apply multiplies the signal by the window into a new slice
func (w *Window) Apply(signal []float64) ([]float64, error) {
	if len(signal) != w.size {
		return nil, fmt.Errorf("signal length (%d) doesn't match window size (%d): %w",
			len(signal), w.size, common.ErrDimensionMismatch)
	}

	windowed := make([]float64, w.size)
	for i := range signal {
		windowed[i] = signal[i] * w.coefficients[i]
	}

	return windowed, nil
}

// ApplyInPlace multiplies the signal by the window in-place
func (w *Window) ApplyInPlace(signal []float64) error {
	if len(signal) != w.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d): %w",
			len(signal), w.size, common.ErrDimensionMismatch)
	}

	for i := range signal {
		signal[i] *= w.coefficients[i]
	}

	return nil
}
