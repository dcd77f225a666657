package spectral

import (
	"fmt"

	"github.com/RyanBlaney/sonido-spectral/algorithms/common"
	"github.com/RyanBlaney/sonido-spectral/algorithms/windowing"
	"github.com/RyanBlaney/sonido-spectral/logging"
)

// normEpsilon is the smallest window-energy coverage that still gets
// normalized. Samples with less accumulated coverage (the extreme edges of
// the signal) are left at zero instead of being divided by noise.
const normEpsilon = 1e-8

// ISTFT reconstructs a time-domain signal from a sequence of half spectra
// by inverse transform, synthesis windowing and overlap-add.
type ISTFT struct {
	fft *FFT
}

// NewISTFT creates a new ISTFT calculator
func NewISTFT() *ISTFT {
	return &ISTFT{
		fft: NewFFT(),
	}
}

// Reconstruct converts per-frame spectra (in time order, all produced with
// the same frame size) back into samples. Each frame is inverse-transformed,
// multiplied by the window a second time, and accumulated at frameIndex*hop
// while the squared window accumulates into a separate normalization
// buffer. After all frames are added, every sample with adequate coverage
// is divided by its accumulated window energy.
//
// Correct gain everywhere with partial edge coverage requires a
// constant-overlap-add window/hop combination; that is the caller's
// responsibility.
func (s *ISTFT) Reconstruct(spectra []*Spectrum, win *windowing.Window, hop int) ([]float64, error) {
	frameSize := win.Size()
	if hop <= 0 {
		return nil, fmt.Errorf("hop size must be positive, got %d: %w", hop, common.ErrInvalidConfiguration)
	}
	if hop > frameSize {
		return nil, fmt.Errorf("hop size (%d) exceeds frame size (%d): %w", hop, frameSize, common.ErrInvalidConfiguration)
	}

	// Validate all geometry before touching the accumulator so a failure
	// leaves nothing half-built.
	wantBins := frameSize/2 + 1
	for i, spec := range spectra {
		if spec.FrameSize != frameSize {
			return nil, fmt.Errorf("spectrum %d frame size (%d) doesn't match window size (%d): %w",
				i, spec.FrameSize, frameSize, common.ErrDimensionMismatch)
		}
		if spec.NumBins() != wantBins {
			return nil, fmt.Errorf("spectrum %d has %d bins, want %d for frame size %d: %w",
				i, spec.NumBins(), wantBins, frameSize, common.ErrDimensionMismatch)
		}
	}

	if len(spectra) == 0 {
		return []float64{}, nil
	}

	outLen := (len(spectra)-1)*hop + frameSize
	output := make([]float64, outLen)
	norm := make([]float64, outLen)

	coeffs := win.Coefficients()
	winSquared := make([]float64, frameSize)
	for i, c := range coeffs {
		winSquared[i] = c * c
	}

	full := make([]complex128, frameSize)
	for frameIdx, spec := range spectra {
		// Rebuild the conjugate-symmetric full bin set
		copy(full[:wantBins], spec.Bins)
		for k := 1; k < wantBins; k++ {
			if mirror := frameSize - k; mirror != k {
				re, im := real(spec.Bins[k]), imag(spec.Bins[k])
				full[mirror] = complex(re, -im)
			}
		}

		frame := s.fft.ComputeInverseReal(full)

		offset := frameIdx * hop
		for i := range frameSize {
			output[offset+i] += frame[i] * coeffs[i]
			norm[offset+i] += winSquared[i]
		}
	}

	for i := range output {
		if norm[i] > normEpsilon {
			output[i] /= norm[i]
		} else {
			output[i] = 0
		}
	}

	logging.Debug("istft reconstructed", logging.Fields{
		"frames":     len(spectra),
		"frame_size": frameSize,
		"hop_size":   hop,
		"samples":    outLen,
	})

	return output, nil
}
