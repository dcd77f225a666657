package spectral

import (
	"math/cmplx"
)

// Spectrum holds the non-negative frequency half of one frame's transform.
// Bin k represents frequency k * SampleRate / FrameSize for k in
// [0, FrameSize/2]; the upper half is the conjugate mirror and is not stored.
type Spectrum struct {
	Bins       []complex128 `json:"-"`
	SampleRate int          `json:"sample_rate"`
	FrameSize  int          `json:"frame_size"`
}

// NumBins returns the number of stored bins (FrameSize/2 + 1)
func (s *Spectrum) NumBins() int {
	return len(s.Bins)
}

// FreqResolution returns the bin spacing in Hz
func (s *Spectrum) FreqResolution() float64 {
	if s.FrameSize == 0 {
		return 0
	}
	return float64(s.SampleRate) / float64(s.FrameSize)
}

// BinFrequency returns the center frequency of bin k in Hz
func (s *Spectrum) BinFrequency(k int) float64 {
	return float64(k) * s.FreqResolution()
}

// Magnitudes returns the magnitude of every stored bin
func (s *Spectrum) Magnitudes() []float64 {
	mags := make([]float64, len(s.Bins))
	for i, bin := range s.Bins {
		mags[i] = cmplx.Abs(bin)
	}
	return mags
}

// Phases returns the phase of every stored bin
func (s *Spectrum) Phases() []float64 {
	phases := make([]float64, len(s.Bins))
	for i, bin := range s.Bins {
		phases[i] = cmplx.Phase(bin)
	}
	return phases
}
