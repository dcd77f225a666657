// Package chroma provides octave-folded pitch class representations of
// audio, built from spectral peaks.
package chroma

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-spectral/algorithms/common"
	"github.com/RyanBlaney/sonido-spectral/algorithms/harmonic"
	"github.com/RyanBlaney/sonido-spectral/algorithms/spectral"
)

// WeightType selects the kernel that spreads a peak's contribution over
// neighboring pitch class bins
type WeightType string

const (
	// WeightCosine is a raised cosine lobe over the weighting window
	WeightCosine WeightType = "cosine"
	// WeightTriangular is a linear falloff over the weighting window
	WeightTriangular WeightType = "triangular"
	// WeightNone assigns the whole contribution to the nearest bin
	WeightNone WeightType = "none"
)

// Params holds parameters for HPCP computation
type Params struct {
	Size          int        `json:"size"`            // Size of output HPCP vector (12, 24, 36, ...)
	ReferenceFreq float64    `json:"reference_freq"`  // Reference tuning frequency for A4 (440 Hz)
	Harmonics     int        `json:"harmonics"`       // Number of harmonic multiples per peak (1 = fundamental only)
	HarmonicDecay float64    `json:"harmonic_decay"`  // Scale of the 1/h harmonic falloff
	WindowSize    float64    `json:"window_size"`     // Weighting window half-width x2, in semitones
	WeightType    WeightType `json:"weight_type"`     // Contribution kernel shape
	MinFreq       float64    `json:"min_freq"`        // Minimum peak frequency to consider
	MaxFreq       float64    `json:"max_freq"`        // Maximum peak frequency to consider
	BandSplitFreq float64    `json:"band_split_freq"` // Low/high band split; 0 disables band processing
	Normalized    bool       `json:"normalized"`      // Normalize output to unit maximum
	NonLinear     bool       `json:"non_linear"`      // Apply non-linear post-processing (requires Normalized)
}

// DefaultParams returns the standard HPCP configuration: 12 semitone bins
// anchored at A4 = 440 Hz, fundamentals only, one-semitone cosine kernel.
func DefaultParams() Params {
	return Params{
		Size:          12,
		ReferenceFreq: 440.0,
		Harmonics:     1,
		HarmonicDecay: 1.0,
		WindowSize:    1.0,
		WeightType:    WeightCosine,
		MinFreq:       40.0,
		MaxFreq:       5000.0,
		BandSplitFreq: 0.0,
		Normalized:    true,
		NonLinear:     false,
	}
}

// Result contains the result of HPCP computation
type Result struct {
	HPCP       []float64 `json:"hpcp"`       // Harmonic pitch class profile
	Size       int       `json:"size"`       // Size of HPCP vector
	Resolution float64   `json:"resolution"` // Semitones per bin
	RefFreq    float64   `json:"ref_freq"`   // Reference frequency used
	Energy     float64   `json:"energy"`     // L2 norm of the profile
	Entropy    float64   `json:"entropy"`    // Entropy of the distribution
}

// HPCP computes a Harmonic Pitch Class Profile from spectral peaks.
// Immutable after construction and safe for concurrent use.
type HPCP struct {
	params          Params
	harmonicWeights []float64 // index h in [1, Harmonics]
	normalizer      *common.Normalizer
}

// New creates an HPCP extractor, validating all parameters up front
func New(params Params) (*HPCP, error) {
	if params.Size <= 0 {
		return nil, fmt.Errorf("hpcp size must be positive, got %d: %w", params.Size, common.ErrInvalidConfiguration)
	}
	if params.ReferenceFreq <= 0 {
		return nil, fmt.Errorf("reference frequency must be positive, got %g: %w", params.ReferenceFreq, common.ErrInvalidConfiguration)
	}
	if params.Harmonics <= 0 {
		return nil, fmt.Errorf("harmonics must be positive, got %d: %w", params.Harmonics, common.ErrInvalidConfiguration)
	}
	if params.HarmonicDecay <= 0 {
		return nil, fmt.Errorf("harmonic decay must be positive, got %g: %w", params.HarmonicDecay, common.ErrInvalidConfiguration)
	}
	if params.WindowSize <= 0 {
		return nil, fmt.Errorf("weighting window size must be positive, got %g: %w", params.WindowSize, common.ErrInvalidConfiguration)
	}
	switch params.WeightType {
	case WeightCosine, WeightTriangular, WeightNone:
	default:
		return nil, fmt.Errorf("unknown weight type %q: %w", params.WeightType, common.ErrInvalidConfiguration)
	}
	if params.MinFreq < 0 || params.MaxFreq < params.MinFreq {
		return nil, fmt.Errorf("invalid frequency range [%g, %g]: %w", params.MinFreq, params.MaxFreq, common.ErrInvalidConfiguration)
	}

	// Harmonic h contributes at h times the peak frequency. The fundamental
	// keeps full weight; higher harmonics fall off as HarmonicDecay/h.
	weights := make([]float64, params.Harmonics+1)
	weights[1] = 1.0
	for h := 2; h <= params.Harmonics; h++ {
		weights[h] = params.HarmonicDecay / float64(h)
	}

	return &HPCP{
		params:          params,
		harmonicWeights: weights,
		normalizer:      common.NewNormalizer(common.Peak),
	}, nil
}

// Params returns the extractor's configuration
func (h *HPCP) Params() Params {
	return h.params
}

// ComputeFromPeaks accumulates every peak (and its harmonic series) into a
// pitch class vector. Peaks outside [MinFreq, MaxFreq] or at non-positive
// frequencies are skipped; no qualifying peaks yields an all-zero profile.
func (h *HPCP) ComputeFromPeaks(peaks []harmonic.Peak) *Result {
	size := h.params.Size
	profile := make([]float64, size)

	var low []float64
	bandSplit := h.params.BandSplitFreq > 0
	if bandSplit {
		low = make([]float64, size)
	}

	for _, peak := range peaks {
		if peak.Frequency <= 0 || peak.Magnitude <= 0 {
			continue
		}
		if peak.Frequency < h.params.MinFreq || peak.Frequency > h.params.MaxFreq {
			continue
		}

		target := profile
		if bandSplit && peak.Frequency < h.params.BandSplitFreq {
			target = low
		}

		for harm := 1; harm <= h.params.Harmonics; harm++ {
			freq := peak.Frequency * float64(harm)
			weight := peak.Magnitude * h.harmonicWeights[harm]
			h.addContribution(target, freq, weight)
		}
	}

	if bandSplit {
		// Normalize the bands independently before summing so a loud low
		// band can't mask the high one, then normalize the sum
		if h.params.Normalized {
			h.normalizer.NormalizeInPlace(low)
			h.normalizer.NormalizeInPlace(profile)
		}
		for i := range profile {
			profile[i] += low[i]
		}
	}

	if h.params.Normalized {
		h.normalizer.NormalizeInPlace(profile)

		if h.params.NonLinear {
			h.applyNonLinear(profile)
		}
	}

	return &Result{
		HPCP:       profile,
		Size:       size,
		Resolution: 12.0 / float64(size),
		RefFreq:    h.params.ReferenceFreq,
		Energy:     common.Energy(profile),
		Entropy:    common.Entropy(profile),
	}
}

// ComputeFromSpectrum runs peak detection on a spectrum and extracts the
// profile from the result
func (h *HPCP) ComputeFromSpectrum(spec *spectral.Spectrum, detector *harmonic.PeakDetector) *Result {
	return h.ComputeFromPeaks(detector.Detect(spec))
}

// addContribution spreads one weighted frequency over the pitch class bins
// around its position. The pitch class circle wraps: bin 0 neighbors bin
// size-1, handled with modular index arithmetic.
func (h *HPCP) addContribution(target []float64, freq, weight float64) {
	size := float64(h.params.Size)
	position := size * math.Log2(freq/h.params.ReferenceFreq)

	resolution := size / 12.0 // bins per semitone
	windowBins := resolution * h.params.WindowSize

	if h.params.WeightType == WeightNone {
		bin := int(math.Round(position))
		target[wrapBin(bin, h.params.Size)] += weight
		return
	}

	left := int(math.Ceil(position - windowBins/2))
	right := int(math.Floor(position + windowBins/2))

	for i := left; i <= right; i++ {
		// Distance from the kernel center, normalized to [0, 0.5]
		distance := math.Abs(position-float64(i)) / windowBins

		var kernelWeight float64
		switch h.params.WeightType {
		case WeightTriangular:
			kernelWeight = 1.0 - 2.0*distance
		default:
			kernelWeight = math.Cos(math.Pi * distance)
		}
		if kernelWeight <= 0 {
			continue
		}

		target[wrapBin(i, h.params.Size)] += weight * kernelWeight
	}
}

// applyNonLinear applies the sin^2 shaping that suppresses weak bins.
// Operates on a unit-max profile.
func (h *HPCP) applyNonLinear(profile []float64) {
	for i, val := range profile {
		shaped := math.Sin(val * math.Pi / 2.0)
		shaped *= shaped
		if shaped < 0.6 {
			shaped *= (shaped / 0.6) * (shaped / 0.6)
		}
		profile[i] = shaped
	}
}

// wrapBin maps any integer onto [0, size) on the pitch class circle
func wrapBin(bin, size int) int {
	wrapped := bin % size
	if wrapped < 0 {
		wrapped += size
	}
	return wrapped
}
