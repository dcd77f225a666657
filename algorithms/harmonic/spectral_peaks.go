// Package harmonic provides spectral peak detection with sub-bin
// refinement, the front end for tonal analysis.
package harmonic

import (
	"fmt"
	"math"
	"sort"

	"github.com/RyanBlaney/sonido-spectral/algorithms/common"
	"github.com/RyanBlaney/sonido-spectral/algorithms/spectral"
)

// logFloor keeps log-magnitude finite for zero bins during interpolation
const logFloor = 1e-12

// Peak represents a detected spectral peak
type Peak struct {
	Frequency float64 `json:"frequency"` // Peak frequency in Hz, sub-bin accurate
	Magnitude float64 `json:"magnitude"` // Refined peak magnitude
	Phase     float64 `json:"phase"`     // Phase at the nearest bin
	Bin       int     `json:"bin"`       // Original bin index of the local maximum
}

// PeakDetector scans magnitude spectra for local maxima and refines their
// frequency and magnitude by parabolic interpolation in the log-magnitude
// domain. Safe for concurrent use.
type PeakDetector struct {
	maxPeaks     int
	minMagnitude float64
}

// NewPeakDetector creates a peak detector. maxPeaks bounds how many peaks
// Detect returns (highest magnitude first); minMagnitude is the strict
// lower bound a local maximum must exceed to qualify.
func NewPeakDetector(maxPeaks int, minMagnitude float64) (*PeakDetector, error) {
	if maxPeaks < 0 {
		return nil, fmt.Errorf("max peaks must be non-negative, got %d: %w", maxPeaks, common.ErrInvalidConfiguration)
	}
	if minMagnitude < 0 {
		return nil, fmt.Errorf("min magnitude must be non-negative, got %g: %w", minMagnitude, common.ErrInvalidConfiguration)
	}

	return &PeakDetector{
		maxPeaks:     maxPeaks,
		minMagnitude: minMagnitude,
	}, nil
}

// Detect finds the spectral peaks of one spectrum, sorted by descending
// magnitude and truncated to the configured maximum. A spectrum with no
// qualifying local maxima yields an empty slice. Edge bins (DC and Nyquist)
// are never candidates.
func (pd *PeakDetector) Detect(spec *spectral.Spectrum) []Peak {
	mags := spec.Magnitudes()
	if len(mags) < 3 {
		return []Peak{}
	}

	phases := spec.Phases()
	resolution := spec.FreqResolution()

	var peaks []Peak
	for i := 1; i < len(mags)-1; i++ {
		if mags[i] <= mags[i-1] || mags[i] <= mags[i+1] || mags[i] <= pd.minMagnitude {
			continue
		}

		freq, mag := refinePeak(mags, i, resolution)
		peaks = append(peaks, Peak{
			Frequency: freq,
			Magnitude: mag,
			Phase:     phases[i],
			Bin:       i,
		})
	}

	// Sort by magnitude (descending); stable so equal peaks keep bin order
	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].Magnitude > peaks[j].Magnitude
	})

	if len(peaks) > pd.maxPeaks {
		peaks = peaks[:pd.maxPeaks]
	}
	if peaks == nil {
		peaks = []Peak{}
	}

	return peaks
}

// refinePeak fits a parabola through the three log-magnitudes around bin i.
// The vertex offset gives sub-bin frequency accuracy; the vertex value is
// the refined magnitude.
func refinePeak(mags []float64, i int, resolution float64) (freq, mag float64) {
	alpha := math.Log(mags[i-1] + logFloor)
	beta := math.Log(mags[i] + logFloor)
	gamma := math.Log(mags[i+1] + logFloor)

	denom := alpha - 2*beta + gamma
	if math.Abs(denom) < 1e-10 {
		return float64(i) * resolution, mags[i]
	}

	offset := 0.5 * (alpha - gamma) / denom
	refinedLogMag := beta - 0.25*(alpha-gamma)*offset

	return (float64(i) + offset) * resolution, math.Exp(refinedLogMag)
}
