package harmonic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-spectral/algorithms/common"
	"github.com/RyanBlaney/sonido-spectral/algorithms/spectral"
)

// spectrumFromMagnitudes builds a half spectrum with the given bin
// magnitudes (zero phase)
func spectrumFromMagnitudes(mags []float64, sampleRate, frameSize int) *spectral.Spectrum {
	bins := make([]complex128, len(mags))
	for i, m := range mags {
		bins[i] = complex(m, 0)
	}
	return &spectral.Spectrum{
		Bins:       bins,
		SampleRate: sampleRate,
		FrameSize:  frameSize,
	}
}

func TestNewPeakDetectorValidation(t *testing.T) {
	_, err := NewPeakDetector(-1, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	_, err = NewPeakDetector(10, -0.5)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	_, err = NewPeakDetector(10, 0)
	assert.NoError(t, err)
}

func TestDetectIsolatedPeak(t *testing.T) {
	const (
		frameSize  = 64
		sampleRate = 6400 // 100 Hz per bin
	)

	// One exact-bin peak, exact-zero neighbors: the parabola is flat in
	// offset, so frequency and magnitude come back unrefined
	mags := make([]float64, frameSize/2+1)
	mags[8] = 32.0

	detector, err := NewPeakDetector(10, 1e-6)
	require.NoError(t, err)

	peaks := detector.Detect(spectrumFromMagnitudes(mags, sampleRate, frameSize))
	require.Len(t, peaks, 1)
	assert.Equal(t, 8, peaks[0].Bin)
	assert.InDelta(t, 800.0, peaks[0].Frequency, 100.0) // within one bin width
	assert.InDelta(t, 32.0, peaks[0].Magnitude, 1e-6)
}

func TestDetectSubBinRefinement(t *testing.T) {
	const (
		frameSize  = 128
		sampleRate = 12800 // 100 Hz per bin
		center     = 10.3  // true peak position in bins
		sigma      = 1.5
	)

	// A Gaussian lobe is an exact parabola in the log domain, so the
	// refinement must recover the fractional center almost exactly
	mags := make([]float64, frameSize/2+1)
	for k := range mags {
		d := float64(k) - center
		mags[k] = 100.0 * math.Exp(-d*d/(2*sigma*sigma))
	}

	detector, err := NewPeakDetector(1, 1e-3)
	require.NoError(t, err)

	peaks := detector.Detect(spectrumFromMagnitudes(mags, sampleRate, frameSize))
	require.Len(t, peaks, 1)
	assert.InDelta(t, center*100.0, peaks[0].Frequency, 1e-3)
	assert.InDelta(t, 100.0, peaks[0].Magnitude, 1e-3)
}

func TestDetectSortsAndTruncates(t *testing.T) {
	mags := make([]float64, 33)
	mags[5] = 1.0
	mags[12] = 3.0
	mags[20] = 2.0

	detector, err := NewPeakDetector(2, 0)
	require.NoError(t, err)

	peaks := detector.Detect(spectrumFromMagnitudes(mags, 8000, 64))
	require.Len(t, peaks, 2)
	assert.Equal(t, 12, peaks[0].Bin)
	assert.Equal(t, 20, peaks[1].Bin)
	assert.Greater(t, peaks[0].Magnitude, peaks[1].Magnitude)
}

func TestDetectEdgeBinsExcluded(t *testing.T) {
	// Maxima sitting on DC and Nyquist are not peaks
	mags := make([]float64, 33)
	mags[0] = 5.0
	mags[32] = 5.0

	detector, err := NewPeakDetector(10, 0)
	require.NoError(t, err)

	peaks := detector.Detect(spectrumFromMagnitudes(mags, 8000, 64))
	assert.Empty(t, peaks)
}

func TestDetectThresholdIsStrict(t *testing.T) {
	mags := make([]float64, 33)
	mags[10] = 1.0

	detector, err := NewPeakDetector(10, 1.0)
	require.NoError(t, err)

	// Magnitude equal to the threshold does not qualify
	peaks := detector.Detect(spectrumFromMagnitudes(mags, 8000, 64))
	assert.Empty(t, peaks)

	detector, err = NewPeakDetector(10, 0.99)
	require.NoError(t, err)
	peaks = detector.Detect(spectrumFromMagnitudes(mags, 8000, 64))
	assert.Len(t, peaks, 1)
}

func TestDetectSilence(t *testing.T) {
	detector, err := NewPeakDetector(10, 0)
	require.NoError(t, err)

	peaks := detector.Detect(spectrumFromMagnitudes(make([]float64, 33), 8000, 64))
	assert.NotNil(t, peaks)
	assert.Empty(t, peaks)
}

func TestDetectZeroMaxPeaks(t *testing.T) {
	mags := make([]float64, 33)
	mags[10] = 1.0

	detector, err := NewPeakDetector(0, 0)
	require.NoError(t, err)

	peaks := detector.Detect(spectrumFromMagnitudes(mags, 8000, 64))
	assert.Empty(t, peaks)
}
