package spectral

import (
	"fmt"
	"math/cmplx"
	"runtime"
	"sync"

	"github.com/RyanBlaney/sonido-spectral/algorithms/common"
	"github.com/RyanBlaney/sonido-spectral/algorithms/windowing"
	"github.com/RyanBlaney/sonido-spectral/logging"
)

// STFT provides Short-Time Fourier Transform functionality
type STFT struct {
	fft *FFT
}

// STFTResult holds the result of STFT analysis
type STFTResult struct {
	Spectra        []*Spectrum `json:"-"`               // Per-frame half spectra, in time order
	Magnitude      [][]float64 `json:"magnitude"`       // Time x Frequency magnitude matrix
	Phase          [][]float64 `json:"phase"`           // Time x Frequency phase matrix
	TimeFrames     int         `json:"time_frames"`     // Number of time frames
	FreqBins       int         `json:"freq_bins"`       // Number of frequency bins
	SampleRate     int         `json:"sample_rate"`     // Sample rate
	WindowSize     int         `json:"window_size"`     // Analysis window size
	HopSize        int         `json:"hop_size"`        // Hop size between frames
	FreqResolution float64     `json:"freq_resolution"` // Frequency resolution (Hz/bin)
	TimeResolution float64     `json:"time_resolution"` // Time resolution (seconds/frame)
}

// NewSTFT creates a new STFT calculator
func NewSTFT() *STFT {
	return &STFT{
		fft: NewFFT(),
	}
}

// Transform computes the spectrum of a single frame: the frame is
// multiplied by the window, transformed, and only the non-negative
// frequency half is kept.
func (s *STFT) Transform(frame []float64, win *windowing.Window, sampleRate int) (*Spectrum, error) {
	if len(frame) != win.Size() {
		return nil, fmt.Errorf("frame length (%d) doesn't match window size (%d): %w",
			len(frame), win.Size(), common.ErrDimensionMismatch)
	}

	windowed, err := win.Apply(frame)
	if err != nil {
		return nil, err
	}

	full := s.fft.Compute(windowed)
	bins := make([]complex128, len(frame)/2+1)
	copy(bins, full[:len(bins)])

	return &Spectrum{
		Bins:       bins,
		SampleRate: sampleRate,
		FrameSize:  len(frame),
	}, nil
}

// Compute computes the STFT of a whole signal with parallel frame
// processing. The final partial frame is zero-padded; results are in stable
// frame order. An empty signal yields a zero-frame result, not an error.
func (s *STFT) Compute(signal []float64, win *windowing.Window, hop, sampleRate int) (*STFTResult, error) {
	seg, err := NewSegmenter(win.Size(), hop)
	if err != nil {
		return nil, err
	}

	windowSize := win.Size()
	freqBins := windowSize/2 + 1
	seq := seg.Segment(signal)
	numFrames := seq.Len()

	spectra := make([]*Spectrum, numFrames)
	magnitude := make([][]float64, numFrames)
	phase := make([][]float64, numFrames)
	for i := range numFrames {
		magnitude[i] = make([]float64, freqBins)
		phase[i] = make([]float64, freqBins)
	}

	numWorkers := optimalWorkerCount(numFrames)

	jobs := make(chan int, numFrames)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Reuse the windowing buffer for this worker
			frameBuffer := make([]float64, windowSize)

			for frameIdx := range jobs {
				frame := seq.At(frameIdx)

				copy(frameBuffer, frame.Samples)
				if err := win.ApplyInPlace(frameBuffer); err != nil {
					continue
				}

				full := s.fft.Compute(frameBuffer)
				bins := make([]complex128, freqBins)
				copy(bins, full[:freqBins])

				spectra[frameIdx] = &Spectrum{
					Bins:       bins,
					SampleRate: sampleRate,
					FrameSize:  windowSize,
				}
				for k, bin := range bins {
					magnitude[frameIdx][k] = cmplx.Abs(bin)
					phase[frameIdx][k] = cmplx.Phase(bin)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for frameIdx := range numFrames {
			jobs <- frameIdx
		}
	}()

	wg.Wait()

	logging.Debug("stft computed", logging.Fields{
		"frames":      numFrames,
		"window_size": windowSize,
		"hop_size":    hop,
	})

	return &STFTResult{
		Spectra:        spectra,
		Magnitude:      magnitude,
		Phase:          phase,
		TimeFrames:     numFrames,
		FreqBins:       freqBins,
		SampleRate:     sampleRate,
		WindowSize:     windowSize,
		HopSize:        hop,
		FreqResolution: float64(sampleRate) / float64(windowSize),
		TimeResolution: float64(hop) / float64(sampleRate),
	}, nil
}

// optimalWorkerCount sizes the worker pool to the workload
func optimalWorkerCount(numFrames int) int {
	numCPU := runtime.NumCPU()

	// For small workloads, don't over-parallelize
	if numFrames < 100 {
		return max(min(numCPU/2, numFrames), 1)
	}

	// Cap medium workloads, use everything for large ones
	if numFrames < 1000 {
		return min(numCPU, 8)
	}

	return numCPU
}
