package chroma

import (
	"sync"

	"github.com/RyanBlaney/sonido-spectral/algorithms/harmonic"
	"github.com/RyanBlaney/sonido-spectral/algorithms/spectral"
	"github.com/RyanBlaney/sonido-spectral/algorithms/windowing"
	"github.com/RyanBlaney/sonido-spectral/logging"
)

// HPCPgram computes a per-frame HPCP sequence over a whole signal: segment,
// transform, detect peaks, extract, one profile per frame. Frames are
// independent, so they are processed by a worker pool with results merged
// in stable frame order.
type HPCPgram struct {
	stft     *spectral.STFT
	detector *harmonic.PeakDetector
	hpcp     *HPCP
}

// NewHPCPgram creates the whole analysis chain. maxPeaks and minMagnitude
// configure the per-frame peak detection feeding the extractor.
func NewHPCPgram(params Params, maxPeaks int, minMagnitude float64) (*HPCPgram, error) {
	detector, err := harmonic.NewPeakDetector(maxPeaks, minMagnitude)
	if err != nil {
		return nil, err
	}

	hpcp, err := New(params)
	if err != nil {
		return nil, err
	}

	return &HPCPgram{
		stft:     spectral.NewSTFT(),
		detector: detector,
		hpcp:     hpcp,
	}, nil
}

// Compute returns one pitch class profile per analysis frame, in time
// order. An empty signal yields an empty result.
func (hg *HPCPgram) Compute(signal []float64, win *windowing.Window, hop, sampleRate int) ([][]float64, error) {
	seg, err := spectral.NewSegmenter(win.Size(), hop)
	if err != nil {
		return nil, err
	}

	seq := seg.Segment(signal)
	numFrames := seq.Len()
	profiles := make([][]float64, numFrames)

	numWorkers := max(min(numFrames, 8), 1)
	jobs := make(chan int, numFrames)

	var wg sync.WaitGroup
	var firstErr error
	var errOnce sync.Once

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for frameIdx := range jobs {
				frame := seq.At(frameIdx)

				spec, err := hg.stft.Transform(frame.Samples, win, sampleRate)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					continue
				}

				peaks := hg.detector.Detect(spec)
				profiles[frameIdx] = hg.hpcp.ComputeFromPeaks(peaks).HPCP
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

	if firstErr != nil {
		return nil, firstErr
	}

	logging.Debug("hpcpgram computed", logging.Fields{
		"frames": numFrames,
		"bins":   hg.hpcp.Params().Size,
	})

	return profiles, nil
}
