package spectral

import (
	"fmt"

	"github.com/RyanBlaney/sonido-spectral/algorithms/common"
)

// TailPolicy controls what happens to trailing samples that don't fill a
// whole frame
type TailPolicy int

const (
	// ZeroPadTail pads the final partial frame with zeros so every sample
	// is covered
	ZeroPadTail TailPolicy = iota
	// DropTail discards trailing samples that don't fill a whole frame
	DropTail
)

// Frame is a fixed-length view into a sample sequence. Interior frames
// alias the caller's buffer; a zero-padded tail frame is the only copy.
type Frame struct {
	Samples []float64
	Index   int // frame number, 0-based
	Origin  int // sample offset of the first sample
}

// Segmenter slices a sample sequence into overlapping fixed-size frames at
// a fixed hop. Stateless: one Segmenter can produce any number of
// independent frame sequences.
type Segmenter struct {
	frameSize int
	hop       int
	tail      TailPolicy
}

// SegmenterOption configures a Segmenter
type SegmenterOption func(*Segmenter)

// WithTailPolicy overrides the default zero-pad tail handling
func WithTailPolicy(policy TailPolicy) SegmenterOption {
	return func(s *Segmenter) {
		s.tail = policy
	}
}

// NewSegmenter creates a segmenter for the given frame geometry
func NewSegmenter(frameSize, hop int, opts ...SegmenterOption) (*Segmenter, error) {
	if frameSize <= 0 {
		return nil, fmt.Errorf("frame size must be positive, got %d: %w", frameSize, common.ErrInvalidConfiguration)
	}
	if hop <= 0 {
		return nil, fmt.Errorf("hop size must be positive, got %d: %w", hop, common.ErrInvalidConfiguration)
	}
	if hop > frameSize {
		return nil, fmt.Errorf("hop size (%d) exceeds frame size (%d): %w", hop, frameSize, common.ErrInvalidConfiguration)
	}

	s := &Segmenter{
		frameSize: frameSize,
		hop:       hop,
		tail:      ZeroPadTail,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// FrameSize returns the configured frame length
func (s *Segmenter) FrameSize() int {
	return s.frameSize
}

// Hop returns the configured hop size
func (s *Segmenter) Hop() int {
	return s.hop
}

// NumFrames returns how many frames the segmenter produces for an input of
// the given length
func (s *Segmenter) NumFrames(numSamples int) int {
	if numSamples <= 0 {
		return 0
	}

	if s.tail == DropTail {
		if numSamples < s.frameSize {
			return 0
		}
		return (numSamples-s.frameSize)/s.hop + 1
	}

	// Zero-pad: a frame starts at every hop offset inside the input
	return (numSamples + s.hop - 1) / s.hop
}

// Segment returns a lazy, finite, restartable sequence of frames over the
// samples. The samples are borrowed for the lifetime of the sequence and
// never mutated.
func (s *Segmenter) Segment(samples []float64) *FrameSeq {
	return &FrameSeq{
		seg:     s,
		samples: samples,
		total:   s.NumFrames(len(samples)),
	}
}

// FrameSeq iterates frames on demand. Not safe for concurrent use; parallel
// consumers should index frames with At instead.
type FrameSeq struct {
	seg     *Segmenter
	samples []float64
	total   int
	next    int
	pad     []float64 // reused buffer for the zero-padded tail frame
}

// Len returns the total number of frames in the sequence
func (fs *FrameSeq) Len() int {
	return fs.total
}

// Reset rewinds the sequence to the first frame
func (fs *FrameSeq) Reset() {
	fs.next = 0
}

// Next returns the next frame. A zero-padded tail frame is only valid until
// the following Next call; interior frames alias the input and stay valid.
func (fs *FrameSeq) Next() (Frame, bool) {
	if fs.next >= fs.total {
		return Frame{}, false
	}

	frame := fs.frame(fs.next, &fs.pad)
	fs.next++
	return frame, true
}

// At returns frame i without advancing the sequence. Safe to call from
// multiple goroutines; padded tail frames are freshly allocated.
func (fs *FrameSeq) At(i int) Frame {
	if i < 0 || i >= fs.total {
		return Frame{}
	}
	return fs.frame(i, nil)
}

func (fs *FrameSeq) frame(i int, padBuf *[]float64) Frame {
	origin := i * fs.seg.hop
	end := origin + fs.seg.frameSize

	if end <= len(fs.samples) {
		return Frame{
			Samples: fs.samples[origin:end],
			Index:   i,
			Origin:  origin,
		}
	}

	// Tail frame: copy the remainder and zero-pad
	var buf []float64
	if padBuf != nil {
		if *padBuf == nil {
			*padBuf = make([]float64, fs.seg.frameSize)
		}
		buf = *padBuf
		clear(buf)
	} else {
		buf = make([]float64, fs.seg.frameSize)
	}
	copy(buf, fs.samples[origin:])

	return Frame{
		Samples: buf,
		Index:   i,
		Origin:  origin,
	}
}
