package spectral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-spectral/algorithms/common"
)

func TestNewSegmenterValidation(t *testing.T) {
	cases := []struct {
		name      string
		frameSize int
		hop       int
	}{
		{"zero frame size", 0, 1},
		{"negative frame size", -4, 1},
		{"zero hop", 4, 0},
		{"negative hop", 4, -2},
		{"hop exceeds frame size", 4, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSegmenter(tc.frameSize, tc.hop)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
		})
	}
}

func TestSegmentZeroPad(t *testing.T) {
	seg, err := NewSegmenter(4, 2)
	require.NoError(t, err)

	samples := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	seq := seg.Segment(samples)
	assert.Equal(t, 5, seq.Len())

	var origins []int
	for {
		frame, ok := seq.Next()
		if !ok {
			break
		}
		origins = append(origins, frame.Origin)
		assert.Len(t, frame.Samples, 4)
	}
	assert.Equal(t, []int{0, 2, 4, 6, 8}, origins)

	// Tail frame carries the remaining samples plus zeros
	seq.Reset()
	tail := seq.At(4)
	assert.Equal(t, []float64{8, 9, 0, 0}, tail.Samples)
}

func TestSegmentDropTail(t *testing.T) {
	seg, err := NewSegmenter(4, 2, WithTailPolicy(DropTail))
	require.NoError(t, err)

	samples := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	seq := seg.Segment(samples)
	assert.Equal(t, 4, seq.Len())

	last := seq.At(3)
	assert.Equal(t, 6, last.Origin)
	assert.Equal(t, []float64{6, 7, 8, 9}, last.Samples)

	// Too-short input produces no frames
	short := seg.Segment([]float64{1, 2, 3})
	assert.Equal(t, 0, short.Len())
	_, ok := short.Next()
	assert.False(t, ok)
}

func TestSegmentRestartable(t *testing.T) {
	seg, err := NewSegmenter(3, 3)
	require.NoError(t, err)

	seq := seg.Segment([]float64{1, 2, 3, 4, 5, 6})

	first, ok := seq.Next()
	require.True(t, ok)
	assert.Equal(t, 0, first.Index)

	seq.Reset()
	again, ok := seq.Next()
	require.True(t, ok)
	assert.Equal(t, first.Samples, again.Samples)
	assert.Equal(t, 0, again.Index)
}

func TestSegmentAtMatchesNext(t *testing.T) {
	seg, err := NewSegmenter(4, 3)
	require.NoError(t, err)

	samples := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	seq := seg.Segment(samples)

	for i := 0; ; i++ {
		frame, ok := seq.Next()
		if !ok {
			break
		}
		at := seq.At(i)
		assert.Equal(t, frame.Samples, at.Samples)
		assert.Equal(t, frame.Origin, at.Origin)
		assert.Equal(t, i, frame.Index)
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	seg, err := NewSegmenter(4, 2)
	require.NoError(t, err)

	seq := seg.Segment(nil)
	assert.Equal(t, 0, seq.Len())
	_, ok := seq.Next()
	assert.False(t, ok)
}

func TestSegmentInteriorFramesAliasInput(t *testing.T) {
	seg, err := NewSegmenter(4, 4)
	require.NoError(t, err)

	samples := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	seq := seg.Segment(samples)

	frame := seq.At(1)
	samples[4] = 42
	assert.Equal(t, 42.0, frame.Samples[0])
}
