package buffer

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-pitch/dsp/core"
)

// DefaultChunkSize matches the render quantum of browser audio worklets.
const DefaultChunkSize = 128

var (
	ErrChunkSizeMismatch = errors.New("buffer: chunk size mismatch")
	ErrInvalidChunkSize  = errors.New("buffer: invalid chunk size")
	ErrInvalidChunkCount = errors.New("buffer: invalid chunk count")
)

// ChunksForWindow returns the smallest chunk count whose total length holds
// two full analysis windows of windowSize samples.
func ChunksForWindow(windowSize, chunkSize int) int {
	if windowSize <= 0 || chunkSize <= 0 {
		return 1
	}
	return (2*windowSize + chunkSize - 1) / chunkSize
}

// Ring is a fixed-capacity ring of equally sized sample chunks.
//
// The logical view is always the most recently pushed
// min(TotalPushed(), Cap()) samples, oldest first.
type Ring struct {
	chunkSize  int
	chunkCount int

	// store holds chunkCount slots of chunkSize samples each.
	store []float32

	next   int // slot written by the next Push
	stored int // occupied slots

	totalPushed int
}

// NewRing returns a ring holding up to chunkCount chunks of chunkSize samples.
func NewRing(chunkSize, chunkCount int) (*Ring, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, chunkSize)
	}
	if chunkCount <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkCount, chunkCount)
	}

	return &Ring{
		chunkSize:  chunkSize,
		chunkCount: chunkCount,
		store:      make([]float32, chunkSize*chunkCount),
	}, nil
}

// Push appends one chunk, evicting the oldest chunk when the ring is full.
// A chunk of the wrong length is rejected and the ring is left unchanged.
func (r *Ring) Push(chunk []float32) error {
	if len(chunk) != r.chunkSize {
		return fmt.Errorf("%w: expected %d samples, got %d", ErrChunkSizeMismatch, r.chunkSize, len(chunk))
	}

	offset := r.next * r.chunkSize
	copy(r.store[offset:offset+r.chunkSize], chunk)

	r.next = (r.next + 1) % r.chunkCount
	if r.stored < r.chunkCount {
		r.stored++
	}
	r.totalPushed += r.chunkSize

	return nil
}

// HasSufficientSamples reports whether every chunk slot has been filled.
func (r *Ring) HasSufficientSamples() bool {
	return r.stored == r.chunkCount
}

// Snapshot returns the absolute time of the oldest retained sample and a
// fresh oldest-to-newest copy of the retained samples.
func (r *Ring) Snapshot() (int, []float32) {
	return r.SnapshotInto(nil)
}

// SnapshotInto is like Snapshot but reuses dst's capacity when possible.
func (r *Ring) SnapshotInto(dst []float32) (int, []float32) {
	n := r.Len()
	dst = core.EnsureLen(dst, n)
	if n == 0 {
		return r.TimeOfFirstSample(), dst
	}

	// Oldest slot is next when full, 0 while still filling.
	oldest := 0
	if r.stored == r.chunkCount {
		oldest = r.next
	}

	split := oldest * r.chunkSize
	used := r.stored * r.chunkSize
	copied := copy(dst, r.store[split:used])
	copy(dst[copied:], r.store[:split])

	return r.TimeOfFirstSample(), dst
}

// TimeOfFirstSample returns the absolute index of the oldest retained sample.
func (r *Ring) TimeOfFirstSample() int {
	return r.totalPushed - r.Len()
}

// TotalPushed returns the number of samples pushed since creation or Reset.
func (r *Ring) TotalPushed() int { return r.totalPushed }

// Len returns the number of retained samples.
func (r *Ring) Len() int { return r.stored * r.chunkSize }

// Cap returns the maximum number of retained samples.
func (r *Ring) Cap() int { return len(r.store) }

// ChunkSize returns the fixed chunk length.
func (r *Ring) ChunkSize() int { return r.chunkSize }

// ChunkCount returns the number of chunk slots.
func (r *Ring) ChunkCount() int { return r.chunkCount }

// Reset drops all retained samples and rewinds absolute time to zero.
func (r *Ring) Reset() {
	core.Zero(r.store)
	r.next = 0
	r.stored = 0
	r.totalPushed = 0
}
