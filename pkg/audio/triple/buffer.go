// ABOUTME: Fixed-capacity interleaved sample buffer with an atomic role tag
// ABOUTME: Only the current role owner may touch the samples or the cursor
package triple

import (
	"fmt"
	"sync/atomic"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
)

// Buffer holds interleaved left/right int16 slots.
//
// samples and cursor are plain memory. They are handed between producer and
// consumer by the atomic role store that ends each role epoch, so whoever
// observes the new role also observes every write made before it.
type Buffer struct {
	role    atomic.Uint32
	index   int
	samples []int16
	cursor  int
}

func newBuffer(index, capacity int) *Buffer {
	return &Buffer{
		index:   index,
		samples: make([]int16, capacity),
	}
}

// Index returns the buffer's fixed position in the set
func (b *Buffer) Index() int { return b.index }

// Role returns the current role tag
func (b *Buffer) Role() Role { return Role(b.role.Load()) }

// Cap returns the number of int16 slots
func (b *Buffer) Cap() int { return len(b.samples) }

// Len returns the write cursor
func (b *Buffer) Len() int { return b.cursor }

// Full reports whether another stereo pair would not fit
func (b *Buffer) Full() bool { return b.cursor+audio.Stereo > len(b.samples) }

// Append writes one stereo pair at the cursor. Producer only.
func (b *Buffer) Append(s audio.Sample) bool {
	if b.Full() {
		return false
	}
	b.samples[b.cursor] = s[audio.Left]
	b.samples[b.cursor+1] = s[audio.Right]
	b.cursor += audio.Stereo
	return true
}

// Pad fills the rest of the buffer with silence and returns the number of
// slots written. Producer only.
func (b *Buffer) Pad() int {
	n := len(b.samples) - b.cursor
	clear(b.samples[b.cursor:])
	b.cursor = len(b.samples)
	return n
}

// Samples returns the written slots. Consumer only, while Reading.
func (b *Buffer) Samples() []int16 {
	return b.samples[:b.cursor]
}

// transition moves the role tag from one role to its successor.
// It returns false when the buffer is not in role from.
func (b *Buffer) transition(from, to Role) bool {
	if !from.CanTransition(to) {
		panic(fmt.Sprintf("triple: illegal role transition %s -> %s", from, to))
	}
	return b.role.CompareAndSwap(uint32(from), uint32(to))
}
