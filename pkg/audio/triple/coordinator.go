// ABOUTME: Triple buffer coordinator for single-producer/single-consumer PCM handoff
// ABOUTME: Rotates buffer ownership with atomic role tags instead of a mutex
package triple

import (
	"errors"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
)

// NumBuffers is the size of the buffer set
const NumBuffers = 3

// ErrInvalidCapacity is returned for capacities that cannot hold whole stereo pairs
var ErrInvalidCapacity = errors.New("triple: capacity must be a positive multiple of 2")

// Coordinator arbitrates three buffers between one producer and one consumer.
//
// Buffers are written and drained in ring order, so the only buffer the
// producer can ever move to is the successor of its current one and the
// consumer always drains the oldest published buffer first.
//
// Producer methods: AcquireWriteBuffer, TryFlipWrite, IsEmpty.
// Consumer methods: ConsumerTakeReadyBuffer.
// Roles may be called from anywhere.
type Coordinator struct {
	buffers [NumBuffers]*Buffer

	// producer owned
	writeIdx int
	writing  bool

	// consumer owned
	readIdx int
	reading bool
}

// New creates a coordinator whose buffers each hold capacity int16 slots
func New(capacity int) (*Coordinator, error) {
	if capacity <= 0 || capacity%audio.Stereo != 0 {
		return nil, ErrInvalidCapacity
	}

	c := &Coordinator{}
	for i := range c.buffers {
		c.buffers[i] = newBuffer(i, capacity)
	}
	return c, nil
}

// Capacity returns the slot count of each buffer
func (c *Coordinator) Capacity() int {
	return c.buffers[0].Cap()
}

// AcquireWriteBuffer returns the buffer owned for writing, claiming the next
// free buffer when none is active. It never blocks; nil means no buffer could
// be claimed.
func (c *Coordinator) AcquireWriteBuffer() *Buffer {
	b := c.buffers[c.writeIdx]
	if c.writing {
		return b
	}
	if !b.transition(Free, Writing) {
		return nil
	}
	b.cursor = 0
	c.writing = true
	return b
}

// TryFlipWrite publishes the current write buffer as Ready and hands write
// ownership to the next free buffer, which is claimed by the following
// AcquireWriteBuffer.
//
// It returns false, changing nothing, when the next buffer is still Ready or
// Reading: the producer is outrunning the consumer. It also returns false
// when there is no active write buffer to publish.
func (c *Coordinator) TryFlipWrite() bool {
	if !c.writing {
		return false
	}
	next := (c.writeIdx + 1) % NumBuffers
	if c.buffers[next].Role() != Free {
		return false
	}
	c.buffers[c.writeIdx].transition(Writing, Ready)
	c.writeIdx = next
	c.writing = false
	return true
}

// ConsumerTakeReadyBuffer releases the buffer the consumer was draining and
// returns the next Ready buffer, now Reading. It returns nil when nothing is
// ready, which for a clocked consumer is an underrun.
func (c *Coordinator) ConsumerTakeReadyBuffer() *Buffer {
	if c.reading {
		c.buffers[c.readIdx].transition(Reading, Free)
		c.readIdx = (c.readIdx + 1) % NumBuffers
		c.reading = false
	}

	b := c.buffers[c.readIdx]
	if !b.transition(Ready, Reading) {
		return nil
	}
	c.reading = true
	return b
}

// IsEmpty reports whether every buffer is Free, i.e. the pipeline has
// fully drained
func (c *Coordinator) IsEmpty() bool {
	for _, b := range c.buffers {
		if b.Role() != Free {
			return false
		}
	}
	return true
}

// Roles returns a snapshot of the role tags in buffer order. The snapshot is
// not atomic across buffers.
func (c *Coordinator) Roles() [NumBuffers]Role {
	var roles [NumBuffers]Role
	for i, b := range c.buffers {
		roles[i] = b.Role()
	}
	return roles
}
