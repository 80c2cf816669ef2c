// ABOUTME: Triple buffering package for producer/consumer PCM handoff
// ABOUTME: Documents the role cycle and the concurrency contract
// Package triple implements the buffer set shared between an audio producer
// and a transmitter that drains at the audio clock rate.
//
// Each of the three buffers carries a role tag:
//
//	Free -> Writing -> Ready -> Reading -> Free
//
// The producer owns the Writing buffer and the consumer owns the Reading
// buffer. Every role change is a compare-and-swap on the tag, so neither side
// ever waits on a lock and the consumer side is safe to run from a
// latency-critical callback.
//
// Exactly one producer goroutine and one consumer goroutine may use a
// Coordinator.
//
// Example:
//
//	c, err := triple.New(512)
//
//	// producer
//	b := c.AcquireWriteBuffer()
//	if b.Full() && !c.TryFlipWrite() {
//	    // backpressure: drop or retry later
//	}
//
//	// consumer
//	if b := c.ConsumerTakeReadyBuffer(); b != nil {
//	    transmit(b.Samples())
//	}
package triple
