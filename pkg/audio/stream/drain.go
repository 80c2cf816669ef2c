// ABOUTME: End-of-stream draining for the stream writer
// ABOUTME: Publishes the final partial buffer and waits for the transmitter to empty the set
package stream

import (
	"context"
	"log"
	"time"
)

// Flush pads the current write buffer with silence, publishes it and waits
// until the transmitter has drained every buffer.
//
// Flush spins without a timeout: a transmitter that never drains hangs the
// caller. Use FlushContext to bound the wait. Never call it from a
// latency-sensitive producer loop.
func (w *Writer) Flush() {
	_ = w.FlushContext(context.Background())
}

// FlushContext is Flush with a caller-imposed bound. It returns ctx.Err() if
// ctx ends before the set is empty; buffers already published stay queued.
func (w *Writer) FlushContext(ctx context.Context) error {
	start := time.Now()

	published := w.publishPadded()
	if !published {
		// One immediate retry in case the transmitter was mid-release
		published = w.publishPadded()
	}

	for !w.buffers.IsEmpty() {
		if !published {
			published = w.buffers.TryFlipWrite()
			if published {
				w.flipped(w.buffers.Capacity())
			}
		}
		if err := ctx.Err(); err != nil {
			log.Printf("Flush abandoned after %v: %v", time.Since(start), err)
			return err
		}
		w.yield()
	}

	elapsed := time.Since(start)
	w.flushes.Add(1)
	w.observer.Flushed(elapsed)
	log.Printf("Flush complete in %v", elapsed)
	return nil
}

// publishPadded fills the write buffer with silence and tries to flip it
func (w *Writer) publishPadded() bool {
	b := w.buffers.AcquireWriteBuffer()
	if b == nil {
		return false
	}
	b.Pad()
	if !w.buffers.TryFlipWrite() {
		return false
	}
	w.flipped(w.buffers.Capacity())
	return true
}

// Stop drains the stream. It is the last call before the transmitter is
// released.
func (w *Writer) Stop() bool {
	w.Flush()
	log.Printf("Stream stopped: %d written, %d dropped", w.written.Load(), w.dropped.Load())
	return true
}
