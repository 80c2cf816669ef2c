// ABOUTME: Timer-driven transmitter that drains one buffer per buffer period
// ABOUTME: Stands in for the DMA completion handler and forwards buffers to a Sink
package hw

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/triple"
)

// Sink receives the slots of each drained buffer
type Sink interface {
	WriteSlots(slots []int16) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(slots []int16) error

// WriteSlots calls f(slots)
func (f SinkFunc) WriteSlots(slots []int16) error {
	return f(slots)
}

// Clocked drains one buffer every capacity/rate seconds, the cadence a DMA
// engine completing whole-buffer transfers would have
type Clocked struct {
	buffers  *triple.Coordinator
	sink     Sink
	observer Observer

	rate      atomic.Int64
	drained   atomic.Int64
	underruns atomic.Int64
}

// NewClocked creates a clocked transmitter draining buffers
func NewClocked(buffers *triple.Coordinator, opts ...Option) *Clocked {
	o := buildOptions(opts)
	return &Clocked{
		buffers:  buffers,
		sink:     o.sink,
		observer: o.observer,
	}
}

// Configure sets the drain cadence from the requested bit clock.
// It takes effect at the next buffer boundary.
func (c *Clocked) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.rate.Store(int64(cfg.SampleRate()))
	return nil
}

// Period returns the time one buffer takes to transmit at the current rate
func (c *Clocked) Period() time.Duration {
	rate := c.rate.Load()
	if rate <= 0 {
		return 0
	}
	frames := int64(c.buffers.Capacity() / audio.Stereo)
	return time.Duration(frames) * time.Second / time.Duration(rate)
}

// Run drains buffers until ctx is done
func (c *Clocked) Run(ctx context.Context) error {
	period := c.Period()
	if period <= 0 {
		return ErrInvalidConfig
	}
	log.Printf("Clocked transmitter started: %dHz, %v per buffer", c.rate.Load(), period)

	timer := time.NewTimer(period)
	defer timer.Stop()

	starving := true
	for {
		select {
		case <-ctx.Done():
			log.Printf("Clocked transmitter stopped: %d buffers drained, %d underruns",
				c.drained.Load(), c.underruns.Load())
			return nil
		case <-timer.C:
		}

		if b := c.buffers.ConsumerTakeReadyBuffer(); b != nil {
			starving = false
			c.transmit(b.Samples())
		} else if !starving {
			// Count the transition into starvation, not every idle tick
			starving = true
			c.underruns.Add(1)
			c.observer.Underrun()
		}

		timer.Reset(c.Period())
	}
}

func (c *Clocked) transmit(slots []int16) {
	c.drained.Add(1)
	c.observer.BufferDrained(len(slots) / audio.Stereo)
	if c.sink == nil {
		return
	}
	if err := c.sink.WriteSlots(slots); err != nil {
		log.Printf("Sink write failed: %v", err)
	}
}

// Stats returns drain counters
func (c *Clocked) Stats() Stats {
	return Stats{
		Drained:   c.drained.Load(),
		Underruns: c.underruns.Load(),
	}
}
