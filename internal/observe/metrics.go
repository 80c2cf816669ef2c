// ABOUTME: OpenTelemetry instruments for the transmit path
// ABOUTME: Records writer and transmitter events as counters and a flush histogram
// Package observe provides metrics for the player: OpenTelemetry instruments
// fed by the stream writer and the transmitter, exported for Prometheus.
//
// Metrics satisfies both stream.Observer and hw.Observer, so one instance
// can be handed to each side of the buffer set. Tests should use NewMetrics
// with their own MeterProvider.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope for every player metric
const meterName = "github.com/Resonate-Protocol/i2sout-go"

// Metrics holds the player's metric instruments. All fields are safe for
// concurrent use.
type Metrics struct {
	// producer side

	// FramesPublished counts frames in buffers handed to the transmitter
	FramesPublished metric.Int64Counter

	// BufferFlips counts buffers published by the writer
	BufferFlips metric.Int64Counter

	// SamplesDropped counts pairs rejected under backpressure
	SamplesDropped metric.Int64Counter

	// Flushes counts completed end-of-stream drains
	Flushes metric.Int64Counter

	// FlushDuration tracks how long a drain takes
	FlushDuration metric.Float64Histogram

	// consumer side

	// BuffersDrained counts buffers the transmitter finished
	BuffersDrained metric.Int64Counter

	// FramesDrained counts frames clocked out
	FramesDrained metric.Int64Counter

	// Underruns counts transitions into starvation
	Underruns metric.Int64Counter
}

// flushBuckets are histogram boundaries in seconds. A drain takes up to three
// buffer periods, so they stay well under a second.
var flushBuckets = []float64{
	0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1,
}

// NewMetrics creates every instrument on mp
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.FramesPublished, err = m.Int64Counter("i2sout.writer.frames",
		metric.WithDescription("Frames published to the transmitter."),
		metric.WithUnit("{frame}"),
	); err != nil {
		return nil, err
	}
	if met.BufferFlips, err = m.Int64Counter("i2sout.writer.flips",
		metric.WithDescription("Buffers published by the stream writer."),
	); err != nil {
		return nil, err
	}
	if met.SamplesDropped, err = m.Int64Counter("i2sout.writer.dropped",
		metric.WithDescription("Stereo pairs dropped because every buffer was busy."),
	); err != nil {
		return nil, err
	}
	if met.Flushes, err = m.Int64Counter("i2sout.writer.flushes",
		metric.WithDescription("Completed end-of-stream drains."),
	); err != nil {
		return nil, err
	}
	if met.FlushDuration, err = m.Float64Histogram("i2sout.writer.flush.duration",
		metric.WithDescription("Time from flush start until every buffer was free."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(flushBuckets...),
	); err != nil {
		return nil, err
	}

	if met.BuffersDrained, err = m.Int64Counter("i2sout.transmitter.buffers",
		metric.WithDescription("Buffers clocked out by the transmitter."),
	); err != nil {
		return nil, err
	}
	if met.FramesDrained, err = m.Int64Counter("i2sout.transmitter.frames",
		metric.WithDescription("Frames clocked out by the transmitter."),
		metric.WithUnit("{frame}"),
	); err != nil {
		return nil, err
	}
	if met.Underruns, err = m.Int64Counter("i2sout.transmitter.underruns",
		metric.WithDescription("Times the transmitter found no ready buffer."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// BufferFlipped records a published buffer
func (m *Metrics) BufferFlipped(frames int) {
	ctx := context.Background()
	m.BufferFlips.Add(ctx, 1)
	m.FramesPublished.Add(ctx, int64(frames))
}

// SampleDropped records a rejected pair
func (m *Metrics) SampleDropped() {
	m.SamplesDropped.Add(context.Background(), 1)
}

// Flushed records a completed drain
func (m *Metrics) Flushed(elapsed time.Duration) {
	ctx := context.Background()
	m.Flushes.Add(ctx, 1)
	m.FlushDuration.Record(ctx, elapsed.Seconds())
}

// BufferDrained records a buffer the transmitter finished
func (m *Metrics) BufferDrained(frames int) {
	ctx := context.Background()
	m.BuffersDrained.Add(ctx, 1)
	m.FramesDrained.Add(ctx, int64(frames))
}

// Underrun records the transmitter starving
func (m *Metrics) Underrun() {
	m.Underruns.Add(context.Background(), 1)
}
