// ABOUTME: Stream writer feeding formatted stereo samples into the triple buffer
// ABOUTME: Applies channel policy, mono downmix and volume, and signals backpressure
package stream

import (
	"log"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/hw"
	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/triple"
)

// Observer receives producer-side events. Implementations must not block.
type Observer interface {
	BufferFlipped(frames int)
	SampleDropped()
	Flushed(elapsed time.Duration)
}

// Stats counts producer-side events
type Stats struct {
	Written int64
	Dropped int64
	Flips   int64
	Flushes int64
}

// Option configures a Writer
type Option func(*Writer)

// WithConfigurer sends clock requests to c whenever the rate changes
func WithConfigurer(c hw.Configurer) Option {
	return func(w *Writer) { w.configurer = c }
}

// WithObserver reports producer events to o
func WithObserver(o Observer) Option {
	return func(w *Writer) {
		if o != nil {
			w.observer = o
		}
	}
}

// WithYield replaces the function Flush calls between drain polls.
// The default is runtime.Gosched.
func WithYield(yield func()) Option {
	return func(w *Writer) {
		if yield != nil {
			w.yield = yield
		}
	}
}

// Writer is the producer side of the transmit path.
//
// Configuration methods and ConsumeSample, Flush and Stop belong to the
// producer goroutine. Volume, mute and Stats may be used from any goroutine.
type Writer struct {
	buffers    *triple.Coordinator
	configurer hw.Configurer
	observer   Observer
	yield      func()

	cfg Config

	volume atomic.Int32
	muted  atomic.Bool

	written atomic.Int64
	dropped atomic.Int64
	flips   atomic.Int64
	flushes atomic.Int64
}

// NewWriter creates a writer over buffers, starting at DefaultConfig and
// requesting the default clock from the configurer
func NewWriter(buffers *triple.Coordinator, opts ...Option) *Writer {
	w := &Writer{
		buffers:  buffers,
		observer: nopObserver{},
		yield:    runtime.Gosched,
		cfg:      DefaultConfig(),
	}
	w.volume.Store(100)
	for _, opt := range opts {
		opt(w)
	}
	w.SetRate(w.cfg.SampleRate)
	return w
}

// Begin is the lifecycle counterpart of Stop. Transmitter bring-up happens
// before the writer is used, so there is nothing to do.
func (w *Writer) Begin() bool {
	return true
}

// ConsumeSample formats one stereo pair and appends it to the write buffer.
// It never blocks: false means the pipeline is full and the sample was dropped.
func (w *Writer) ConsumeSample(s audio.Sample) bool {
	b := w.buffers.AcquireWriteBuffer()
	if b != nil && b.Full() {
		slots := b.Len()
		if !w.buffers.TryFlipWrite() {
			w.drop()
			return false
		}
		w.flipped(slots)
		b = w.buffers.AcquireWriteBuffer()
	}
	if b == nil {
		w.drop()
		return false
	}

	b.Append(w.format(s))
	w.written.Add(1)
	return true
}

// format normalizes a producer pair to the transmitted stereo pair
func (w *Writer) format(s audio.Sample) audio.Sample {
	if w.cfg.BitsPerSample == 8 {
		s[audio.Left] = audio.SampleFromUint8(s[audio.Left])
		s[audio.Right] = audio.SampleFromUint8(s[audio.Right])
	}

	if w.cfg.MonoDownmix && w.cfg.Channels == 2 {
		m := s.Mean()
		s[audio.Left], s[audio.Right] = m, m
	} else if w.cfg.Channels == 1 {
		s[audio.Right] = s[audio.Left]
	}

	return applyVolume(s, int(w.volume.Load()), w.muted.Load())
}

func (w *Writer) drop() {
	w.dropped.Add(1)
	w.observer.SampleDropped()
}

func (w *Writer) flipped(slots int) {
	w.flips.Add(1)
	w.observer.BufferFlipped(slots / audio.Stereo)
}

// SetVolume sets the volume (0-100)
func (w *Writer) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	w.volume.Store(int32(volume))
	log.Printf("Volume set to %d", volume)
}

// SetMuted sets mute state
func (w *Writer) SetMuted(muted bool) {
	w.muted.Store(muted)
	log.Printf("Muted: %v", muted)
}

// Volume returns current volume
func (w *Writer) Volume() int {
	return int(w.volume.Load())
}

// IsMuted returns mute state
func (w *Writer) IsMuted() bool {
	return w.muted.Load()
}

// Stats returns producer counters
func (w *Writer) Stats() Stats {
	return Stats{
		Written: w.written.Load(),
		Dropped: w.dropped.Load(),
		Flips:   w.flips.Load(),
		Flushes: w.flushes.Load(),
	}
}

// applyVolume scales both channels with clipping protection
func applyVolume(s audio.Sample, volume int, muted bool) audio.Sample {
	if muted {
		return audio.Sample{}
	}
	if volume >= 100 {
		return s
	}
	for i := range s {
		s[i] = audio.ClipInt16(int32(s[i]) * int32(volume) / 100)
	}
	return s
}

type nopObserver struct{}

func (nopObserver) BufferFlipped(int)     {}
func (nopObserver) SampleDropped()        {}
func (nopObserver) Flushed(time.Duration) {}
