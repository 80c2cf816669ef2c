// ABOUTME: Oto-based transmitter draining the buffer set into the system audio device
// ABOUTME: The device callback pulls PCM through an io.Reader over ready buffers
package hw

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/triple"
	"github.com/ebitengine/oto/v3"
)

// Oto drains buffers into the default audio device. The device clock paces
// the drain, so the oto player goroutine is the consumer context.
type Oto struct {
	reader *drainReader

	mu      sync.Mutex
	rate    int
	running bool
}

// NewOto creates an oto transmitter draining buffers.
// A Sink option is ignored: the device is the sink.
func NewOto(buffers *triple.Coordinator, opts ...Option) *Oto {
	o := buildOptions(opts)
	return &Oto{
		reader: &drainReader{buffers: buffers, observer: o.observer},
	}
}

// Configure records the sample rate for the next Run. oto allows a single
// context per process, so a running transmitter cannot change rate.
func (o *Oto) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	rate := cfg.SampleRate()
	if o.running && rate != o.rate {
		return fmt.Errorf("%w: %dHz -> %dHz", ErrReconfigure, o.rate, rate)
	}
	o.rate = rate
	return nil
}

// Run opens the audio device and plays until ctx is done
func (o *Oto) Run(ctx context.Context) error {
	o.mu.Lock()
	rate := o.rate
	if rate <= 0 {
		o.mu.Unlock()
		return ErrInvalidConfig
	}
	o.running = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	op := &oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: audio.Stereo,
		Format:       oto.FormatSignedInt16LE,
	}

	otoCtx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	player := otoCtx.NewPlayer(o.reader)
	player.Play()
	log.Printf("Audio output initialized: %dHz, %d channels", rate, audio.Stereo)

	<-ctx.Done()

	if err := player.Close(); err != nil {
		log.Printf("Warning: oto player close error: %v", err)
	}
	if err := otoCtx.Suspend(); err != nil {
		log.Printf("Warning: oto suspend error: %v", err)
	}

	stats := o.Stats()
	log.Printf("Audio output stopped: %d buffers drained, %d underruns", stats.Drained, stats.Underruns)
	return nil
}

// Stats returns drain counters
func (o *Oto) Stats() Stats {
	return Stats{
		Drained:   o.reader.drained.Load(),
		Underruns: o.reader.underruns.Load(),
	}
}

// drainReader serves ready buffers as little-endian int16 bytes. When nothing
// is ready it serves silence so the device keeps its clock.
type drainReader struct {
	buffers  *triple.Coordinator
	observer Observer

	cur []int16
	pos int

	starving  bool
	drained   atomic.Int64
	underruns atomic.Int64
}

func (r *drainReader) Read(p []byte) (int, error) {
	frameBytes := audio.Stereo * 2
	p = p[:len(p)-len(p)%frameBytes]

	n := 0
	for n < len(p) {
		if r.pos >= len(r.cur) {
			b := r.buffers.ConsumerTakeReadyBuffer()
			if b == nil {
				r.cur, r.pos = nil, 0
				break
			}
			r.cur, r.pos = b.Samples(), 0
			r.starving = false
			r.drained.Add(1)
			r.observer.BufferDrained(len(r.cur) / audio.Stereo)
		}
		binary.LittleEndian.PutUint16(p[n:], uint16(r.cur[r.pos]))
		r.pos++
		n += 2
	}

	if n > 0 {
		return n, nil
	}

	if !r.starving {
		r.starving = true
		r.underruns.Add(1)
		r.observer.Underrun()
	}
	clear(p)
	return len(p), nil
}
