// ABOUTME: Hardware collaborator contracts for the transmit path
// ABOUTME: Clock/frame configuration requests and drain-side transmitter interface
package hw

import (
	"context"
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
)

// TransferMode selects how the transmitter is fed
type TransferMode int

const (
	// TransferDMA feeds the transmitter from DMA completion events
	TransferDMA TransferMode = iota
	// TransferInterrupt feeds the transmitter from its FIFO interrupt
	TransferInterrupt
)

// String returns the mode name
func (m TransferMode) String() string {
	switch m {
	case TransferDMA:
		return "dma"
	case TransferInterrupt:
		return "interrupt"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

var (
	// ErrInvalidConfig is returned for clock or word sizes the transmitter cannot use
	ErrInvalidConfig = errors.New("hw: invalid clock configuration")
	// ErrReconfigure is returned when a running transmitter cannot change clock
	ErrReconfigure = errors.New("hw: transmitter cannot be reconfigured while running")
)

// Config is a clock and frame format request
type Config struct {
	BitClockHz uint32
	WordSize   int
	Mode       TransferMode
}

// SampleRate returns the frame rate implied by the bit clock, assuming two
// slots of WordSize bits per frame
func (c Config) SampleRate() int {
	if c.WordSize <= 0 {
		return 0
	}
	return int(c.BitClockHz) / (c.WordSize * audio.Stereo)
}

// Validate checks that the request describes a usable clock
func (c Config) Validate() error {
	if c.WordSize != audio.SlotBits {
		return fmt.Errorf("%w: word size %d (supported: %d)", ErrInvalidConfig, c.WordSize, audio.SlotBits)
	}
	if c.SampleRate() <= 0 {
		return fmt.Errorf("%w: bit clock %dHz", ErrInvalidConfig, c.BitClockHz)
	}
	return nil
}

// Configurer programs the serial-audio clock and frame format.
// Configure is synchronous and never touches sample buffers.
type Configurer interface {
	Configure(cfg Config) error
}

// ConfigurerFunc adapts a function to Configurer
type ConfigurerFunc func(cfg Config) error

// Configure calls f(cfg)
func (f ConfigurerFunc) Configure(cfg Config) error {
	return f(cfg)
}

// Stats counts drain-side events
type Stats struct {
	Drained   int64
	Underruns int64
}

// Observer receives drain-side events. Implementations must not block.
type Observer interface {
	BufferDrained(frames int)
	Underrun()
}

// Transmitter drains ready buffers at the audio clock rate.
//
// Run is the consumer context of a triple.Coordinator: it is the only caller
// of ConsumerTakeReadyBuffer and returns once ctx is done.
type Transmitter interface {
	Configurer
	Run(ctx context.Context) error
	Stats() Stats
}

// Option configures a transmitter
type Option func(*options)

type options struct {
	sink     Sink
	observer Observer
}

// WithSink forwards drained buffers to s
func WithSink(s Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithObserver reports drain events to obs
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{observer: nopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type nopObserver struct{}

func (nopObserver) BufferDrained(int) {}
func (nopObserver) Underrun()         {}
