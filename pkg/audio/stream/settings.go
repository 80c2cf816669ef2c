// ABOUTME: Stream writer configuration operations
// ABOUTME: Each setter validates first and leaves state untouched on rejection
package stream

import (
	"log"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/hw"
)

// SetRate stores the sample rate and requests the matching bit clock.
// Any positive rate is accepted; a configurer failure is only logged.
func (w *Writer) SetRate(hz int) bool {
	if hz <= 0 {
		return false
	}
	w.cfg.SampleRate = hz

	if w.configurer == nil {
		return true
	}
	req := hw.Config{
		BitClockHz: w.cfg.Format().BitClock(),
		WordSize:   audio.SlotBits,
		Mode:       hw.TransferDMA,
	}
	if err := w.configurer.Configure(req); err != nil {
		log.Printf("Warning: clock configuration for %dHz failed: %v", hz, err)
	}
	return true
}

// Rate returns the configured sample rate
func (w *Writer) Rate() int {
	return w.cfg.SampleRate
}

// SetBitsPerSample accepts 8 or 16
func (w *Writer) SetBitsPerSample(bits int) bool {
	if !validBitsPerSample(bits) {
		return false
	}
	w.cfg.BitsPerSample = bits
	return true
}

// BitsPerSample returns the configured input bit depth
func (w *Writer) BitsPerSample() int {
	return w.cfg.BitsPerSample
}

// SetChannels accepts 1 or 2
func (w *Writer) SetChannels(n int) bool {
	if !validChannels(n) {
		return false
	}
	w.cfg.Channels = n
	return true
}

// Channels returns the configured channel count
func (w *Writer) Channels() int {
	return w.cfg.Channels
}

// SetMonoDownmix collapses stereo input to mono on both output channels
func (w *Writer) SetMonoDownmix(enabled bool) bool {
	w.cfg.MonoDownmix = enabled
	return true
}

// MonoDownmix reports whether downmix is enabled
func (w *Writer) MonoDownmix() bool {
	return w.cfg.MonoDownmix
}

// Config returns the current stream configuration
func (w *Writer) Config() Config {
	return w.cfg
}

// Apply sets the whole configuration, or nothing if any field is invalid.
// The rate is only re-requested from the configurer when it changes.
func (w *Writer) Apply(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	rateChanged := cfg.SampleRate != w.cfg.SampleRate
	w.cfg.BitsPerSample = cfg.BitsPerSample
	w.cfg.Channels = cfg.Channels
	w.cfg.MonoDownmix = cfg.MonoDownmix
	if rateChanged {
		w.SetRate(cfg.SampleRate)
	}

	log.Printf("Stream configured: %dHz, %d-bit, %d channels, downmix=%v",
		w.cfg.SampleRate, w.cfg.BitsPerSample, w.cfg.Channels, w.cfg.MonoDownmix)
	return nil
}
