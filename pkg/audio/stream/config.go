// ABOUTME: Stream configuration for the writer
// ABOUTME: Sample rate, bit depth, channel count and mono downmix with validation
package stream

import (
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
)

// DefaultSampleRate is the rate a new writer starts with
const DefaultSampleRate = 16000

// ErrInvalidConfig is returned by Config.Validate
var ErrInvalidConfig = errors.New("stream: invalid config")

// Config is the writer's stream format
type Config struct {
	SampleRate    int
	BitsPerSample int
	Channels      int
	MonoDownmix   bool
}

// DefaultConfig returns 16kHz 16-bit stereo without downmix
func DefaultConfig() Config {
	return Config{
		SampleRate:    DefaultSampleRate,
		BitsPerSample: 16,
		Channels:      2,
	}
}

// Validate checks every field and reports all problems at once
func (c Config) Validate() error {
	var errs []error
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: sample rate %d must be positive", ErrInvalidConfig, c.SampleRate))
	}
	if !validBitsPerSample(c.BitsPerSample) {
		errs = append(errs, fmt.Errorf("%w: bits per sample %d (supported: 8, 16)", ErrInvalidConfig, c.BitsPerSample))
	}
	if !validChannels(c.Channels) {
		errs = append(errs, fmt.Errorf("%w: channels %d (supported: 1, 2)", ErrInvalidConfig, c.Channels))
	}
	return errors.Join(errs...)
}

// Format returns the audio format described by c
func (c Config) Format() audio.Format {
	return audio.Format{
		SampleRate: c.SampleRate,
		Channels:   c.Channels,
		BitDepth:   c.BitsPerSample,
	}
}

func validBitsPerSample(bits int) bool {
	return bits == 8 || bits == 16
}

func validChannels(n int) bool {
	return n == 1 || n == 2
}
