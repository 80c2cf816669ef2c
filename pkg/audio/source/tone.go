// ABOUTME: Test tone generator source
// ABOUTME: Generates a 440Hz sine wave, optionally limited to a frame count
package source

import (
	"io"
	"math"
	"sync"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
)

// DefaultToneRate is the rate Open uses for the test tone
const DefaultToneRate = 16000

// Tone generates a 440Hz test tone on both channels
type Tone struct {
	sampleIndex uint64
	sampleMu    sync.Mutex
	frequency   float64
	sampleRate  int
	limit       uint64
}

// NewTone creates a tone at sampleRate. A positive limit ends the tone with
// io.EOF after that many frames; zero plays forever.
func NewTone(sampleRate int, limit uint64) *Tone {
	if sampleRate <= 0 {
		sampleRate = DefaultToneRate
	}
	return &Tone{
		frequency:  440.0, // A4 note
		sampleRate: sampleRate,
		limit:      limit,
	}
}

func (s *Tone) Read(dst []audio.Sample) (int, error) {
	s.sampleMu.Lock()
	defer s.sampleMu.Unlock()

	numFrames := len(dst)
	if s.limit > 0 {
		remaining := s.limit - s.sampleIndex
		if remaining == 0 {
			return 0, io.EOF
		}
		if uint64(numFrames) > remaining {
			numFrames = int(remaining)
		}
	}

	for i := 0; i < numFrames; i++ {
		t := float64(s.sampleIndex+uint64(i)) / float64(s.sampleRate)
		sample := math.Sin(2 * math.Pi * s.frequency * t)

		// 50% volume
		pcmValue := int16(sample * 32767.0 * 0.5)
		dst[i] = audio.Sample{pcmValue, pcmValue}
	}

	s.sampleIndex += uint64(numFrames)
	return numFrames, nil
}

func (s *Tone) Format() audio.Format {
	return audio.Format{SampleRate: s.sampleRate, Channels: audio.Stereo, BitDepth: 16}
}

func (s *Tone) Close() error { return nil }
