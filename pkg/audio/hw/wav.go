// ABOUTME: WAV file sink for drained buffers
// ABOUTME: Captures the transmitted stream with go-audio/wav for offline inspection
package hw

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
)

// wavFormatPCM is the RIFF format tag for integer PCM
const wavFormatPCM = 1

// WAVSink writes drained slots as a 16-bit stereo WAV stream
type WAVSink struct {
	enc *wav.Encoder
	buf *goaudio.IntBuffer
}

// NewWAVSink creates a sink writing to w at sampleRate
func NewWAVSink(w io.WriteSeeker, sampleRate int) *WAVSink {
	return &WAVSink{
		enc: wav.NewEncoder(w, sampleRate, audio.SlotBits, audio.Stereo, wavFormatPCM),
		buf: &goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: audio.Stereo,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: audio.SlotBits,
		},
	}
}

// WriteSlots appends interleaved slots to the file
func (s *WAVSink) WriteSlots(slots []int16) error {
	if cap(s.buf.Data) < len(slots) {
		s.buf.Data = make([]int, len(slots))
	}
	s.buf.Data = s.buf.Data[:len(slots)]
	for i, v := range slots {
		s.buf.Data[i] = int(v)
	}

	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("wav write failed: %w", err)
	}
	return nil
}

// Close finalizes the WAV header
func (s *WAVSink) Close() error {
	if err := s.enc.Close(); err != nil {
		return fmt.Errorf("wav close failed: %w", err)
	}
	return nil
}
