// ABOUTME: MP3 source backed by go-mp3
// ABOUTME: Reads the decoder's 16-bit little-endian stereo output as frames
package source

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
)

// mp3FrameBytes is the size of one decoded frame: two little-endian int16
const mp3FrameBytes = 4

// MP3 reads from an MP3 stream
type MP3 struct {
	pcm        io.Reader
	sampleRate int
	buf        []byte
}

// NewMP3 creates an MP3 source. The decoder always outputs stereo.
func NewMP3(r io.Reader) (*MP3, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}
	return newMP3(decoder, decoder.SampleRate()), nil
}

func newMP3(pcm io.Reader, sampleRate int) *MP3 {
	return &MP3{pcm: pcm, sampleRate: sampleRate}
}

func (s *MP3) Read(dst []audio.Sample) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	numBytes := len(dst) * mp3FrameBytes
	if cap(s.buf) < numBytes {
		s.buf = make([]byte, numBytes)
	}
	buf := s.buf[:numBytes]

	n, err := io.ReadFull(s.pcm, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, err
	}

	frames := n / mp3FrameBytes
	if frames == 0 {
		return 0, io.EOF
	}
	for i := 0; i < frames; i++ {
		b := buf[i*mp3FrameBytes:]
		dst[i] = audio.Sample{
			int16(binary.LittleEndian.Uint16(b[0:2])),
			int16(binary.LittleEndian.Uint16(b[2:4])),
		}
	}
	return frames, nil
}

func (s *MP3) Format() audio.Format {
	return audio.Format{SampleRate: s.sampleRate, Channels: audio.Stereo, BitDepth: 16}
}

func (s *MP3) Close() error { return nil }
