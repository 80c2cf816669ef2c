// ABOUTME: FLAC source backed by mewkiz/flac
// ABOUTME: Decodes frame by frame, carrying leftover samples between reads
package source

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
)

// frameParser is the part of flac.Stream a source needs
type frameParser interface {
	ParseNext() (*frame.Frame, error)
}

// FLAC reads from a FLAC stream
type FLAC struct {
	stream   frameParser
	format   audio.Format
	bitDepth int

	// current frame and the next block index to serve from it
	pending *frame.Frame
	offset  int
}

// NewFLAC creates a FLAC source
func NewFLAC(r io.Reader) (*FLAC, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	return newFLAC(stream, int(info.SampleRate), int(info.NChannels), int(info.BitsPerSample))
}

func newFLAC(stream frameParser, sampleRate, channels, bitDepth int) (*FLAC, error) {
	if err := checkChannels(channels); err != nil {
		return nil, err
	}
	if bitDepth < 4 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	return &FLAC{
		stream:   stream,
		bitDepth: bitDepth,
		format: audio.Format{
			SampleRate: sampleRate,
			Channels:   channels,
			BitDepth:   16,
		},
	}, nil
}

func (s *FLAC) Read(dst []audio.Sample) (int, error) {
	read := 0
	for read < len(dst) {
		if s.pending == nil || s.offset >= blockLen(s.pending) {
			f, err := s.stream.ParseNext()
			if err != nil {
				if read > 0 && err == io.EOF {
					return read, nil
				}
				return read, err
			}
			s.pending, s.offset = f, 0
		}

		for ; s.offset < blockLen(s.pending) && read < len(dst); s.offset++ {
			l := s.convert(s.pending.Subframes[0].Samples[s.offset])
			r := l
			if s.format.Channels == 2 {
				r = s.convert(s.pending.Subframes[1].Samples[s.offset])
			}
			dst[read] = audio.Sample{l, r}
			read++
		}
	}
	return read, nil
}

// convert scales a sample of the stream's bit depth to 16 bits
func (s *FLAC) convert(v int32) int16 {
	shift := s.bitDepth - 16
	if shift > 0 {
		return int16(v >> shift)
	}
	return int16(v << -shift)
}

func blockLen(f *frame.Frame) int {
	if len(f.Subframes) == 0 {
		return 0
	}
	return len(f.Subframes[0].Samples)
}

func (s *FLAC) Format() audio.Format { return s.format }

// Close is a no-op; the caller owns the reader passed to NewFLAC
func (s *FLAC) Close() error { return nil }
