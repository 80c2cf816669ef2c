// ABOUTME: WAV and AIFF sources backed by go-audio decoders
// ABOUTME: Converts integer PCM of any supported width to writer-ready frames
package source

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xfffe
)

// pcmReader is the part of the go-audio decoders a source needs
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// pcmSource serves frames from a go-audio integer PCM decoder
type pcmSource struct {
	dec      pcmReader
	format   audio.Format
	goFormat *goaudio.Format
	convert  func(int) int16
	buf      *goaudio.IntBuffer
}

// NewWAV decodes a RIFF WAVE stream. 8-bit WAV is unsigned and is passed
// through as such; the source reports BitDepth 8 so the writer expands it.
func NewWAV(r io.ReadSeeker) (Source, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a WAV file", ErrUnsupportedFormat)
	}
	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("%w: WAV encoding %d is not integer PCM", ErrUnsupportedFormat, dec.WavAudioFormat)
	}
	return newPCMSource(dec, dec.Format(), int(dec.BitDepth), true)
}

// NewAIFF decodes an AIFF stream. AIFF samples are signed at every width.
func NewAIFF(r io.ReadSeeker) (Source, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not an AIFF file", ErrUnsupportedFormat)
	}
	dec.ReadInfo()
	return newPCMSource(dec, dec.Format(), int(dec.BitDepth), false)
}

func newPCMSource(dec pcmReader, f *goaudio.Format, bitDepth int, unsigned8 bool) (Source, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: missing format chunk", ErrUnsupportedFormat)
	}
	if err := checkChannels(f.NumChannels); err != nil {
		return nil, err
	}

	convert, depth, err := intConverter(bitDepth, unsigned8)
	if err != nil {
		return nil, err
	}

	return &pcmSource{
		dec:      dec,
		goFormat: f,
		convert:  convert,
		format: audio.Format{
			SampleRate: f.SampleRate,
			Channels:   f.NumChannels,
			BitDepth:   depth,
		},
	}, nil
}

// intConverter returns the conversion from a decoded integer to the value
// handed to the writer, and the depth the writer should be configured with
func intConverter(bitDepth int, unsigned8 bool) (func(int) int16, int, error) {
	switch bitDepth {
	case 8:
		if unsigned8 {
			return func(v int) int16 { return int16(v & 0xff) }, 8, nil
		}
		return func(v int) int16 { return int16(v << 8) }, 16, nil
	case 16:
		return func(v int) int16 { return int16(v) }, 16, nil
	case 24:
		return func(v int) int16 { return audio.SampleFromInt32(int32(v)) }, 16, nil
	case 32:
		return func(v int) int16 { return int16(v >> 16) }, 16, nil
	default:
		return nil, 0, fmt.Errorf("%w: %d (supported: 8, 16, 24, 32)", ErrUnsupportedBitDepth, bitDepth)
	}
}

func (s *pcmSource) Read(dst []audio.Sample) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	want := len(dst) * s.format.Channels
	if s.buf == nil || cap(s.buf.Data) < want {
		s.buf = &goaudio.IntBuffer{
			Data:   make([]int, want),
			Format: s.goFormat,
		}
	} else {
		s.buf.Data = s.buf.Data[:want]
	}

	n, err := s.dec.PCMBuffer(s.buf)
	frames := interleave(dst, s.buf.Data[:n], s.format.Channels, s.convert)
	if frames == 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	return frames, nil
}

func (s *pcmSource) Format() audio.Format { return s.format }

func (s *pcmSource) Close() error { return nil }
