// ABOUTME: Ogg Vorbis source backed by jfreymuth/oggvorbis
// ABOUTME: Converts the decoder's float output to 16-bit frames
package source

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
)

// floatReader is the part of oggvorbis.Reader a source needs
type floatReader interface {
	Read(p []float32) (int, error)
}

// Vorbis reads from an Ogg Vorbis stream
type Vorbis struct {
	dec    floatReader
	format audio.Format
	buf    []float32
}

// NewVorbis creates an Ogg Vorbis source
func NewVorbis(r io.Reader) (*Vorbis, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Ogg Vorbis: %w", err)
	}
	return newVorbis(dec, dec.SampleRate(), dec.Channels())
}

func newVorbis(dec floatReader, sampleRate, channels int) (*Vorbis, error) {
	if err := checkChannels(channels); err != nil {
		return nil, err
	}
	return &Vorbis{
		dec: dec,
		format: audio.Format{
			SampleRate: sampleRate,
			Channels:   channels,
			BitDepth:   16,
		},
	}, nil
}

func (s *Vorbis) Read(dst []audio.Sample) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := s.format.Channels
	want := len(dst) * channels
	if cap(s.buf) < want {
		s.buf = make([]float32, want)
	}
	buf := s.buf[:want]

	// The decoder may return short reads mid-stream; fill whole frames
	n := 0
	var err error
	for n < want && err == nil {
		var m int
		m, err = s.dec.Read(buf[n:])
		n += m
		if m == 0 && err == nil {
			break
		}
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}

	frames := n / channels
	if frames == 0 {
		return 0, io.EOF
	}
	for i := 0; i < frames; i++ {
		l := floatToInt16(buf[i*channels])
		r := l
		if channels == 2 {
			r = floatToInt16(buf[i*channels+1])
		}
		dst[i] = audio.Sample{l, r}
	}
	return frames, nil
}

func floatToInt16(v float32) int16 {
	return audio.ClipInt16(int32(v * 32767))
}

func (s *Vorbis) Format() audio.Format { return s.format }

func (s *Vorbis) Close() error { return nil }
