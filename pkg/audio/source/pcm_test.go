// ABOUTME: Tests for the WAV and AIFF sources
// ABOUTME: Round-trips files written with the go-audio encoders
package source

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
)

type encoder interface {
	Write(buf *goaudio.IntBuffer) error
	Close() error
}

// writeFile encodes data to a temp file and returns it rewound
func writeFile(t *testing.T, name string, newEncoder func(f *os.File) encoder, rate, channels int, data []int) *os.File {
	t.Helper()

	f, err := os.Create(filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	enc := newEncoder(f)
	buf := &goaudio.IntBuffer{
		Data:   data,
		Format: &goaudio.Format{NumChannels: channels, SampleRate: rate},
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}
	return f
}

func readAll(t *testing.T, src Source) []audio.Sample {
	t.Helper()
	var out []audio.Sample
	frames := make([]audio.Sample, 3)
	for {
		n, err := src.Read(frames)
		out = append(out, frames[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
	}
}

func TestWAV16Stereo(t *testing.T) {
	f := writeFile(t, "stereo.wav", func(f *os.File) encoder {
		return wav.NewEncoder(f, 22050, 16, 2, 1)
	}, 22050, 2, []int{100, -100, 2000, -2000, 32767, -32768, 5, 6})

	src, err := NewWAV(f)
	if err != nil {
		t.Fatalf("NewWAV: %v", err)
	}

	expectedFormat := audio.Format{SampleRate: 22050, Channels: 2, BitDepth: 16}
	if src.Format() != expectedFormat {
		t.Errorf("expected %+v, got %+v", expectedFormat, src.Format())
	}

	expected := []audio.Sample{{100, -100}, {2000, -2000}, {32767, -32768}, {5, 6}}
	got := readAll(t, src)
	if len(got) != len(expected) {
		t.Fatalf("expected %d frames, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("frame %d: expected %v, got %v", i, expected[i], got[i])
		}
	}
}

func TestWAV8Mono(t *testing.T) {
	f := writeFile(t, "mono8.wav", func(f *os.File) encoder {
		return wav.NewEncoder(f, 8000, 8, 1, 1)
	}, 8000, 1, []int{0, 128, 200})

	src, err := NewWAV(f)
	if err != nil {
		t.Fatalf("NewWAV: %v", err)
	}

	expectedFormat := audio.Format{SampleRate: 8000, Channels: 1, BitDepth: 8}
	if src.Format() != expectedFormat {
		t.Errorf("expected %+v, got %+v", expectedFormat, src.Format())
	}

	// Unsigned values pass through for the writer to expand
	expected := []audio.Sample{{0, 0}, {128, 128}, {200, 200}}
	got := readAll(t, src)
	if len(got) != len(expected) {
		t.Fatalf("expected %d frames, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("frame %d: expected %v, got %v", i, expected[i], got[i])
		}
	}
}

func TestAIFF16Stereo(t *testing.T) {
	f := writeFile(t, "stereo.aiff", func(f *os.File) encoder {
		return aiff.NewEncoder(f, 44100, 16, 2)
	}, 44100, 2, []int{1, 2, 3, 4})

	src, err := NewAIFF(f)
	if err != nil {
		t.Fatalf("NewAIFF: %v", err)
	}
	if src.Format().Channels != 2 || src.Format().BitDepth != 16 {
		t.Errorf("expected stereo 16-bit, got %+v", src.Format())
	}

	got := readAll(t, src)
	expected := []audio.Sample{{1, 2}, {3, 4}}
	if len(got) != len(expected) {
		t.Fatalf("expected %d frames, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("frame %d: expected %v, got %v", i, expected[i], got[i])
		}
	}
}

func TestNewWAVInvalid(t *testing.T) {
	_, err := NewWAV(bytes.NewReader([]byte("definitely not a riff file")))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestIntConverter(t *testing.T) {
	tests := []struct {
		bits      int
		unsigned8 bool
		input     int
		expected  int16
		depth     int
	}{
		{8, true, 200, 200, 8},
		{8, false, -2, -512, 16},
		{16, false, -1234, -1234, 16},
		{24, false, 0x123456, 0x1234, 16},
		{32, false, -65536, -1, 16},
	}

	for _, tt := range tests {
		convert, depth, err := intConverter(tt.bits, tt.unsigned8)
		if err != nil {
			t.Fatalf("%d bits: %v", tt.bits, err)
		}
		if depth != tt.depth {
			t.Errorf("%d bits: expected depth %d, got %d", tt.bits, tt.depth, depth)
		}
		if got := convert(tt.input); got != tt.expected {
			t.Errorf("%d bits: expected %d, got %d", tt.bits, tt.expected, got)
		}
	}

	if _, _, err := intConverter(12, false); !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("expected ErrUnsupportedBitDepth, got %v", err)
	}
}
