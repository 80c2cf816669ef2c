// ABOUTME: Tests for the MP3 source
// ABOUTME: Feeds decoded PCM bytes directly and checks frame assembly
package source

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
)

func TestMP3Read(t *testing.T) {
	var pcm bytes.Buffer
	for _, v := range []int16{1, -1, 300, -300, 7} { // trailing half frame
		binary.Write(&pcm, binary.LittleEndian, v)
	}

	src := newMP3(&pcm, 44100)
	frames := make([]audio.Sample, 8)

	n, err := src.Read(frames)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 frames, got %d", n)
	}
	if frames[0] != (audio.Sample{1, -1}) || frames[1] != (audio.Sample{300, -300}) {
		t.Errorf("unexpected frames %v", frames[:n])
	}

	if _, err := src.Read(frames); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestMP3Format(t *testing.T) {
	src := newMP3(bytes.NewReader(nil), 32000)
	expected := audio.Format{SampleRate: 32000, Channels: 2, BitDepth: 16}
	if src.Format() != expected {
		t.Errorf("expected %+v, got %+v", expected, src.Format())
	}
}

func TestNewMP3Invalid(t *testing.T) {
	if _, err := NewMP3(bytes.NewReader([]byte{0, 1, 2, 3})); err == nil {
		t.Error("expected error for non-MP3 data")
	}
}
