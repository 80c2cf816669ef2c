// ABOUTME: Tests for Open and the shared frame helpers
// ABOUTME: Tests extension dispatch, missing files and mono duplication
package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
)

func TestOpenEmptyPathIsTone(t *testing.T) {
	src, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	if _, ok := src.(*Tone); !ok {
		t.Errorf("expected *Tone, got %T", src)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestOpenUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestOpenWAV(t *testing.T) {
	f := writeFile(t, "tone.wav", func(f *os.File) encoder {
		return wav.NewEncoder(f, 16000, 16, 2, 1)
	}, 16000, 2, []int{10, 20, 30, 40})
	f.Close()

	src, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	got := readAll(t, src)
	if len(got) != 2 || got[1] != (audio.Sample{30, 40}) {
		t.Errorf("unexpected frames %v", got)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestInterleave(t *testing.T) {
	identity := func(v int) int16 { return int16(v) }

	dst := make([]audio.Sample, 4)
	if n := interleave(dst, []int{1, 2, 3}, 1, identity); n != 3 {
		t.Fatalf("expected 3 mono frames, got %d", n)
	}
	if dst[2] != (audio.Sample{3, 3}) {
		t.Errorf("expected mono duplicated, got %v", dst[2])
	}

	if n := interleave(dst, []int{1, 2, 3}, 2, identity); n != 1 {
		t.Errorf("expected partial frame to be dropped, got %d frames", n)
	}

	if n := interleave(dst[:1], []int{1, 2, 3, 4}, 2, identity); n != 1 {
		t.Errorf("expected output bounded by dst, got %d frames", n)
	}
}
