// ABOUTME: Source interface and file-extension dispatch
// ABOUTME: Opens a decoder for a local file or a test tone for an empty path
package source

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
)

var (
	// ErrUnsupportedFormat is returned for files no decoder handles
	ErrUnsupportedFormat = errors.New("source: unsupported audio format")

	// ErrUnsupportedChannels is returned for streams with more than two channels
	ErrUnsupportedChannels = errors.New("source: unsupported channel count")

	// ErrUnsupportedBitDepth is returned for sample widths no conversion exists for
	ErrUnsupportedBitDepth = errors.New("source: unsupported bit depth")
)

// Source produces stereo frames for the stream writer
type Source interface {
	// Read fills dst with up to len(dst) frames. It returns io.EOF once the
	// stream is exhausted and no frames were read.
	Read(dst []audio.Sample) (int, error)

	// Format describes the frames Read produces
	Format() audio.Format

	// Close releases decoder resources
	Close() error
}

// Open creates a source for path, choosing the decoder by file extension.
// An empty path yields an endless test tone at the default rate.
func Open(path string) (Source, error) {
	if path == "" {
		return NewTone(DefaultToneRate, 0), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}

	var src Source
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav":
		src, err = NewWAV(f)
	case ".aif", ".aiff":
		src, err = NewAIFF(f)
	case ".mp3":
		src, err = NewMP3(f)
	case ".flac":
		src, err = NewFLAC(f)
	case ".ogg", ".oga":
		src, err = NewVorbis(f)
	default:
		err = fmt.Errorf("%w: %s (supported: .wav, .aiff, .mp3, .flac, .ogg)", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	format := src.Format()
	log.Printf("Loaded %s: %s (sample rate: %d Hz, channels: %d, bit depth: %d)",
		strings.TrimPrefix(ext, "."), filepath.Base(path), format.SampleRate, format.Channels, format.BitDepth)

	return &fileSource{Source: src, file: f}, nil
}

// fileSource closes the underlying file along with the decoder
type fileSource struct {
	Source
	file io.Closer
}

func (s *fileSource) Close() error {
	return errors.Join(s.Source.Close(), s.file.Close())
}

// checkChannels rejects layouts the transmit path cannot carry
func checkChannels(n int) error {
	if n != 1 && n != 2 {
		return fmt.Errorf("%w: %d (supported: 1, 2)", ErrUnsupportedChannels, n)
	}
	return nil
}

// interleave packs channel-interleaved values into frames, duplicating mono.
// Trailing values that do not make a whole frame are ignored.
func interleave(dst []audio.Sample, data []int, channels int, convert func(int) int16) int {
	frames := min(len(data)/channels, len(dst))
	for i := 0; i < frames; i++ {
		l := convert(data[i*channels])
		r := l
		if channels == 2 {
			r = convert(data[i*channels+1])
		}
		dst[i] = audio.Sample{l, r}
	}
	return frames
}
