// ABOUTME: Producer-side audio sources for the stream writer
// ABOUTME: Test tone plus WAV, AIFF, MP3, FLAC and Ogg Vorbis file decoding
// Package source provides producers for the transmit path.
//
// Every source yields stereo Sample frames and describes them with a Format
// the stream writer can be configured from. Sources that decode 8-bit WAV
// report BitDepth 8 and hand over unsigned values in the low byte; every
// other depth is reduced to signed 16-bit before it leaves the source.
//
// Example:
//
//	src, err := source.Open("song.flac")
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
//	frames := make([]audio.Sample, 512)
//	n, err := src.Read(frames)
package source
