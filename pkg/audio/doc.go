// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Sample, Format and sample conversion functions
// Package audio provides the fundamental PCM types shared by the transmit path.
//
// This package defines:
//   - Sample: one interleaved stereo frame of signed 16-bit values
//   - Format: sample rate, channel count and bit depth of a stream
//
// It also provides conversions used while normalizing producer data:
//   - unsigned 8-bit → signed 16-bit
//   - 24-bit (int32) → 16-bit
//   - saturating int32 → int16
//
// Example:
//
//	format := audio.Format{
//	    SampleRate: 16000,
//	    Channels:   2,
//	    BitDepth:   16,
//	}
//
//	clock := format.BitClock() // 512000
package audio
