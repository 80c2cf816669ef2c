// ABOUTME: Tests for audio types
// ABOUTME: Tests sample conversion functions and format math
package audio

import "testing"

func TestClipInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected int16
	}{
		{"zero", 0, 0},
		{"in range", 1234, 1234},
		{"max", 32767, 32767},
		{"over max", 40000, 32767},
		{"min", -32768, -32768},
		{"under min", -40000, -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClipInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleFromUint8(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected int16
	}{
		{"midpoint is silence", 128, 0},
		{"zero is most negative", 0, -32768},
		{"max", 255, 127 << 8},
		{"high byte ignored", 0x1280, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromUint8(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleFromInt32(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected int16
	}{
		{"zero", 0, 0},
		{"positive", 100 << 8, 100},
		{"negative", -100 << 8, -100},
		{"24bit positive", 1000000, 3906},
		{"24bit negative", -1000000, -3907},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt32(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleMean(t *testing.T) {
	tests := []struct {
		name     string
		input    Sample
		expected int16
	}{
		{"opposite polarity cancels", Sample{100, -100}, 0},
		{"odd sum truncates", Sample{3, 4}, 3},
		{"negative odd sum truncates toward zero", Sample{-3, -4}, -3},
		{"no overflow at extremes", Sample{32767, 32767}, 32767},
		{"min", Sample{-32768, -32768}, -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.input.Mean()
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestFormatBitClock(t *testing.T) {
	tests := []struct {
		format   Format
		expected uint32
	}{
		{Format{SampleRate: 16000, Channels: 2, BitDepth: 16}, 512000},
		{Format{SampleRate: 44100, Channels: 2, BitDepth: 16}, 1411200},
		// Slot layout is fixed, so mono and 8-bit streams clock identically
		{Format{SampleRate: 16000, Channels: 1, BitDepth: 8}, 512000},
	}

	for _, tt := range tests {
		result := tt.format.BitClock()
		if result != tt.expected {
			t.Errorf("format=%+v: expected %d, got %d", tt.format, tt.expected, result)
		}
	}
}

func TestFormatFrameBytes(t *testing.T) {
	f := Format{SampleRate: 22050, Channels: 1, BitDepth: 8}
	if f.FrameBytes() != 4 {
		t.Errorf("expected 4 bytes per frame, got %d", f.FrameBytes())
	}
}
