// ABOUTME: Audio type definitions
// ABOUTME: Defines stereo sample pairs, stream formats and sample conversions
package audio

const (
	// Left and Right index the channels of a Sample
	Left  = 0
	Right = 1

	// Stereo is the fixed channel count of the transmit path
	Stereo = 2

	// SlotBits is the width of one channel slot on the wire
	SlotBits = 16
)

// Sample is one interleaved stereo frame (left, right)
type Sample [2]int16

// Format describes a PCM stream format
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// BitClock returns the serial bit clock needed to carry this format.
// Slots are always 16 bits wide and always two per frame, regardless of
// the configured depth or channel count.
func (f Format) BitClock() uint32 {
	return uint32(SlotBits * Stereo * f.SampleRate)
}

// FrameBytes returns the size of one transmitted frame in bytes
func (f Format) FrameBytes() int {
	return SlotBits / 8 * Stereo
}

// ClipInt16 saturates a wide intermediate value to the int16 range
func ClipInt16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// SampleFromUint8 expands an unsigned 8-bit sample (carried in the low
// byte) to signed 16-bit
func SampleFromUint8(sample int16) int16 {
	return int16((int32(sample&0xff) - 128) << 8)
}

// SampleFromInt32 converts an int32 sample left-justified in 24 bits to int16
func SampleFromInt32(sample int32) int16 {
	return int16(sample >> 8)
}

// Mean returns the truncating integer average of both channels
func (s Sample) Mean() int16 {
	return int16((int32(s[Left]) + int32(s[Right])) / 2)
}
