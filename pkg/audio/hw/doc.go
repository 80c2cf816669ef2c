// ABOUTME: Hardware collaborator package for the serial-audio transmit path
// ABOUTME: Provides configurer contracts and drain-side transmitters
// Package hw contains the collaborators that sit on the far side of the
// triple buffer: whatever programs the transmitter clock and whatever drains
// ready buffers at the audio rate.
//
// Transmitters:
//   - Clocked: timer-driven drain, one buffer per buffer period, forwarding
//     each buffer to an optional Sink
//   - Oto: the system audio device via oto; the device callback pulls data
//
// Sinks:
//   - WAVSink: captures the transmitted stream into a WAV file
//
// Example:
//
//	buffers, _ := triple.New(1024)
//	tx := hw.NewClocked(buffers, hw.WithSink(hw.NewWAVSink(f, 16000)))
//	_ = tx.Configure(hw.Config{BitClockHz: 512000, WordSize: 16})
//	go tx.Run(ctx)
package hw
