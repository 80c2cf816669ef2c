// ABOUTME: Stream writer package for the serial-audio transmit path
// ABOUTME: Sample formatting, stream configuration and end-of-stream draining
// Package stream is the producer-facing half of the transmit path.
//
// A Writer takes stereo pairs one at a time, applies the configured channel
// policy and writes them into a triple.Coordinator:
//
//   - 8-bit input is expanded from unsigned to signed 16-bit
//   - with mono downmix on a 2-channel stream, both channels carry the
//     truncating mean of left and right
//   - on a 1-channel stream the right channel repeats the left
//
// ConsumeSample never blocks. When both other buffers are still queued it
// returns false and the sample is dropped; retrying is the caller's choice.
//
// Flush and Stop block until the transmitter has drained everything.
//
// Example:
//
//	buffers, _ := triple.New(1024)
//	tx := hw.NewClocked(buffers)
//	w := stream.NewWriter(buffers, stream.WithConfigurer(tx))
//	w.SetRate(22050)
//	go tx.Run(ctx)
//
//	for _, s := range samples {
//	    for !w.ConsumeSample(s) {
//	        time.Sleep(time.Millisecond)
//	    }
//	}
//	w.Stop()
package stream
