// ABOUTME: Soak test for the triple buffer handoff
// ABOUTME: Streams a counting sequence through writer and transmitter and checks order
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/hw"
	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/stream"
	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/triple"
)

var (
	duration     = flag.Duration("duration", 10*time.Second, "How long to produce")
	rate         = flag.Int("rate", 48000, "Sample rate the transmitter is clocked at")
	bufferFrames = flag.Int("buffer-frames", 64, "Frames per buffer")
)

// orderSink checks that slots arrive as the counting sequence they were written as
type orderSink struct {
	next   int16
	errors int
}

func (s *orderSink) WriteSlots(slots []int16) error {
	for i := 0; i+1 < len(slots); i += audio.Stereo {
		l, r := slots[i], slots[i+1]
		if l == 0 && r == 0 {
			continue // flush padding
		}
		if l != s.next || r != -s.next {
			s.errors++
		}
		s.next = l + 1
		if s.next == 0 {
			s.next = 1
		}
	}
	return nil
}

func main() {
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	fmt.Println("=== Triple Buffer Soak Test ===")
	fmt.Printf("Producing for %v at %dHz with %d-frame buffers\n", *duration, *rate, *bufferFrames)
	fmt.Println()

	buffers, err := triple.New(*bufferFrames * audio.Stereo)
	if err != nil {
		log.Fatalf("Invalid buffer size: %v", err)
	}

	sink := &orderSink{next: 1}
	tx := hw.NewClocked(buffers, hw.WithSink(sink))
	writer := stream.NewWriter(buffers, stream.WithConfigurer(tx))
	if !writer.SetRate(*rate) {
		log.Fatalf("Invalid rate %d", *rate)
	}

	txCtx, stopTx := context.WithCancel(context.Background())
	txDone := make(chan error, 1)
	go func() { txDone <- tx.Run(txCtx) }()

	deadline := time.Now().Add(*duration)
	value := int16(1)
	for time.Now().Before(deadline) {
		if !writer.ConsumeSample(audio.Sample{value, -value}) {
			time.Sleep(time.Millisecond)
			continue
		}
		value++
		if value == 0 {
			value = 1
		}
	}

	writer.Stop()
	stopTx()
	if err := <-txDone; err != nil {
		log.Fatalf("Transmitter error: %v", err)
	}

	ws := writer.Stats()
	ts := tx.Stats()
	fmt.Printf("Written: %d  Rejected: %d  Flips: %d\n", ws.Written, ws.Dropped, ws.Flips)
	fmt.Printf("Drained: %d  Underruns: %d\n", ts.Drained, ts.Underruns)
	fmt.Printf("Order errors: %d\n", sink.errors)

	if sink.errors > 0 {
		os.Exit(1)
	}
	log.Printf("Soak complete")
}
