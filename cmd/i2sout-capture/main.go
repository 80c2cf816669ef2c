// ABOUTME: Headless capture of the transmitted stream to a WAV file
// ABOUTME: Plays a source through the clocked transmitter and records every drained buffer
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/i2sout-go/internal/app"
	"github.com/Resonate-Protocol/i2sout-go/internal/config"
)

var (
	audioFile    = flag.String("audio", "", "Audio file to capture (WAV, AIFF, MP3, FLAC, Ogg). If not specified, captures a test tone")
	output       = flag.String("out", "capture.wav", "Capture file path")
	rate         = flag.Int("rate", 0, "Override the sample rate (default: follow the source)")
	mono         = flag.Bool("mono", false, "Downmix stereo sources to mono")
	bufferFrames = flag.Int("buffer-frames", 256, "Frames per buffer")
	drain        = flag.Duration("drain-timeout", 2*time.Second, "Bound on the final flush")
	logFile      = flag.String("log-file", "i2sout-capture.log", "Log file path")
)

func main() {
	flag.Parse()

	// Set up logging (both file and console)
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	log.SetOutput(io.MultiWriter(os.Stdout, f))

	cfg := config.Default()
	cfg.Source = *audioFile
	cfg.TUI = false
	cfg.Stream.SampleRate = *rate
	cfg.Stream.MonoDownmix = *mono
	cfg.Stream.BufferFrames = *bufferFrames
	cfg.Output.Backend = config.BackendWAV
	cfg.Output.WAVPath = *output
	cfg.Output.DrainTimeout = *drain
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	log.Printf("Capturing to %s", *output)
	log.Printf("Press Ctrl-C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	player, err := app.New(app.Config{Settings: cfg})
	if err != nil {
		log.Fatalf("Failed to create player: %v", err)
	}

	runErr := player.Run(ctx)
	if err := player.Close(); err != nil {
		log.Printf("Error closing capture: %v", err)
	}
	if runErr != nil {
		log.Fatalf("Capture error: %v", runErr)
	}

	stats := player.Writer().Stats()
	log.Printf("Capture complete: %d frames written, %d rejected", stats.Written, stats.Dropped)
}
