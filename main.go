// ABOUTME: Entry point for the I2S stream player
// ABOUTME: Parses CLI flags and starts the player application
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Resonate-Protocol/i2sout-go/internal/app"
	"github.com/Resonate-Protocol/i2sout-go/internal/config"
	"github.com/Resonate-Protocol/i2sout-go/internal/observe"
	"github.com/Resonate-Protocol/i2sout-go/internal/ui"
	"github.com/Resonate-Protocol/i2sout-go/internal/version"
)

var (
	configFile  = flag.String("config", "", "YAML config file")
	sourcePath  = flag.String("source", "", "Audio file to play (WAV, AIFF, MP3, FLAC, Ogg). Overrides config; empty plays a test tone")
	backend     = flag.String("backend", "", "Output backend: clocked, oto or wav. Overrides config")
	wavPath     = flag.String("wav", "", "Capture file for the wav backend")
	metricsAddr = flag.String("metrics", "", "Listen address for Prometheus metrics. Overrides config")
	logFile     = flag.String("log-file", "", "Log file path. Overrides config")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg)
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	useTUI := cfg.TUI

	// Set up logging
	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *observe.Metrics
	if cfg.Metrics.Addr != "" {
		mp, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: version.Version})
		if err != nil {
			log.Fatalf("Failed to set up metrics: %v", err)
		}
		defer func() { _ = mp.Shutdown(context.Background()) }()

		metrics, err = observe.NewMetrics(mp)
		if err != nil {
			log.Fatalf("Failed to create metrics: %v", err)
		}
	}

	// TUI setup
	var tuiProg *tea.Program
	var volumeCtrl *ui.VolumeControl
	var status func(ui.StatusMsg)

	if useTUI {
		volumeCtrl = ui.NewVolumeControl()
		tuiProg, err = ui.Run(volumeCtrl)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go func() {
			if _, err := tuiProg.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
		}()
		status = func(msg ui.StatusMsg) { tuiProg.Send(msg) }
	}

	player, err := app.New(app.Config{
		Settings: cfg,
		Metrics:  metrics,
		Status:   status,
	})
	if err != nil {
		if tuiProg != nil {
			tuiProg.Kill()
		}
		log.Fatalf("Failed to create player: %v", err)
	}
	defer func() {
		if err := player.Close(); err != nil {
			log.Printf("Error closing player: %v", err)
		}
	}()

	if volumeCtrl != nil {
		go handleVolumeControl(ctx, stop, player, volumeCtrl)
	}

	if err := player.Run(ctx); err != nil {
		log.Printf("Player error: %v", err)
	}

	if tuiProg != nil {
		tuiProg.Quit()
	}
	log.Printf("Player stopped")
}

// applyFlags lets command-line flags override the config file
func applyFlags(cfg *config.Config) {
	if *sourcePath != "" {
		cfg.Source = *sourcePath
	}
	if *backend != "" {
		cfg.Output.Backend = *backend
	}
	if *wavPath != "" {
		cfg.Output.WAVPath = *wavPath
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if *noTUI {
		cfg.TUI = false
	}
}

// handleVolumeControl processes volume changes and quit requests from the TUI
func handleVolumeControl(ctx context.Context, stop context.CancelFunc, player *app.Player, volumeCtrl *ui.VolumeControl) {
	for {
		select {
		case vol := <-volumeCtrl.Changes:
			log.Printf("Volume change: %d%%, muted=%v", vol.Volume, vol.Muted)
			player.SetVolume(vol.Volume)
			player.Mute(vol.Muted)
		case <-volumeCtrl.Quit:
			log.Printf("Received quit signal from TUI")
			stop()
			return
		case <-ctx.Done():
			return
		}
	}
}
