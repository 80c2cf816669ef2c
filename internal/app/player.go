// ABOUTME: Main player application orchestration
// ABOUTME: Wires a source through the stream writer into the transmitter
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Resonate-Protocol/i2sout-go/internal/config"
	"github.com/Resonate-Protocol/i2sout-go/internal/observe"
	"github.com/Resonate-Protocol/i2sout-go/internal/ui"
	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/hw"
	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/source"
	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/stream"
	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/triple"
)

// Player states shown in the monitor
const (
	StateIdle     = "idle"
	StatePlaying  = "playing"
	StateDraining = "draining"
	StateStopped  = "stopped"
)

// statusInterval is how often counters are reported
const statusInterval = 500 * time.Millisecond

// Config holds player configuration
type Config struct {
	Settings *config.Config

	// Source overrides Settings.Source when set. The player closes it.
	Source source.Source

	// Metrics receives writer and transmitter events when set
	Metrics *observe.Metrics

	// Status receives monitor updates. When nil, counters are logged instead.
	Status func(ui.StatusMsg)
}

// Player represents the main player application
type Player struct {
	settings *config.Config
	streamID string
	src      source.Source
	buffers  *triple.Coordinator
	writer   *stream.Writer
	tx       hw.Transmitter
	wavFile  *os.File
	wavSink  *hw.WAVSink
	status   func(ui.StatusMsg)
	state    atomic.Value
}

// New creates a player: it opens the source, sizes the buffer set and
// configures the writer and transmitter for the source's format
func New(cfg Config) (*Player, error) {
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}

	src := cfg.Source
	if src == nil {
		var err error
		src, err = source.Open(settings.Source)
		if err != nil {
			return nil, err
		}
	}

	p := &Player{
		settings: settings,
		streamID: uuid.New().String(),
		src:      src,
		status:   cfg.Status,
	}
	p.state.Store(StateIdle)

	if err := p.build(cfg.Metrics); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// build creates the buffers, transmitter and writer
func (p *Player) build(metrics *observe.Metrics) error {
	writerCfg := p.settings.Stream.Resolve(p.src.Format())
	if err := writerCfg.Validate(); err != nil {
		return fmt.Errorf("unsupported stream format: %w", err)
	}

	buffers, err := triple.New(p.settings.Stream.BufferSlots())
	if err != nil {
		return err
	}
	p.buffers = buffers

	var txOpts []hw.Option
	var writerOpts []stream.Option
	if metrics != nil {
		txOpts = append(txOpts, hw.WithObserver(metrics))
		writerOpts = append(writerOpts, stream.WithObserver(metrics))
	}

	switch p.settings.Output.Backend {
	case config.BackendOto:
		p.tx = hw.NewOto(buffers, txOpts...)
	case config.BackendWAV:
		f, err := os.Create(p.settings.Output.WAVPath)
		if err != nil {
			return fmt.Errorf("failed to create capture file: %w", err)
		}
		p.wavFile = f
		p.wavSink = hw.NewWAVSink(f, writerCfg.SampleRate)
		p.tx = hw.NewClocked(buffers, append(txOpts, hw.WithSink(p.wavSink))...)
	default:
		p.tx = hw.NewClocked(buffers, txOpts...)
	}

	writerOpts = append(writerOpts, stream.WithConfigurer(p.tx))
	p.writer = stream.NewWriter(buffers, writerOpts...)
	if err := p.writer.Apply(writerCfg); err != nil {
		return err
	}
	p.writer.SetVolume(p.settings.Stream.Volume)

	log.Printf("Stream %s: %d x %d-frame buffers, backend %s",
		p.streamID, triple.NumBuffers, p.settings.Stream.BufferFrames, p.settings.Output.Backend)
	return nil
}

// StreamID returns the identifier of this playback session
func (p *Player) StreamID() string {
	return p.streamID
}

// Writer returns the stream writer
func (p *Player) Writer() *stream.Writer {
	return p.writer
}

// State returns the playback state
func (p *Player) State() string {
	return p.state.Load().(string)
}

// SetVolume sets the volume (0-100)
func (p *Player) SetVolume(volume int) {
	p.writer.SetVolume(volume)
}

// Mute sets mute state
func (p *Player) Mute(muted bool) {
	p.writer.SetMuted(muted)
}

// Run plays the source to the end or until ctx is done, then drains the
// buffers before stopping the transmitter
func (p *Player) Run(ctx context.Context) error {
	runCtx, stopRun := context.WithCancel(ctx)
	defer stopRun()

	// The transmitter outlives the producer so the final buffers drain
	txCtx, stopTx := context.WithCancel(context.Background())
	defer stopTx()
	txDone := make(chan struct{})

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		defer close(txDone)
		if err := p.tx.Run(txCtx); err != nil {
			return fmt.Errorf("transmitter: %w", err)
		}
		return nil
	})

	if addr := p.settings.Metrics.Addr; addr != "" {
		g.Go(func() error {
			return observe.Serve(gctx, addr)
		})
	}

	g.Go(func() error {
		p.reportLoop(gctx)
		return nil
	})

	g.Go(func() error {
		defer stopRun()
		defer stopTx()

		p.writer.Begin()
		p.setState(StatePlaying)

		err := p.produce(gctx)
		if drainErr := p.drain(txDone); drainErr != nil {
			log.Printf("Drain incomplete: %v", drainErr)
		}
		return err
	})

	err := g.Wait()
	p.setState(StateStopped)
	p.report()
	return err
}

// produce copies frames from the source into the writer, waiting out
// backpressure. Cancellation is a normal stop.
func (p *Player) produce(ctx context.Context) error {
	frames := make([]audio.Sample, p.buffers.Capacity()/audio.Stereo)
	backoff := p.backoff()

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := p.src.Read(frames)
		for i := 0; i < n; {
			if p.writer.ConsumeSample(frames[i]) {
				i++
				continue
			}
			// Every buffer is busy: give the transmitter time to drain one
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
		}

		if errors.Is(err, io.EOF) {
			log.Printf("Source finished")
			return nil
		}
		if err != nil {
			return fmt.Errorf("source read failed: %w", err)
		}
	}
}

// backoff is a quarter of one buffer's play time
func (p *Player) backoff() time.Duration {
	frames := p.buffers.Capacity() / audio.Stereo
	d := time.Duration(frames) * time.Second / time.Duration(p.writer.Rate()) / 4
	return max(d, time.Millisecond)
}

// drain flushes the writer, giving up at the drain timeout or when the
// transmitter has already stopped
func (p *Player) drain(txDone <-chan struct{}) error {
	p.setState(StateDraining)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if timeout := p.settings.Output.DrainTimeout; timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	go func() {
		select {
		case <-txDone:
			cancel()
		case <-ctx.Done():
		}
	}()

	return p.writer.FlushContext(ctx)
}

// reportLoop periodically publishes counters until ctx is done
func (p *Player) reportLoop(ctx context.Context) {
	p.sendStatus(p.streamInfo())

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	// Use a slower ticker for expensive runtime stats to avoid GC pauses
	runtimeStatsTicker := time.NewTicker(2 * time.Second)
	defer runtimeStatsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-runtimeStatsTicker.C:
			if p.status == nil {
				continue
			}
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			p.status(ui.StatusMsg{
				Goroutines: runtime.NumGoroutine(),
				MemAlloc:   m.Alloc,
				MemSys:     m.Sys,
			})
		case <-ticker.C:
			p.report()
		}
	}
}

// report sends one counter snapshot, or logs it when no monitor is attached
func (p *Player) report() {
	ws := p.writer.Stats()
	ts := p.tx.Stats()

	if p.status == nil {
		log.Printf("Stats: state=%s written=%d dropped=%d flips=%d drained=%d underruns=%d",
			p.State(), ws.Written, ws.Dropped, ws.Flips, ts.Drained, ts.Underruns)
		return
	}

	roles := p.buffers.Roles()
	muted := p.writer.IsMuted()
	p.status(ui.StatusMsg{
		State:  p.State(),
		Volume: p.writer.Volume(),
		Muted:  &muted,
		Roles:  &roles,
		Stats: &ui.Counters{
			Written:   ws.Written,
			Dropped:   ws.Dropped,
			Flips:     ws.Flips,
			Drained:   ts.Drained,
			Underruns: ts.Underruns,
		},
	})
}

// streamInfo describes the session for the monitor
func (p *Player) streamInfo() ui.StatusMsg {
	cfg := p.writer.Config()
	name := ""
	if p.settings.Source != "" {
		name = filepath.Base(p.settings.Source)
	}
	return ui.StatusMsg{
		StreamID:    p.streamID,
		Source:      name,
		Backend:     p.settings.Output.Backend,
		SampleRate:  cfg.SampleRate,
		Channels:    cfg.Channels,
		BitDepth:    cfg.BitsPerSample,
		MonoDownmix: cfg.MonoDownmix,
		State:       p.State(),
	}
}

func (p *Player) sendStatus(msg ui.StatusMsg) {
	if p.status != nil {
		p.status(msg)
	}
}

func (p *Player) setState(state string) {
	p.state.Store(state)
	log.Printf("Player state: %s", state)
}

// Close releases the source and finalizes any capture file
func (p *Player) Close() error {
	var errs []error
	if p.src != nil {
		errs = append(errs, p.src.Close())
	}
	if p.wavSink != nil {
		errs = append(errs, p.wavSink.Close())
	}
	if p.wavFile != nil {
		errs = append(errs, p.wavFile.Close())
	}
	return errors.Join(errs...)
}
