// ABOUTME: Player configuration loaded from YAML
// ABOUTME: Defaults, validation and resolution of the writer's stream format
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/stream"
)

// Output backends
const (
	BackendClocked = "clocked"
	BackendOto     = "oto"
	BackendWAV     = "wav"
)

// Config is the player's configuration
type Config struct {
	// Source is the file to play. Empty plays a test tone.
	Source string `yaml:"source"`

	Stream  StreamConfig  `yaml:"stream"`
	Output  OutputConfig  `yaml:"output"`
	Metrics MetricsConfig `yaml:"metrics"`

	LogFile string `yaml:"log_file"`
	TUI     bool   `yaml:"tui"`
}

// StreamConfig overrides the format the writer is configured with. Zero
// values follow the source.
type StreamConfig struct {
	SampleRate    int  `yaml:"sample_rate"`
	BitsPerSample int  `yaml:"bits_per_sample"`
	Channels      int  `yaml:"channels"`
	MonoDownmix   bool `yaml:"mono_downmix"`

	// BufferFrames is the stereo frame capacity of each of the three buffers
	BufferFrames int `yaml:"buffer_frames"`

	// Volume is the initial volume (0-100)
	Volume int `yaml:"volume"`
}

// OutputConfig selects the transmitter
type OutputConfig struct {
	Backend string `yaml:"backend"`

	// WAVPath is where the wav backend captures the transmitted stream
	WAVPath string `yaml:"wav_path"`

	// DrainTimeout bounds the final flush. Zero waits forever.
	DrainTimeout time.Duration `yaml:"drain_timeout"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address for /metrics. Empty disables it.
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Stream: StreamConfig{
			BufferFrames: 256,
			Volume:       100,
		},
		Output: OutputConfig{
			Backend:      BackendOto,
			DrainTimeout: 2 * time.Second,
		},
		LogFile: "i2sout-player.log",
		TUI:     true,
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults and validates the result
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and returns all problems joined
func Validate(cfg *Config) error {
	var errs []error

	s := cfg.Stream
	if s.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("stream.sample_rate %d must not be negative", s.SampleRate))
	}
	if s.BitsPerSample != 0 && s.BitsPerSample != 8 && s.BitsPerSample != 16 {
		errs = append(errs, fmt.Errorf("stream.bits_per_sample %d is invalid; valid values: 8, 16", s.BitsPerSample))
	}
	if s.Channels != 0 && s.Channels != 1 && s.Channels != 2 {
		errs = append(errs, fmt.Errorf("stream.channels %d is invalid; valid values: 1, 2", s.Channels))
	}
	if s.BufferFrames <= 0 {
		errs = append(errs, fmt.Errorf("stream.buffer_frames %d must be positive", s.BufferFrames))
	}
	if s.Volume < 0 || s.Volume > 100 {
		errs = append(errs, fmt.Errorf("stream.volume %d must be between 0 and 100", s.Volume))
	}

	switch cfg.Output.Backend {
	case BackendClocked, BackendOto:
	case BackendWAV:
		if cfg.Output.WAVPath == "" {
			errs = append(errs, errors.New("output.wav_path is required for the wav backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("output.backend %q is invalid; valid values: clocked, oto, wav", cfg.Output.Backend))
	}
	if cfg.Output.DrainTimeout < 0 {
		errs = append(errs, fmt.Errorf("output.drain_timeout %v must not be negative", cfg.Output.DrainTimeout))
	}

	return errors.Join(errs...)
}

// Resolve returns the writer configuration for a source of format f, with
// any non-zero override applied
func (s StreamConfig) Resolve(f audio.Format) stream.Config {
	cfg := stream.Config{
		SampleRate:    f.SampleRate,
		BitsPerSample: f.BitDepth,
		Channels:      f.Channels,
		MonoDownmix:   s.MonoDownmix,
	}
	if s.SampleRate > 0 {
		cfg.SampleRate = s.SampleRate
	}
	if s.BitsPerSample > 0 {
		cfg.BitsPerSample = s.BitsPerSample
	}
	if s.Channels > 0 {
		cfg.Channels = s.Channels
	}
	return cfg
}

// BufferSlots returns the int16 slot capacity of each buffer
func (s StreamConfig) BufferSlots() int {
	return s.BufferFrames * audio.Stereo
}
