// ABOUTME: Bubbletea model for the stream monitor TUI
// ABOUTME: Defines monitor state and update logic
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/triple"
)

// Model represents the TUI state
type Model struct {
	// Stream
	streamID    string
	source      string
	backend     string
	sampleRate  int
	channels    int
	bitDepth    int
	monoDownmix bool

	// Playback
	state  string
	volume int
	muted  bool

	// Buffers
	roles [triple.NumBuffers]triple.Role

	// Stats
	written   int64
	dropped   int64
	flips     int64
	drained   int64
	underruns int64

	// Runtime stats
	goroutines int
	memAlloc   uint64
	memSys     uint64

	// Debug
	showDebug bool

	// Dimensions
	width  int
	height int

	volumeCtrl *VolumeControl
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderStreamInfo()
	s += m.renderControls()
	s += m.renderStats()

	if m.showDebug {
		s += m.renderDebug()
	}

	s += m.renderHelp()

	return s
}

// renderHeader renders the stream identity and state
func (m Model) renderHeader() string {
	id := m.streamID
	if id == "" {
		id = "-"
	}

	return fmt.Sprintf(`┌─ I2S Player ─────────────────────────────────────────┐
│ Stream: %-44s │
│ State:  %-44s │
├──────────────────────────────────────────────────────┤
`, truncate(id, 44), m.state)
}

// renderStreamInfo renders source and format
func (m Model) renderStreamInfo() string {
	if m.sampleRate == 0 {
		return "│ No stream                                            │\n"
	}

	source := m.source
	if source == "" {
		source = "Test tone"
	}

	downmix := ""
	if m.monoDownmix {
		downmix = " (downmix)"
	}
	format := fmt.Sprintf("%dHz %s %d-bit%s", m.sampleRate, channelName(m.channels), m.bitDepth, downmix)

	s := fmt.Sprintf("│ Source: %-44s │\n", truncate(source, 44))
	s += fmt.Sprintf("│ Format: %-44s │\n", truncate(format, 44))
	s += fmt.Sprintf("│ Output: %-44s │\n", truncate(m.backend, 44))
	return s
}

// renderControls renders volume and buffer roles
func (m Model) renderControls() string {
	muteText := ""
	if m.muted {
		muteText = " (muted)"
	}

	volumeBar := renderBar(m.volume, 100, 10)
	volume := fmt.Sprintf("[%s] %d%%%s", volumeBar, m.volume, muteText)

	return fmt.Sprintf("│                                                      │\n"+
		"│ Volume:  %-43s │\n"+
		"│ Buffers: %-43s │\n",
		volume, renderRoles(m.roles))
}

// renderStats renders writer and transmitter counters
func (m Model) renderStats() string {
	writer := fmt.Sprintf("Written: %d  Dropped: %d  Flips: %d", m.written, m.dropped, m.flips)
	transmitter := fmt.Sprintf("Drained: %d  Underruns: %d", m.drained, m.underruns)

	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ %-52s │
│ %-52s │
│                                                      │
`, truncate(writer, 52), truncate(transmitter, 52))
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ ↑/↓:Volume  m:Mute  d:Debug  q:Quit                  │
└──────────────────────────────────────────────────────┘
`
}

// renderDebug renders runtime information
func (m Model) renderDebug() string {
	return fmt.Sprintf(`│ DEBUG:                                               │
│   Goroutines: %-38d │
│   Mem alloc:  %-38s │
│   Mem sys:    %-38s │
`, m.goroutines, formatBytes(m.memAlloc), formatBytes(m.memSys))
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.sendQuit()
		return m, tea.Quit
	case "up":
		if m.volume < 100 {
			m.volume += 5
			if m.volume > 100 {
				m.volume = 100
			}
			m.sendVolume()
		}
	case "down":
		if m.volume > 0 {
			m.volume -= 5
			if m.volume < 0 {
				m.volume = 0
			}
			m.sendVolume()
		}
	case "m":
		m.muted = !m.muted
		m.sendVolume()
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// sendVolume forwards the current volume without blocking the UI
func (m Model) sendVolume() {
	if m.volumeCtrl == nil {
		return
	}
	select {
	case m.volumeCtrl.Changes <- VolumeChangeMsg{Volume: m.volume, Muted: m.muted}:
	default:
	}
}

func (m Model) sendQuit() {
	if m.volumeCtrl == nil {
		return
	}
	select {
	case m.volumeCtrl.Quit <- QuitMsg{}:
	default:
	}
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.StreamID != "" {
		m.streamID = msg.StreamID
	}
	if msg.Source != "" {
		m.source = msg.Source
	}
	if msg.Backend != "" {
		m.backend = msg.Backend
	}
	if msg.SampleRate != 0 {
		m.sampleRate = msg.SampleRate
		m.channels = msg.Channels
		m.bitDepth = msg.BitDepth
		m.monoDownmix = msg.MonoDownmix
	}
	if msg.State != "" {
		m.state = msg.State
	}
	if msg.Volume != 0 {
		m.volume = msg.Volume
	}
	if msg.Muted != nil {
		m.muted = *msg.Muted
	}
	if msg.Roles != nil {
		m.roles = *msg.Roles
	}
	if msg.Stats != nil {
		m.written = msg.Stats.Written
		m.dropped = msg.Stats.Dropped
		m.flips = msg.Stats.Flips
		m.drained = msg.Stats.Drained
		m.underruns = msg.Stats.Underruns
	}
	if msg.Goroutines != 0 {
		m.goroutines = msg.Goroutines
		m.memAlloc = msg.MemAlloc
		m.memSys = msg.MemSys
	}
}

// Counters is a snapshot of writer and transmitter counters
type Counters struct {
	Written   int64
	Dropped   int64
	Flips     int64
	Drained   int64
	Underruns int64
}

// StatusMsg updates TUI state. Zero fields leave the current value alone.
type StatusMsg struct {
	StreamID    string
	Source      string
	Backend     string
	SampleRate  int
	Channels    int
	BitDepth    int
	MonoDownmix bool
	State       string
	Volume      int
	Muted       *bool
	Roles       *[triple.NumBuffers]triple.Role
	Stats       *Counters
	Goroutines  int
	MemAlloc    uint64
	MemSys      uint64
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func renderRoles(roles [triple.NumBuffers]triple.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return strings.Join(names, " | ")
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}

func formatBytes(b uint64) string {
	return fmt.Sprintf("%.1f MiB", float64(b)/(1024*1024))
}
