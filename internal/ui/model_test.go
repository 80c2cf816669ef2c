// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests status updates, key handling, and rendering helpers
package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/triple"
)

func TestNewModel(t *testing.T) {
	model := NewModel(nil) // VolumeControl is optional for testing

	if model.state != "idle" {
		t.Errorf("expected initial state idle, got %q", model.state)
	}

	if model.volume != 100 {
		t.Errorf("expected default volume 100, got %d", model.volume)
	}

	if model.muted {
		t.Error("expected muted to be false initially")
	}

	if model.showDebug {
		t.Error("expected showDebug to be false initially")
	}
}

func TestStatusMsgStreamInfo(t *testing.T) {
	model := NewModel(nil)

	model.applyStatus(StatusMsg{
		StreamID:    "abc-123",
		Source:      "song.wav",
		Backend:     "oto",
		SampleRate:  44100,
		Channels:    2,
		BitDepth:    16,
		MonoDownmix: true,
	})

	if model.streamID != "abc-123" {
		t.Errorf("expected streamID abc-123, got %q", model.streamID)
	}
	if model.source != "song.wav" || model.backend != "oto" {
		t.Errorf("expected source and backend set, got %q %q", model.source, model.backend)
	}
	if model.sampleRate != 44100 || model.channels != 2 || model.bitDepth != 16 {
		t.Errorf("unexpected format %d/%d/%d", model.sampleRate, model.channels, model.bitDepth)
	}
	if !model.monoDownmix {
		t.Error("expected monoDownmix to be set")
	}
}

func TestStatusMsgStats(t *testing.T) {
	model := NewModel(nil)

	model.applyStatus(StatusMsg{
		Stats: &Counters{Written: 1000, Dropped: 5, Flips: 7, Drained: 6, Underruns: 1},
	})

	if model.written != 1000 || model.dropped != 5 || model.flips != 7 {
		t.Errorf("unexpected writer stats %d/%d/%d", model.written, model.dropped, model.flips)
	}
	if model.drained != 6 || model.underruns != 1 {
		t.Errorf("unexpected transmitter stats %d/%d", model.drained, model.underruns)
	}

	// A zero snapshot is still a snapshot
	model.applyStatus(StatusMsg{Stats: &Counters{}})
	if model.written != 0 {
		t.Errorf("expected written reset to 0, got %d", model.written)
	}
}

func TestStatusMsgRoles(t *testing.T) {
	model := NewModel(nil)

	roles := [triple.NumBuffers]triple.Role{triple.Reading, triple.Ready, triple.Writing}
	model.applyStatus(StatusMsg{Roles: &roles})

	if model.roles != roles {
		t.Errorf("expected %v, got %v", roles, model.roles)
	}
	if got := renderRoles(model.roles); got != "reading | ready | writing" {
		t.Errorf("unexpected rendering %q", got)
	}
}

func TestStatusMsgZeroValues(t *testing.T) {
	model := NewModel(nil)

	model.applyStatus(StatusMsg{Volume: 75, State: "playing"})
	model.applyStatus(StatusMsg{})

	if model.volume != 75 {
		t.Errorf("expected volume retained at 75, got %d", model.volume)
	}
	if model.state != "playing" {
		t.Errorf("expected state retained, got %q", model.state)
	}
}

func TestStatusMsgMuted(t *testing.T) {
	model := NewModel(nil)

	muted := true
	model.applyStatus(StatusMsg{Muted: &muted})
	if !model.muted {
		t.Error("expected muted after status update")
	}
}

func TestStatusMsgRuntimeStats(t *testing.T) {
	model := NewModel(nil)

	model.applyStatus(StatusMsg{
		Goroutines: 42,
		MemAlloc:   1024 * 1024,
		MemSys:     2048 * 1024,
	})

	if model.goroutines != 42 {
		t.Errorf("expected goroutines 42, got %d", model.goroutines)
	}
	if model.memAlloc != 1024*1024 {
		t.Errorf("expected memAlloc %d, got %d", 1024*1024, model.memAlloc)
	}
	if model.memSys != 2048*1024 {
		t.Errorf("expected memSys %d, got %d", 2048*1024, model.memSys)
	}
}

func TestKeyVolumeSendsChange(t *testing.T) {
	ctrl := NewVolumeControl()
	model := NewModel(ctrl)

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model = updated.(Model)

	if model.volume != 95 {
		t.Errorf("expected volume 95, got %d", model.volume)
	}
	select {
	case change := <-ctrl.Changes:
		if change.Volume != 95 || change.Muted {
			t.Errorf("unexpected change %+v", change)
		}
	default:
		t.Fatal("expected a volume change to be sent")
	}

	// Already at the maximum: no change is sent
	model.volume = 100
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyUp})
	model = updated.(Model)
	select {
	case change := <-ctrl.Changes:
		t.Errorf("expected no change at maximum, got %+v", change)
	default:
	}
}

func TestKeyMuteToggles(t *testing.T) {
	ctrl := NewVolumeControl()
	model := NewModel(ctrl)

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	model = updated.(Model)

	if !model.muted {
		t.Error("expected muted after m")
	}
	change := <-ctrl.Changes
	if !change.Muted {
		t.Error("expected mute change to be sent")
	}
}

func TestKeyQuit(t *testing.T) {
	ctrl := NewVolumeControl()
	model := NewModel(ctrl)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	select {
	case <-ctrl.Quit:
	default:
		t.Error("expected quit to be signalled")
	}

	// A second quit must not block on the full channel
	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
}

func TestViewRendersSections(t *testing.T) {
	model := NewModel(nil)
	model.width = 80
	model.applyStatus(StatusMsg{StreamID: "abc", SampleRate: 16000, Channels: 1, BitDepth: 8, State: "playing"})

	view := model.View()
	for _, want := range []string{"abc", "playing", "16000Hz Mono 8-bit", "Test tone", "Written: 0"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}

	if NewModel(nil).View() != "Loading..." {
		t.Error("expected loading view before the first window size")
	}
}

func TestTruncateFunction(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"this is longer than allowed", 10, "this is..."},
		{"", 10, ""},
		{"abcd", 4, "abcd"},
		{"abcde", 4, "a..."},
	}

	for _, tt := range tests {
		result := truncate(tt.input, tt.maxLen)
		if result != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, expected %q",
				tt.input, tt.maxLen, result, tt.expected)
		}
	}
}

func TestChannelNameFunction(t *testing.T) {
	tests := []struct {
		channels int
		expected string
	}{
		{1, "Mono"},
		{2, "Stereo"},
		{0, "Stereo"},
	}

	for _, tt := range tests {
		result := channelName(tt.channels)
		if result != tt.expected {
			t.Errorf("channelName(%d) = %q, expected %q",
				tt.channels, result, tt.expected)
		}
	}
}
