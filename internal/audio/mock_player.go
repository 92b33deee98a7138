package audio

import (
	"fmt"
	"sync"
	"time"
)

// MockPlayer implements Player without producing sound. Tests drive the
// clock with Advance and end of stream with Finish.
type MockPlayer struct {
	mu sync.Mutex

	clip     *Clip
	state    State
	volume   float64
	position time.Duration

	// LoadErr, when set, is returned by Load.
	LoadErr error

	// Recorded calls.
	Loads     int
	Unloads   int
	Plays     int
	Pauses    int
	Stops     int
	VolumeLog []float64
}

// NewMockPlayer creates a mock player at full volume.
func NewMockPlayer() *MockPlayer {
	return &MockPlayer{volume: 1}
}

// Load implements Player.
func (m *MockPlayer) Load(clip *Clip) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateClosed {
		return ErrPlayerClosed
	}
	if m.LoadErr != nil {
		return m.LoadErr
	}
	if clip == nil || len(clip.PCM) == 0 {
		return ErrNoClip
	}
	m.Loads++
	m.clip = clip
	m.state = StateStopped
	m.position = 0
	return nil
}

// Unload implements Player.
func (m *MockPlayer) Unload() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Unloads++
	m.clip = nil
	m.position = 0
	if m.state != StateClosed {
		m.state = StateStopped
	}
}

// Loaded implements Player.
func (m *MockPlayer) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clip != nil
}

// Play implements Player.
func (m *MockPlayer) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateClosed {
		return ErrPlayerClosed
	}
	if m.clip == nil {
		return ErrNoClip
	}
	m.Plays++
	m.state = StatePlaying
	return nil
}

// Pause implements Player.
func (m *MockPlayer) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clip == nil {
		return ErrNoClip
	}
	if m.state != StatePlaying {
		return fmt.Errorf("cannot pause: player is %s", m.state)
	}
	m.Pauses++
	m.state = StatePaused
	return nil
}

// Stop implements Player.
func (m *MockPlayer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clip == nil {
		return ErrNoClip
	}
	m.Stops++
	m.state = StateStopped
	m.position = 0
	return nil
}

// SetVolume implements Player.
func (m *MockPlayer) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", volume)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = volume
	m.VolumeLog = append(m.VolumeLog, volume)
	return nil
}

// Volume implements Player.
func (m *MockPlayer) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// State implements Player.
func (m *MockPlayer) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Position implements Player.
func (m *MockPlayer) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

// Duration implements Player.
func (m *MockPlayer) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clip.Duration()
}

// Close implements Player.
func (m *MockPlayer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clip = nil
	m.state = StateClosed
	return nil
}

// Advance moves the playback position while playing. Reaching the end of
// the clip behaves like Finish.
func (m *MockPlayer) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StatePlaying {
		return
	}
	m.position += d
	if m.position >= m.clip.Duration() {
		m.finishLocked()
	}
}

// Finish simulates the clip playing to its end.
func (m *MockPlayer) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finishLocked()
}

func (m *MockPlayer) finishLocked() {
	if m.state == StateClosed {
		return
	}
	m.state = StateStopped
	m.position = 0
}
