package audio

import "time"

// State represents the current state of a player.
type State int32

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Player plays one clip at a time.
//
// A finished clip goes back to StateStopped with its position rewound, so
// Play starts it again from the top.
type Player interface {
	// Load replaces the current clip. The previous clip is released.
	Load(clip *Clip) error
	// Unload stops playback and releases the current clip.
	Unload()
	Loaded() bool

	Play() error
	Pause() error
	// Stop halts playback and rewinds to the start of the clip.
	Stop() error

	// SetVolume sets the device volume in [0, 1].
	SetVolume(volume float64) error
	Volume() float64

	State() State
	Position() time.Duration
	Duration() time.Duration

	Close() error
}

// ClampVolume limits v to [0, 1].
func ClampVolume(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

var (
	_ Player = (*OtoPlayer)(nil)
	_ Player = (*MockPlayer)(nil)
)
