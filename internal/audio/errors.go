package audio

import "errors"

var (
	// ErrUnsupportedFormat indicates a payload the decoder cannot play.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrNoAudioDevice indicates that no audio output is available.
	ErrNoAudioDevice = errors.New("audio device unavailable")

	// ErrNoClip indicates a playback control was used with nothing loaded.
	ErrNoClip = errors.New("no clip loaded")

	// ErrPlayerClosed indicates the player was already closed.
	ErrPlayerClosed = errors.New("player is closed")
)
