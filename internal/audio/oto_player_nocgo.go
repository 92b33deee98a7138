//go:build nocgo

package audio

// OtoPlayer is a stand-in for builds without cgo. Every clip fails to load
// with ErrNoAudioDevice.
type OtoPlayer struct {
	devicePlayer
}

// NewOtoPlayer returns a player without an output device.
func NewOtoPlayer() *OtoPlayer {
	return &OtoPlayer{newDevicePlayer(func(Format) (outputContext, Format, error) {
		return nil, Format{}, ErrNoAudioDevice
	})}
}
