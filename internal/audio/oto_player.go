//go:build !nocgo

package audio

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process.
var (
	otoOnce    sync.Once
	otoContext *oto.Context
	otoFormat  Format
	otoErr     error
)

func sharedContext(f Format) (*oto.Context, Format, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   f.SampleRate,
			ChannelCount: f.Channels,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoErr = fmt.Errorf("%w: %w", ErrNoAudioDevice, err)
			return
		}
		<-ready
		otoContext = ctx
		otoFormat = f
		log.Debug("audio context ready", "sampleRate", f.SampleRate, "channels", f.Channels)
	})
	return otoContext, otoFormat, otoErr
}

// OtoPlayer plays clips on the system audio device.
type OtoPlayer struct {
	devicePlayer
}

// NewOtoPlayer creates a player. The audio device is opened lazily on the
// first Load, using that clip's format for the lifetime of the process.
func NewOtoPlayer() *OtoPlayer {
	return &OtoPlayer{newDevicePlayer(openOto)}
}

func openOto(f Format) (outputContext, Format, error) {
	ctx, format, err := sharedContext(f)
	if err != nil {
		return nil, Format{}, err
	}
	return otoOutput{ctx}, format, nil
}

type otoOutput struct {
	ctx *oto.Context
}

func (o otoOutput) NewPlayer(r io.Reader) outputPlayer {
	return o.ctx.NewPlayer(r)
}
