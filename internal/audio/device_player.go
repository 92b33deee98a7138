package audio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// outputContext opens players on an audio output.
type outputContext interface {
	NewPlayer(r io.Reader) outputPlayer
}

// outputPlayer is the part of *oto.Player a devicePlayer drives.
type outputPlayer interface {
	Play()
	Pause()
	IsPlaying() bool
	Seek(offset int64, whence int) (int64, error)
	// BufferedSize is the number of bytes read from the source but not yet
	// played.
	BufferedSize() int
	SetVolume(volume float64)
	Close() error
}

// openFunc opens the output for a clip format and reports the format the
// output actually runs at.
type openFunc func(Format) (outputContext, Format, error)

// devicePlayer implements Player on top of an output context.
type devicePlayer struct {
	mu   sync.Mutex
	open openFunc

	player outputPlayer
	source *trackingReader
	clip   *Clip

	state  State
	volume float64
}

func newDevicePlayer(open openFunc) devicePlayer {
	return devicePlayer{open: open, volume: 1}
}

// Load implements Player.
func (p *devicePlayer) Load(clip *Clip) error {
	if clip == nil || len(clip.PCM) == 0 {
		return ErrNoClip
	}
	if !clip.Format.Valid() {
		return fmt.Errorf("%w: %d Hz, %d channels", ErrUnsupportedFormat, clip.Format.SampleRate, clip.Format.Channels)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateClosed {
		return ErrPlayerClosed
	}

	ctx, deviceFormat, err := p.open(clip.Format)
	if err != nil {
		return err
	}

	p.unloadLocked()

	clip = Convert(clip, deviceFormat)
	p.clip = clip
	p.source = &trackingReader{r: bytes.NewReader(clip.PCM)}
	p.player = ctx.NewPlayer(p.source)
	p.player.SetVolume(p.volume)
	p.state = StateStopped

	log.Debug("clip loaded", "duration", clip.Duration(), "bytes", len(clip.PCM))
	return nil
}

// Unload implements Player.
func (p *devicePlayer) Unload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unloadLocked()
}

func (p *devicePlayer) unloadLocked() {
	if p.player != nil {
		p.player.Pause()
		if err := p.player.Close(); err != nil {
			log.Warn("closing audio player", "error", err)
		}
		p.player = nil
	}
	p.source = nil
	p.clip = nil
	if p.state != StateClosed {
		p.state = StateStopped
	}
}

// Loaded implements Player.
func (p *devicePlayer) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player != nil
}

// Play implements Player.
func (p *devicePlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateClosed {
		return ErrPlayerClosed
	}
	if p.player == nil {
		return ErrNoClip
	}
	p.refreshLocked()
	p.player.Play()
	p.state = StatePlaying
	return nil
}

// Pause implements Player.
func (p *devicePlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil {
		return ErrNoClip
	}
	p.refreshLocked()
	if p.state != StatePlaying {
		return fmt.Errorf("cannot pause: player is %s", p.state)
	}
	p.player.Pause()
	p.state = StatePaused
	return nil
}

// Stop implements Player.
func (p *devicePlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil {
		return ErrNoClip
	}
	p.player.Pause()
	if err := p.rewindLocked(); err != nil {
		return err
	}
	p.state = StateStopped
	return nil
}

func (p *devicePlayer) rewindLocked() error {
	if _, err := p.player.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind: %w", err)
	}
	return nil
}

// refreshLocked notices a clip that played to the end.
func (p *devicePlayer) refreshLocked() {
	if p.state != StatePlaying || p.player == nil || p.player.IsPlaying() {
		return
	}
	if err := p.rewindLocked(); err != nil {
		log.Warn("rewinding finished clip", "error", err)
	}
	p.state = StateStopped
}

// SetVolume implements Player.
func (p *devicePlayer) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", volume)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = volume
	if p.player != nil {
		p.player.SetVolume(volume)
	}
	return nil
}

// Volume implements Player.
func (p *devicePlayer) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// State implements Player.
func (p *devicePlayer) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshLocked()
	return p.state
}

// Position implements Player.
func (p *devicePlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil || p.clip == nil {
		return 0
	}
	played := p.source.offset() - int64(p.player.BufferedSize())
	if played < 0 {
		played = 0
	}
	return framesToDuration(played/int64(p.clip.Format.FrameSize()), p.clip.Format.SampleRate)
}

// Duration implements Player.
func (p *devicePlayer) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clip.Duration()
}

// Close implements Player.
func (p *devicePlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.unloadLocked()
	p.state = StateClosed
	return nil
}

// trackingReader records how far oto has read into the clip.
type trackingReader struct {
	mu  sync.Mutex
	r   *bytes.Reader
	pos int64
}

func (t *trackingReader) Read(b []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, err := t.r.Read(b)
	t.pos += int64(n)
	return n, err
}

func (t *trackingReader) Seek(offset int64, whence int) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, err := t.r.Seek(offset, whence)
	if err == nil {
		t.pos = n
	}
	return n, err
}

func (t *trackingReader) offset() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos
}
