package audio

import (
	"errors"
	"io"
	"testing"
	"time"
)

// fakeOutput stands in for an oto player. The test decides how much of the
// source the "device" has pulled and how much of that is still buffered.
type fakeOutput struct {
	r        io.Reader
	playing  bool
	buffered int
	volume   float64
	closed   bool
	seeks    int
}

func (f *fakeOutput) Play()           { f.playing = true }
func (f *fakeOutput) Pause()          { f.playing = false }
func (f *fakeOutput) IsPlaying() bool { return f.playing }
func (f *fakeOutput) BufferedSize() int {
	return f.buffered
}
func (f *fakeOutput) SetVolume(v float64) { f.volume = v }

func (f *fakeOutput) Seek(offset int64, whence int) (int64, error) {
	f.seeks++
	f.buffered = 0
	return f.r.(io.Seeker).Seek(offset, whence)
}

func (f *fakeOutput) Close() error {
	f.closed = true
	return nil
}

// pull reads n bytes from the source and leaves buffered of them unplayed.
// Running out of source stops playback, as oto does at end of stream.
func (f *fakeOutput) pull(n, buffered int) {
	_, err := io.ReadFull(f.r, make([]byte, n))
	f.buffered = buffered
	if err != nil {
		f.playing = false
		f.buffered = 0
	}
}

type fakeDevice struct {
	format  Format
	err     error
	players []*fakeOutput
}

func (d *fakeDevice) open(f Format) (outputContext, Format, error) {
	if d.err != nil {
		return nil, Format{}, d.err
	}
	if d.format == (Format{}) {
		d.format = f
	}
	return d, d.format, nil
}

func (d *fakeDevice) NewPlayer(r io.Reader) outputPlayer {
	out := &fakeOutput{r: r}
	d.players = append(d.players, out)
	return out
}

func (d *fakeDevice) last() *fakeOutput {
	return d.players[len(d.players)-1]
}

func loadedDevicePlayer(t *testing.T, clip *Clip) (*devicePlayer, *fakeOutput) {
	t.Helper()
	dev := &fakeDevice{}
	p := newDevicePlayer(dev.open)
	if err := p.Load(clip); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return &p, dev.last()
}

func TestDevicePlayerPositionExcludesBuffered(t *testing.T) {
	p, out := loadedDevicePlayer(t, testClip(time.Second))

	if err := p.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	// 4000 bytes pulled, 1000 still queued: 3000 bytes = 1500 mono frames.
	out.pull(4000, 1000)

	if got, want := p.Position(), 187500*time.Microsecond; got != want {
		t.Errorf("Position() = %v, want %v", got, want)
	}
	if p.State() != StatePlaying {
		t.Errorf("state = %v, want playing", p.State())
	}
}

func TestDevicePlayerRewindsAtEndOfStream(t *testing.T) {
	p, out := loadedDevicePlayer(t, testClip(time.Second))

	if err := p.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	out.pull(4000, 0)
	out.pull(20000, 0)

	if p.State() != StateStopped {
		t.Fatalf("state = %v, want stopped after the clip ended", p.State())
	}
	if out.seeks != 1 {
		t.Errorf("seeks = %d, want one rewind", out.seeks)
	}
	if p.Position() != 0 {
		t.Errorf("Position() = %v, want 0 after rewind", p.Position())
	}

	// Playing again starts from the top.
	if err := p.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	out.pull(2000, 0)
	if got, want := p.Position(), 125*time.Millisecond; got != want {
		t.Errorf("Position() = %v, want %v", got, want)
	}
}

func TestDevicePlayerStopRewinds(t *testing.T) {
	p, out := loadedDevicePlayer(t, testClip(time.Second))

	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() before play error = %v", err)
	}
	if err := p.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	out.pull(6000, 2000)

	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if out.playing {
		t.Error("output should be paused after Stop")
	}
	if p.State() != StateStopped {
		t.Errorf("state = %v, want stopped", p.State())
	}
	if p.Position() != 0 {
		t.Errorf("Position() = %v, want 0", p.Position())
	}
}

func TestDevicePlayerPause(t *testing.T) {
	p, out := loadedDevicePlayer(t, testClip(time.Second))

	if err := p.Pause(); err == nil {
		t.Error("Pause() while stopped should fail")
	}

	_ = p.Play()
	out.pull(4000, 0)
	if err := p.Pause(); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	// A paused output is not mistaken for a finished clip.
	if p.State() != StatePaused {
		t.Errorf("state = %v, want paused", p.State())
	}
	if got := p.Position(); got != 250*time.Millisecond {
		t.Errorf("Position() = %v, want 250ms", got)
	}
	if out.seeks != 0 {
		t.Errorf("pause should not rewind, seeks = %d", out.seeks)
	}
}

func TestDevicePlayerConvertsToDeviceFormat(t *testing.T) {
	dev := &fakeDevice{format: Format{SampleRate: 16000, Channels: 2}}
	p := newDevicePlayer(dev.open)

	if err := p.Load(testClip(time.Second)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Duration() != time.Second {
		t.Errorf("Duration() = %v, want 1s", p.Duration())
	}

	n, _ := io.Copy(io.Discard, dev.last().r)
	if want := int64(16000 * 2 * 2); n != want {
		t.Errorf("device read %d bytes, want %d", n, want)
	}
}

func TestDevicePlayerVolumeAndLifecycle(t *testing.T) {
	dev := &fakeDevice{}
	p := newDevicePlayer(dev.open)

	if err := p.SetVolume(1.5); err == nil {
		t.Error("SetVolume(1.5) should fail")
	}
	if err := p.SetVolume(0.3); err != nil {
		t.Fatalf("SetVolume() error = %v", err)
	}
	if err := p.Load(testClip(time.Second)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	first := dev.last()
	if first.volume != 0.3 {
		t.Errorf("output volume = %v, want 0.3", first.volume)
	}

	if err := p.Load(testClip(2 * time.Second)); err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if !first.closed {
		t.Error("loading a new clip should close the previous output")
	}
	if err := p.SetVolume(0.6); err != nil {
		t.Fatal(err)
	}
	if dev.last().volume != 0.6 {
		t.Errorf("output volume = %v, want 0.6", dev.last().volume)
	}

	p.Unload()
	if p.Loaded() || !dev.last().closed {
		t.Error("Unload should release the output")
	}
	if err := p.Play(); !errors.Is(err, ErrNoClip) {
		t.Errorf("Play() after Unload error = %v, want ErrNoClip", err)
	}

	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if p.State() != StateClosed {
		t.Errorf("state = %v, want closed", p.State())
	}
	if err := p.Load(testClip(time.Second)); !errors.Is(err, ErrPlayerClosed) {
		t.Errorf("Load() after Close error = %v, want ErrPlayerClosed", err)
	}
}

func TestDevicePlayerLoadErrors(t *testing.T) {
	dev := &fakeDevice{err: ErrNoAudioDevice}
	p := newDevicePlayer(dev.open)

	if err := p.Load(testClip(time.Second)); !errors.Is(err, ErrNoAudioDevice) {
		t.Errorf("Load() error = %v, want ErrNoAudioDevice", err)
	}
	if err := p.Load(nil); !errors.Is(err, ErrNoClip) {
		t.Errorf("Load(nil) error = %v, want ErrNoClip", err)
	}
	bad := &Clip{Format: Format{SampleRate: 8000, Channels: 6}, PCM: make([]byte, 12)}
	if err := p.Load(bad); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(6ch) error = %v, want ErrUnsupportedFormat", err)
	}
	if p.Loaded() {
		t.Error("nothing should be loaded")
	}
}
