package ui

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/amon-mr-error/MusicGenerator/internal/audio"
	"github.com/amon-mr-error/MusicGenerator/internal/generate"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
)

const (
	panelHeading  = "Your Custom Soundscape"
	volumeStep    = 0.01
	volumeBigStep = 0.1
)

// playbackState is the user-facing playback state.
type playbackState struct {
	volume    float64
	muted     bool
	isPlaying bool
}

// effectiveVolume is the volume actually applied to the device.
func (s playbackState) effectiveVolume() float64 {
	if s.muted {
		return 0
	}
	return s.volume
}

// playbackModel is the panel shown once a clip has been generated.
type playbackModel struct {
	common *commonModel
	player audio.Player

	state playbackState

	result   *generate.Result
	caption  string
	clipErr  error
	position time.Duration
	duration time.Duration

	timeline progress.Model
	meter    progress.Model
}

func newPlaybackModel(common *commonModel, player audio.Player) playbackModel {
	gradient := progress.WithGradient("#A77BE0", "#F25D94")
	if !hasDarkBg {
		gradient = progress.WithGradient("#6B3FA0", "#D6277D")
	}

	return playbackModel{
		common: common,
		player: player,
		state: playbackState{
			volume: audio.ClampVolume(common.cfg.Volume),
		},
		timeline: progress.New(gradient, progress.WithoutPercentage()),
		meter:    progress.New(progress.WithSolidFill(string(pink.Dark)), progress.WithoutPercentage()),
	}
}

// hasResult reports whether the panel should be shown.
func (p playbackModel) hasResult() bool {
	return p.result != nil
}

// load attaches a new result. A payload that cannot be decoded still shows
// the panel, with the decode error in place of the controls.
func (p *playbackModel) load(res *generate.Result) {
	p.result = res
	p.caption = res.Prompt
	p.clipErr = nil
	p.position, p.duration = 0, 0
	p.state.isPlaying = false

	clip, err := audio.Decode(res.Audio)
	if err == nil {
		err = p.player.Load(clip)
	}
	if err != nil {
		log.Warn("clip is not playable", "id", res.RequestID, "error", err)
		p.clipErr = err
		return
	}

	p.duration = p.player.Duration()
	p.applyVolume()
}

// release drops the current result and frees the player.
func (p *playbackModel) release() {
	if p.result == nil {
		return
	}
	p.player.Unload()
	p.result.Release()
	p.result = nil
	p.caption = ""
	p.clipErr = nil
	p.position, p.duration = 0, 0
	p.state.isPlaying = false
}

func (p playbackModel) playable() bool {
	return p.result != nil && p.clipErr == nil
}

// applyVolume pushes the effective volume to the player.
func (p *playbackModel) applyVolume() {
	if err := p.player.SetVolume(p.state.effectiveVolume()); err != nil {
		log.Warn("unable to set volume", "error", err)
	}
}

func (p *playbackModel) toggleMute() {
	p.state.muted = !p.state.muted
	p.applyVolume()
}

// setVolume moves the slider. The slider is disabled while muted.
func (p *playbackModel) setVolume(v float64) bool {
	if p.state.muted {
		return false
	}
	v = audio.ClampVolume(math.Round(v*100) / 100)
	if v == p.state.volume {
		return false
	}
	p.state.volume = v
	p.applyVolume()
	return true
}

func (p *playbackModel) nudgeVolume(delta float64) bool {
	return p.setVolume(p.state.volume + delta)
}

func (p *playbackModel) togglePlay() error {
	if !p.playable() {
		return audio.ErrNoClip
	}
	if p.player.State() == audio.StatePlaying {
		if err := p.player.Pause(); err != nil {
			return err
		}
	} else if err := p.player.Play(); err != nil {
		return err
	}
	p.sync()
	return nil
}

func (p *playbackModel) stop() error {
	if !p.playable() {
		return audio.ErrNoClip
	}
	if err := p.player.Stop(); err != nil {
		return err
	}
	p.sync()
	return nil
}

// sync reads play/pause/end signals back from the player. It reports
// whether isPlaying changed.
func (p *playbackModel) sync() bool {
	if !p.playable() {
		return false
	}
	playing := p.player.State() == audio.StatePlaying
	changed := playing != p.state.isPlaying
	p.state.isPlaying = playing
	p.position = p.player.Position()
	return changed
}

func (p *playbackModel) setWidth(w int) {
	p.timeline.Width = max(w-16, 10)
	p.meter.Width = max(w-24, 10)
}

func (p playbackModel) view(width int) string {
	var b strings.Builder

	b.WriteString(headingStyle.Render(panelHeading))
	b.WriteString("\n\n")

	if p.clipErr != nil {
		msg := "Unable to play this clip: " + p.clipErr.Error()
		if errors.Is(p.clipErr, audio.ErrNoAudioDevice) {
			msg = "No audio device available."
		}
		b.WriteString(errorStyle.Render(wordwrap.String(msg, width)))
		b.WriteString("\n")
	} else {
		b.WriteString(p.transportView())
		b.WriteString("\n")
		b.WriteString(p.volumeView())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(captionStyle.Render(wordwrap.String("“"+p.caption+"”", width)))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(p.detailsView()))

	return b.String()
}

func (p playbackModel) transportView() string {
	icon, label := "▶", "Play "
	style := mutedStyle
	if p.state.isPlaying {
		icon, label = "⏸", "Pause"
		style = playingStyle
	}

	var pct float64
	if p.duration > 0 {
		pct = float64(p.position) / float64(p.duration)
	}

	return fmt.Sprintf("%s %s",
		style.Render(icon+" "+label),
		p.timeline.ViewAs(pct)+" "+formatDuration(p.position)+"/"+formatDuration(p.duration),
	)
}

func (p playbackModel) volumeView() string {
	if p.state.muted {
		return errorStyle.Render("🔇 Muted") + " " + mutedStyle.Render(p.meter.ViewAs(p.state.volume)+" (slider disabled)")
	}
	return "🔊 Vol   " + p.meter.ViewAs(p.state.volume) + fmt.Sprintf(" %3.0f%%", p.state.volume*100)
}

func (p playbackModel) detailsView() string {
	parts := []string{humanize.Bytes(uint64(p.result.Size()))} //nolint:gosec
	if ct := p.result.ContentType; ct != "" {
		parts = append(parts, ct)
	}
	if p.duration > 0 {
		parts = append(parts, formatDuration(p.duration))
	}
	if p.result.Elapsed > 0 {
		parts = append(parts, "generated in "+p.result.Elapsed.Round(100*time.Millisecond).String())
	}
	return strings.Join(parts, " · ")
}

func formatDuration(d time.Duration) string {
	s := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
