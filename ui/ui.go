// Package ui provides the terminal UI for generating and playing music.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amon-mr-error/MusicGenerator/internal/audio"
	"github.com/amon-mr-error/MusicGenerator/internal/generate"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "copied!"
	defaultWidth         = 80
	maxContentWidth      = 100

	appTitle    = "♪ Sensual Soundscape Creator"
	appSubtitle = "Transform your desires into captivating audio experiences"
)

// NewProgram returns a new Tea program.
func NewProgram(cfg Config) (*tea.Program, error) {
	client, err := generate.NewClient(generate.Config{
		BaseURL: cfg.BaseURL(),
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	log.Debug(
		"Starting musicgen",
		"endpoint", client.Endpoint(),
		"volume", cfg.Volume,
		"timeout", cfg.Timeout,
		"audio", !cfg.DisableAudio,
	)

	var player audio.Player = audio.NewOtoPlayer()
	if cfg.DisableAudio {
		player = audio.NewMockPlayer()
	}

	detectBackground()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(cfg, client, player), opts...), nil
}

// focusArea is the part of the screen receiving keys.
type focusArea int

const (
	focusPrompt focusArea = iota
	focusPresets
	focusPlayer
)

func (f focusArea) String() string {
	return map[focusArea]string{
		focusPrompt:  "prompt",
		focusPresets: "presets",
		focusPlayer:  "player",
	}[f]
}

// phase is the generation state machine.
type phase int

const (
	phaseIdle phase = iota
	phaseLoading
	phaseReady
)

func (p phase) String() string {
	return map[phase]string{
		phaseIdle:    "idle",
		phaseLoading: "loading",
		phaseReady:   "ready",
	}[p]
}

// Common stuff we'll need to access in all models.
type commonModel struct {
	cfg    Config
	width  int
	height int
}

type model struct {
	common *commonModel

	ctx    context.Context
	cancel context.CancelFunc

	generator Generator
	keys      keyMap
	help      help.Model
	focus     focusArea

	form     formModel
	playback playbackModel

	loading bool
	// seq identifies the latest submission; older responses are dropped.
	seq int

	notice        *failureNotice
	statusMessage string
}

func newModel(cfg Config, gen Generator, player audio.Player) model {
	common := &commonModel{
		cfg:   cfg,
		width: defaultWidth,
	}
	keys := newKeyMap()
	ctx, cancel := context.WithCancel(context.Background())

	m := model{
		common:    common,
		ctx:       ctx,
		cancel:    cancel,
		generator: gen,
		keys:      keys,
		help:      help.New(),
		form:      newFormModel(common, keys),
		playback:  newPlaybackModel(common, player),
	}
	m.setWidth(defaultWidth)
	return m
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

// phase derives the state machine position from loading and result.
func (m model) phase() phase {
	switch {
	case m.loading:
		return phaseLoading
	case m.playback.hasResult():
		return phaseReady
	default:
		return phaseIdle
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height
		m.setWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			cmd := m.quit()
			return m, cmd
		}
		// The notice blocks everything until dismissed.
		if m.notice != nil {
			if key.Matches(msg, m.keys.Dismiss) {
				m.notice = nil
				cmd := m.setFocus(focusPrompt)
				return m, cmd
			}
			return m, nil
		}
		return m.handleKey(msg)

	case generatedMsg:
		return m.handleGenerated(msg)

	case playbackTickMsg:
		if msg.seq != m.seq || !m.playback.playable() {
			return m, nil
		}
		if m.playback.sync() {
			log.Debug("playback state changed", "playing", m.playback.state.isPlaying)
		}
		return m, playbackTick(m.seq)

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.form.spinner, cmd = m.form.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case statusMsg:
		m.statusMessage = string(msg)
		return m, statusTimeoutCmd()

	case statusMessageTimeoutMsg:
		m.statusMessage = ""
		return m, nil
	}

	if m.focus == focusPrompt {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextFocus):
		cmd := m.cycleFocus(1)
		return m, cmd
	case key.Matches(msg, m.keys.PrevFocus):
		cmd := m.cycleFocus(-1)
		return m, cmd
	}

	switch m.focus {
	case focusPrompt:
		if key.Matches(msg, m.keys.Submit) {
			cmd := m.submit()
			return m, cmd
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd

	case focusPresets:
		switch {
		case key.Matches(msg, m.keys.PresetPrev):
			m.form.movePreset(-1)
		case key.Matches(msg, m.keys.PresetNext):
			m.form.movePreset(1)
		case key.Matches(msg, m.keys.ApplyPreset):
			m.form.applyPreset(m.form.selected)
			cmd := m.setFocus(focusPrompt)
			return m, cmd
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Quit):
			cmd := m.quit()
			return m, cmd
		}

	case focusPlayer:
		switch {
		case key.Matches(msg, m.keys.PlayPause):
			if err := m.playback.togglePlay(); err != nil {
				log.Debug("play/pause ignored", "error", err)
			}
		case key.Matches(msg, m.keys.Stop):
			if err := m.playback.stop(); err != nil {
				log.Debug("stop ignored", "error", err)
			}
		case key.Matches(msg, m.keys.Mute):
			m.playback.toggleMute()
		case key.Matches(msg, m.keys.VolumeDownBig):
			m.playback.nudgeVolume(-volumeBigStep)
		case key.Matches(msg, m.keys.VolumeUpBig):
			m.playback.nudgeVolume(volumeBigStep)
		case key.Matches(msg, m.keys.VolumeDown):
			m.playback.nudgeVolume(-volumeStep)
		case key.Matches(msg, m.keys.VolumeUp):
			m.playback.nudgeVolume(volumeStep)
		case key.Matches(msg, m.keys.Copy):
			return m, copyToClipboardCmd(m.playback.caption)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Quit):
			cmd := m.quit()
			return m, cmd
		}
	}

	return m, nil
}

// submit starts a generation if the submit action is enabled.
func (m *model) submit() tea.Cmd {
	if !m.form.canSubmit(m.loading) {
		return nil
	}

	prompt := m.form.Value()
	m.loading = true
	m.playback.release()
	m.seq++

	log.Debug("submitting prompt", "seq", m.seq, "length", len(prompt))
	return tea.Batch(
		m.form.spinner.Tick,
		generateCmd(m.ctx, m.generator, m.seq, prompt),
	)
}

func (m model) handleGenerated(msg generatedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.seq {
		log.Debug("discarding stale generation", "seq", msg.seq, "current", m.seq)
		msg.result.Release()
		return m, nil
	}

	m.loading = false

	if msg.err == nil && msg.result == nil {
		msg.err = fmt.Errorf("%w: no result returned", generate.ErrGenerationFailed)
	}
	if msg.err != nil {
		if generate.IsCanceled(msg.err) {
			return m, nil
		}
		log.Error("generation failed", "error", msg.err)
		m.notice = &failureNotice{err: msg.err}
		return m, nil
	}

	m.playback.load(msg.result)
	cmds := []tea.Cmd{m.setFocus(focusPlayer)}
	if m.playback.playable() {
		cmds = append(cmds, playbackTick(m.seq))
	}
	return m, tea.Batch(cmds...)
}

// focusOrder lists the areas tab cycles through.
func (m model) focusOrder() []focusArea {
	order := []focusArea{focusPrompt, focusPresets}
	if m.playback.hasResult() {
		order = append(order, focusPlayer)
	}
	return order
}

func (m *model) cycleFocus(delta int) tea.Cmd {
	order := m.focusOrder()
	i := 0
	for j, f := range order {
		if f == m.focus {
			i = j
		}
	}
	return m.setFocus(order[(i+delta+len(order))%len(order)])
}

func (m *model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	if f == focusPrompt {
		return m.form.focus()
	}
	m.form.blur()
	return nil
}

func (m *model) setWidth(w int) {
	inner := min(w, maxContentWidth) - 8
	m.form.setWidth(inner)
	m.playback.setWidth(inner)
	m.help.Width = w
}

// quit releases the player and abandons any in-flight request.
func (m *model) quit() tea.Cmd {
	m.cancel()
	m.playback.release()
	if err := m.playback.player.Close(); err != nil {
		log.Warn("closing player", "error", err)
	}
	return tea.Quit
}

func (m model) View() string {
	width := m.common.width
	if width <= 0 {
		width = defaultWidth
	}

	if m.notice != nil {
		return m.notice.view(width, m.common.height)
	}

	inner := min(width, maxContentWidth) - 8

	var b strings.Builder
	b.WriteString(titleStyle.Render(appTitle))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(appSubtitle))
	b.WriteString("\n\n")

	formPanel := panelStyle
	if m.focus != focusPlayer {
		formPanel = focusedPanelStyle
	}
	b.WriteString(formPanel.Width(inner + 4).Render(m.form.view(inner, m.loading, m.focus == focusPresets)))
	b.WriteString("\n")

	if m.playback.hasResult() {
		playerPanel := panelStyle
		if m.focus == focusPlayer {
			playerPanel = focusedPanelStyle
		}
		b.WriteString(playerPanel.Width(inner + 4).Render(m.playback.view(inner)))
		b.WriteString("\n")
	}

	if m.statusMessage != "" {
		b.WriteString(statusStyle.Render(m.statusMessage))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(helpKeys{keys: m.keys, focus: m.focus}))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
