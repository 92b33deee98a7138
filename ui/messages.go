package ui

import (
	"context"
	"time"

	"github.com/amon-mr-error/MusicGenerator/internal/generate"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

const playbackTickInterval = 200 * time.Millisecond

// Generator produces audio for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*generate.Result, error)
}

// generatedMsg is sent when a generation request completes.
type generatedMsg struct {
	seq    int
	result *generate.Result
	err    error
}

// playbackTickMsg polls the player for play/pause/end signals.
type playbackTickMsg struct {
	seq int
}

type statusMsg string

type statusMessageTimeoutMsg struct{}

// generateCmd runs one generation request.
func generateCmd(ctx context.Context, gen Generator, seq int, prompt string) tea.Cmd {
	return func() tea.Msg {
		res, err := gen.Generate(ctx, prompt)
		return generatedMsg{seq: seq, result: res, err: err}
	}
}

func playbackTick(seq int) tea.Cmd {
	return tea.Tick(playbackTickInterval, func(time.Time) tea.Msg {
		return playbackTickMsg{seq: seq}
	})
}

func copyToClipboardCmd(s string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(s); err != nil {
			return statusMsg("Could not copy: " + err.Error())
		}
		return statusMsg("Copied prompt to clipboard")
	}
}

func statusTimeoutCmd() tea.Cmd {
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg{}
	})
}
