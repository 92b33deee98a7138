package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

const (
	promptPlaceholder = "Describe your perfect sound experience..."
	submitLabel       = "♫ Generate Your Soundscape"
	loadingLabel      = "Creating your experience..."
	maxChipWidth      = 40
)

// formModel is the prompt field, the preset shortcuts and the submit button.
type formModel struct {
	common *commonModel

	input    textarea.Model
	presets  []string
	selected int
	spinner  spinner.Model
}

func newFormModel(common *commonModel, keys keyMap) formModel {
	ta := textarea.New()
	ta.Placeholder = promptPlaceholder
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.CharLimit = 1000
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline = keys.Newline
	ta.SetValue(common.cfg.Prompt)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(pink)

	return formModel{
		common:  common,
		input:   ta,
		presets: common.cfg.presets(),
		spinner: sp,
	}
}

// Value returns the prompt as typed.
func (f formModel) Value() string {
	return f.input.Value()
}

// SetValue replaces the prompt.
func (f *formModel) SetValue(s string) {
	f.input.SetValue(s)
	f.input.CursorEnd()
}

// canSubmit reports whether the submit action is enabled.
func (f formModel) canSubmit(loading bool) bool {
	return !loading && strings.TrimSpace(f.input.Value()) != ""
}

// applyPreset overwrites the prompt with the preset at index i.
func (f *formModel) applyPreset(i int) bool {
	if i < 0 || i >= len(f.presets) {
		return false
	}
	f.selected = i
	f.SetValue(f.presets[i])
	return true
}

func (f *formModel) movePreset(delta int) {
	if len(f.presets) == 0 {
		return
	}
	f.selected = (f.selected + delta + len(f.presets)) % len(f.presets)
}

func (f *formModel) focus() tea.Cmd {
	return f.input.Focus()
}

func (f *formModel) blur() {
	f.input.Blur()
}

func (f *formModel) setWidth(w int) {
	f.input.SetWidth(max(w, 10))
}

func (f formModel) update(msg tea.Msg) (formModel, tea.Cmd) {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

func (f formModel) view(width int, loading, presetsFocused bool) string {
	var b strings.Builder

	b.WriteString(f.input.View())
	b.WriteString("\n\n")
	b.WriteString(f.presetsView(width, presetsFocused))
	b.WriteString("\n\n")

	switch {
	case loading:
		b.WriteString(disabledButtonStyle.Render(f.spinner.View() + " " + loadingLabel))
	case f.canSubmit(loading):
		b.WriteString(buttonStyle.Render(submitLabel))
	default:
		b.WriteString(disabledButtonStyle.Render(submitLabel))
	}

	return b.String()
}

// presetsView lays the preset chips out in rows no wider than width.
func (f formModel) presetsView(width int, focused bool) string {
	var (
		rows    []string
		row     []string
		rowUsed int
	)

	for i, p := range f.presets {
		label := truncate.StringWithTail(p, maxChipWidth, "…")
		style := chipStyle
		if focused && i == f.selected {
			style = selectedChipStyle
		}
		chip := style.Render(label)
		w := runewidth.StringWidth(label) + 2 + 1 // padding and gap

		if rowUsed > 0 && rowUsed+w > width {
			rows = append(rows, strings.Join(row, " "))
			row, rowUsed = nil, 0
		}
		row = append(row, chip)
		rowUsed += w
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, " "))
	}

	return strings.Join(rows, "\n")
}
