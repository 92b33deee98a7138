package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit    key.Binding
	Newline   key.Binding
	NextFocus key.Binding
	PrevFocus key.Binding

	PresetPrev  key.Binding
	PresetNext  key.Binding
	ApplyPreset key.Binding

	PlayPause  key.Binding
	Stop       key.Binding
	Mute       key.Binding
	VolumeDown key.Binding
	VolumeUp   key.Binding
	VolumeBig  key.Binding
	Copy       key.Binding

	// Not shown in help; VolumeBig describes them.
	VolumeDownBig key.Binding
	VolumeUpBig   key.Binding

	Dismiss   key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate")),
		Newline:   key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"), key.WithHelp("alt+enter", "newline")),
		NextFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		PrevFocus: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),

		PresetPrev:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev preset")),
		PresetNext:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next preset")),
		ApplyPreset: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "use preset")),

		PlayPause:  key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "play/pause")),
		Stop:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Mute:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		VolumeDown: key.NewBinding(key.WithKeys("left", "-"), key.WithHelp("←/-", "volume down")),
		VolumeUp:   key.NewBinding(key.WithKeys("right", "+", "="), key.WithHelp("→/+", "volume up")),
		VolumeBig:  key.NewBinding(key.WithKeys("shift+left", "shift+right"), key.WithHelp("shift+←/→", "volume ±10%")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy prompt")),

		VolumeDownBig: key.NewBinding(key.WithKeys("shift+left", "pgdown")),
		VolumeUpBig:   key.NewBinding(key.WithKeys("shift+right", "pgup")),

		Dismiss:   key.NewBinding(key.WithKeys("enter", "esc", " "), key.WithHelp("enter", "dismiss")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:      key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc/q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// helpKeys shows the bindings relevant to the focused area.
type helpKeys struct {
	keys  keyMap
	focus focusArea
}

func (h helpKeys) ShortHelp() []key.Binding {
	k := h.keys
	switch h.focus {
	case focusPresets:
		return []key.Binding{k.PresetPrev, k.PresetNext, k.ApplyPreset, k.NextFocus, k.Quit}
	case focusPlayer:
		return []key.Binding{k.PlayPause, k.Mute, k.VolumeDown, k.VolumeUp, k.NextFocus, k.Help}
	default:
		return []key.Binding{k.Submit, k.NextFocus, k.ForceQuit}
	}
}

func (h helpKeys) FullHelp() [][]key.Binding {
	k := h.keys
	switch h.focus {
	case focusPresets:
		return [][]key.Binding{
			{k.PresetPrev, k.PresetNext, k.ApplyPreset},
			{k.NextFocus, k.PrevFocus, k.Quit},
		}
	case focusPlayer:
		return [][]key.Binding{
			{k.PlayPause, k.Stop, k.Mute},
			{k.VolumeDown, k.VolumeUp, k.VolumeBig},
			{k.Copy, k.NextFocus, k.PrevFocus},
			{k.Help, k.Quit},
		}
	default:
		return [][]key.Binding{
			{k.Submit, k.Newline},
			{k.NextFocus, k.PrevFocus, k.ForceQuit},
		}
	}
}
