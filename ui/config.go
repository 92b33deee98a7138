package ui

import (
	"strings"
	"time"
)

// DefaultVolume is the initial playback volume.
const DefaultVolume = 0.8

// DefaultPresets are the prompt shortcuts offered when the config file does
// not provide its own.
var DefaultPresets = []string{
	"Sultry jazz with deep bass and saxophone",
	"Seductive R&B with smooth vocals",
	"Passionate Latin dance rhythm with flamenco guitar",
	"Sensual electronic beats with breathy vocals",
	"Dreamy ambient soundscape with soft piano",
}

// Config contains TUI-specific configuration.
type Config struct {
	// Base URL of the generation service.
	APIURL string `env:"MUSICGEN_API_URL"`
	// Fallback for deployments that still export the web app's variable.
	LegacyAPIURL string `env:"REACT_APP_API_URL"`

	// Zero means no timeout.
	Timeout time.Duration `env:"MUSICGEN_TIMEOUT"`

	Volume  float64
	Presets []string

	// Prompt prefills the form.
	Prompt string

	EnableMouse bool

	// For debugging the UI
	DisableAudio bool `env:"MUSICGEN_DISABLE_AUDIO"`
}

// BaseURL returns the configured service URL.
func (c Config) BaseURL() string {
	if u := strings.TrimSpace(c.APIURL); u != "" {
		return u
	}
	return strings.TrimSpace(c.LegacyAPIURL)
}

func (c Config) presets() []string {
	if len(c.Presets) == 0 {
		return DefaultPresets
	}
	return c.Presets
}
