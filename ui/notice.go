package ui

import (
	"errors"
	"strings"

	"github.com/amon-mr-error/MusicGenerator/internal/generate"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

const noticeText = "There was an error generating the music."

// failureNotice is the blocking alert shown when a generation fails.
type failureNotice struct {
	err error
}

// maxNoticeBody caps how much of a service error body the notice shows.
const maxNoticeBody = 160

func (n failureNotice) detail() string {
	var se *generate.StatusError
	switch {
	case errors.As(n.err, &se):
		d := "The service answered " + se.StatusText()
		if body := strings.Join(strings.Fields(se.Body), " "); body != "" {
			d += ": " + truncate.StringWithTail(body, maxNoticeBody, "…")
		}
		return d
	case n.err != nil:
		return n.err.Error()
	default:
		return ""
	}
}

func (n failureNotice) view(width, height int) string {
	inner := max(min(width-10, 60), 20)
	body := errorStyle.Bold(true).Render(noticeText)
	if d := n.detail(); d != "" {
		body += "\n\n" + mutedStyle.Render(wordwrap.String(d, inner))
	}
	body += "\n\n" + mutedStyle.Render("press enter to continue")

	box := noticeStyle.Width(inner + 6).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
