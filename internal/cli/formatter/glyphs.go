package formatter

import (
	"strings"

	"github.com/alexanderramin/tomo/internal/domain"
)

const (
	glyphNew      = "○"
	glyphWork     = "◉"
	glyphRest     = "◌"
	glyphFinished = "●"
	glyphCanceled = "✕"
)

// PomodoroGlyphs draws one glyph per pomodoro in order.
func PomodoroGlyphs(pomodoros []*domain.Pomodoro) string {
	var b strings.Builder
	for _, p := range pomodoros {
		switch p.State {
		case domain.PomodoroNew:
			b.WriteString(StyleDim.Render(glyphNew))
		case domain.PomodoroWork:
			b.WriteString(StyleRed.Render(glyphWork))
		case domain.PomodoroRest:
			b.WriteString(StyleBlue.Render(glyphRest))
		case domain.PomodoroFinished:
			b.WriteString(StyleGreen.Render(glyphFinished))
		case domain.PomodoroCanceled:
			b.WriteString(StyleYellow.Render(glyphCanceled))
		}
	}
	return b.String()
}
