package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tomo/internal/progress"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}

	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// StyleProgressLine renders the summary text behind a pomodoro progress
// bar. It returns "" for a hidden summary.
func StyleProgressLine(s progress.Summary, barWidth int) string {
	if !s.Visible() {
		return ""
	}
	line := StyleFg.Render(s.Text())
	if s.TotalPomodoros == 0 {
		return line
	}
	pct := float64(s.DonePomodoros) / float64(s.TotalPomodoros)
	return RenderProgress(pct, barWidth) + "  " + line
}
