// Package progress computes how much of a backlog or tag is done and keeps a
// status label in sync with it.
package progress

import (
	"fmt"
	"math"

	"github.com/alexanderramin/tomo/internal/domain"
)

// Options tunes the counting rule.
type Options struct {
	// CountSealedStartable counts never-started pomodoros of a sealed item
	// as done. When false they are left out of the summary entirely.
	CountSealedStartable bool
}

func DefaultOptions() Options {
	return Options{CountSealedStartable: true}
}

// Summary is a snapshot of completion counts. It is always computed from the
// full grouping; nothing is carried over between computations.
type Summary struct {
	TotalItems     int
	DoneItems      int
	TotalPomodoros int
	DonePomodoros  int
}

// Compute counts the planned work items and pomodoros of g.
//
// Items that are neither startable, sealed nor running are not planned yet
// and are skipped together with their pomodoros.
func Compute(g domain.Grouping, opts Options) Summary {
	var s Summary
	for _, wi := range g.WorkItems() {
		sealed := wi.IsSealed()
		if !wi.IsStartable() && !sealed && !wi.IsRunning() {
			continue
		}
		s.TotalItems++
		if sealed {
			s.DoneItems++
		}
		for _, p := range wi.Pomodoros {
			if sealed && p.IsStartable() {
				if !opts.CountSealedStartable {
					continue
				}
				s.TotalPomodoros++
				s.DonePomodoros++
				continue
			}
			s.TotalPomodoros++
			if p.IsFinished() || p.IsCanceled() {
				s.DonePomodoros++
			}
		}
	}
	return s
}

// Visible reports whether there is anything worth showing.
func (s Summary) Visible() bool {
	return s.TotalPomodoros > 0 || s.TotalItems > 0
}

// ItemsPercent returns the rounded share of done items; ok is false when
// there are no items.
func (s Summary) ItemsPercent() (pct int, ok bool) {
	return percent(s.DoneItems, s.TotalItems)
}

// PomodorosPercent returns the rounded share of done pomodoros; ok is false
// when there are no pomodoros.
func (s Summary) PomodorosPercent() (pct int, ok bool) {
	return percent(s.DonePomodoros, s.TotalPomodoros)
}

// Text renders the status line, e.g.
// "✔️ planned items : 3 of 4 done (75%) - 🍅 pomodoros : 3 of 4 done (75%)".
func (s Summary) Text() string {
	return fmt.Sprintf("✔️ planned items : %d of %d done%s - 🍅 pomodoros : %d of %d done%s",
		s.DoneItems, s.TotalItems, suffix(s.ItemsPercent()),
		s.DonePomodoros, s.TotalPomodoros, suffix(s.PomodorosPercent()))
}

func percent(done, total int) (int, bool) {
	if total <= 0 {
		return 0, false
	}
	return int(math.RoundToEven(100 * float64(done) / float64(total))), true
}

func suffix(pct int, ok bool) string {
	if !ok {
		return ""
	}
	return fmt.Sprintf(" (%d%%)", pct)
}
