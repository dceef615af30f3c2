package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_-]+)`)

type WorkItem struct {
	ID         string
	BacklogID  string
	OrderIndex int
	Title      string
	State      WorkItemState
	Pomodoros  []*Pomodoro

	SealedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (w *WorkItem) IsSealed() bool { return w.State.Sealed() }

func (w *WorkItem) IsRunning() bool { return w.RunningPomodoro() != nil }

// IsStartable reports whether the item is open, idle, and has at least one
// pomodoro that was never started.
func (w *WorkItem) IsStartable() bool {
	if w.IsSealed() || w.IsRunning() {
		return false
	}
	return w.firstStartable() != nil
}

// RunningPomodoro returns the pomodoro in work or rest, or nil.
func (w *WorkItem) RunningPomodoro() *Pomodoro {
	for _, p := range w.Pomodoros {
		if p.IsRunning() {
			return p
		}
	}
	return nil
}

func (w *WorkItem) firstStartable() *Pomodoro {
	for _, p := range w.Pomodoros {
		if p.IsStartable() {
			return p
		}
	}
	return nil
}

// Tags returns the lower-cased #hashtags found in the title, in order of
// first appearance.
func (w *WorkItem) Tags() []string {
	return ParseTags(w.Title)
}

// ParseTags extracts #hashtags from a title.
func ParseTags(title string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(title, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

func (w *WorkItem) Rename(title string, now time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("work item title is required")
	}
	if w.IsSealed() {
		return ErrSealed
	}
	w.Title = title
	w.UpdatedAt = now
	return nil
}

// AddPomodoros appends n new pomodoros with the given interval lengths and
// returns them. IDs are left for the caller to assign.
func (w *WorkItem) AddPomodoros(n, workMin, restMin int, now time.Time) ([]*Pomodoro, error) {
	if n <= 0 {
		return nil, fmt.Errorf("pomodoro count must be positive, got %d", n)
	}
	if w.IsSealed() {
		return nil, ErrSealed
	}
	added := make([]*Pomodoro, 0, n)
	for i := 0; i < n; i++ {
		p := &Pomodoro{
			WorkItemID:  w.ID,
			OrderIndex:  len(w.Pomodoros),
			State:       PomodoroNew,
			WorkMinutes: workMin,
			RestMinutes: restMin,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		w.Pomodoros = append(w.Pomodoros, p)
		added = append(added, p)
	}
	w.UpdatedAt = now
	return added, nil
}

// RemovePomodoro drops the last startable pomodoro and returns it.
func (w *WorkItem) RemovePomodoro(now time.Time) (*Pomodoro, error) {
	if w.IsSealed() {
		return nil, ErrSealed
	}
	for i := len(w.Pomodoros) - 1; i >= 0; i-- {
		p := w.Pomodoros[i]
		if !p.IsStartable() {
			continue
		}
		w.Pomodoros = append(w.Pomodoros[:i], w.Pomodoros[i+1:]...)
		w.UpdatedAt = now
		return p, nil
	}
	return nil, ErrNoStartablePomodoro
}

// StartPomodoro starts the first startable pomodoro.
func (w *WorkItem) StartPomodoro(now time.Time) (*Pomodoro, error) {
	if w.IsSealed() {
		return nil, ErrSealed
	}
	if w.IsRunning() {
		return nil, ErrAlreadyRunning
	}
	p := w.firstStartable()
	if p == nil {
		return nil, ErrNoStartablePomodoro
	}
	if err := p.Start(now); err != nil {
		return nil, err
	}
	w.UpdatedAt = now
	return p, nil
}

// Seal moves the item into a terminal state, voiding a running pomodoro
// first. Startable pomodoros are left untouched. Sealing twice into the same
// state is a no-op; switching between terminal states is rejected.
func (w *WorkItem) Seal(state WorkItemState, now time.Time) (voided *Pomodoro, err error) {
	if !state.Sealed() {
		return nil, fmt.Errorf("cannot seal work item as %q", state)
	}
	if w.IsSealed() {
		if w.State == state {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: already %s", ErrSealed, w.State)
	}
	if p := w.RunningPomodoro(); p != nil {
		if err := p.Void(now); err != nil {
			return nil, err
		}
		voided = p
	}
	w.State = state
	w.SealedAt = &now
	w.UpdatedAt = now
	return voided, nil
}

// Reopen returns a sealed item to the open state.
func (w *WorkItem) Reopen(now time.Time) error {
	if !w.IsSealed() {
		return fmt.Errorf("cannot reopen work item in state %q", w.State)
	}
	w.State = WorkItemOpen
	w.SealedAt = nil
	w.UpdatedAt = now
	return nil
}
