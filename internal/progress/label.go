package progress

import "sync"

// TextLabel is an in-memory Label. The CLI prints it; the watch view renders
// it in its footer.
type TextLabel struct {
	mu      sync.Mutex
	text    string
	visible bool
	writes  int
}

func (l *TextLabel) SetText(text string) {
	l.mu.Lock()
	l.text = text
	l.writes++
	l.mu.Unlock()
}

func (l *TextLabel) SetVisible(visible bool) {
	l.mu.Lock()
	l.visible = visible
	l.mu.Unlock()
}

func (l *TextLabel) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

func (l *TextLabel) Visible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visible
}

// Writes counts SetText calls; views use it to notice a refresh.
func (l *TextLabel) Writes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writes
}
