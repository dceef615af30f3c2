package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tomo/internal/cli/formatter"
	"github.com/alexanderramin/tomo/internal/config"
	"github.com/alexanderramin/tomo/internal/domain"
	"github.com/alexanderramin/tomo/internal/progress"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	tickInterval  = time.Second
	progressWidth = 20
	// header and footer lines around the viewport
	chromeHeight = 6
)

type tickMsg time.Time

// configReloadedMsg carries a config delivered by the file watcher into
// the UI loop.
type configReloadedMsg struct {
	cfg *config.Config
}

type watchKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Start    key.Binding
	Finish   key.Binding
	Void     key.Binding
	Complete key.Binding
	Add      key.Binding
	Remove   key.Binding
	Quit     key.Binding
}

func defaultWatchKeys() watchKeyMap {
	return watchKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Start:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Finish:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish")),
		Void:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "void")),
		Complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Remove:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k watchKeyMap) help() string {
	bindings := []key.Binding{k.Up, k.Down, k.Start, k.Finish, k.Void, k.Complete, k.Add, k.Remove, k.Quit}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}

// watchModel shows one backlog and keeps its progress footer current. All
// service calls run inside Update, so label writes stay on the UI goroutine.
type watchModel struct {
	ctx       context.Context
	app       *App
	backlogID string
	keys      watchKeyMap
	now       func() time.Time

	label   *progress.TextLabel
	display *progress.Display

	backlog *domain.Backlog
	cursor  int
	status  string
	err     error

	vp     viewport.Model
	ready  bool
	width  int
	height int
}

func newWatchModel(ctx context.Context, app *App, backlogID string) *watchModel {
	label := &progress.TextLabel{}
	m := &watchModel{
		ctx:       ctx,
		app:       app,
		backlogID: backlogID,
		keys:      defaultWatchKeys(),
		now:       time.Now,
		label:     label,
		display:   progress.NewDisplay(app.Holder, label, app.ProgressOptions()),
	}
	m.reload()
	return m
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *watchModel) Init() tea.Cmd {
	return tickCmd()
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := max(msg.Height-chromeHeight, 1)
		if !m.ready {
			m.vp = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.vp.Width, m.vp.Height = msg.Width, h
		}
		m.refreshViewport()
		return m, nil

	case tickMsg:
		m.advance(time.Time(msg))
		return m, tickCmd()

	case configReloadedMsg:
		m.applyConfig(msg.cfg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *watchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Start):
		m.act("Started", func(id string) error {
			src, err := m.app.Source()
			if err != nil {
				return err
			}
			_, err = src.Pomodoros.Start(m.ctx, id)
			return err
		})
	case key.Matches(msg, m.keys.Finish):
		m.act("Finished", func(id string) error {
			src, err := m.app.Source()
			if err != nil {
				return err
			}
			_, err = src.Pomodoros.Finish(m.ctx, id)
			return err
		})
	case key.Matches(msg, m.keys.Void):
		m.act("Voided", func(id string) error {
			src, err := m.app.Source()
			if err != nil {
				return err
			}
			_, err = src.Pomodoros.Void(m.ctx, id)
			return err
		})
	case key.Matches(msg, m.keys.Complete):
		m.act("Completed", func(id string) error {
			src, err := m.app.Source()
			if err != nil {
				return err
			}
			_, err = src.WorkItems.Complete(m.ctx, id)
			return err
		})
	case key.Matches(msg, m.keys.Add):
		m.act("Added a pomodoro to", func(id string) error {
			src, err := m.app.Source()
			if err != nil {
				return err
			}
			_, err = src.Pomodoros.Add(m.ctx, id, 1)
			return err
		})
	case key.Matches(msg, m.keys.Remove):
		m.act("Removed a pomodoro from", func(id string) error {
			src, err := m.app.Source()
			if err != nil {
				return err
			}
			_, err = src.Pomodoros.Remove(m.ctx, id)
			return err
		})
	}
	return m, nil
}

// act runs fn against the selected item and reloads the backlog.
func (m *watchModel) act(verb string, fn func(id string) error) {
	w := m.selected()
	if w == nil {
		return
	}
	if err := fn(w.ID); err != nil {
		m.err = err
		m.status = ""
	} else {
		m.err = nil
		m.status = fmt.Sprintf("%s %s", verb, w.Title)
	}
	m.reload()
}

func (m *watchModel) advance(now time.Time) {
	src, err := m.app.Source()
	if err != nil {
		return
	}
	n, err := src.Pomodoros.Advance(m.ctx, now)
	if err != nil {
		m.err = err
		return
	}
	if n > 0 {
		m.reload()
	} else {
		m.refreshViewport()
	}
}

// applyConfig swaps the active source when the database path changed.
// The display resets on the swap and is pointed back at the backlog by
// reload, which reports a missing backlog in the new database.
func (m *watchModel) applyConfig(cfg *config.Config) {
	m.app.Config = cfg
	src, err := m.app.Source()
	if err == nil && src.Name() == cfg.DB.Path {
		return
	}
	if _, err := m.app.SwapSource(cfg.DB.Path); err != nil {
		m.err = fmt.Errorf("switching to %s: %w", cfg.DB.Path, err)
		return
	}
	m.status = "Switched to " + cfg.DB.Path
	m.err = nil
	m.reload()
}

func (m *watchModel) reload() {
	src, err := m.app.Source()
	if err == nil {
		var tree *domain.Backlog
		tree, err = src.Backlogs.Load(m.ctx, m.backlogID)
		if err == nil {
			m.backlog = tree
			m.display.Show(domain.BacklogGrouping(tree))
		}
	}
	if err != nil {
		m.backlog = nil
		m.err = err
		m.display.Show(domain.NoGrouping())
	}
	m.moveCursor(0)
}

func (m *watchModel) moveCursor(delta int) {
	n := len(m.items())
	m.cursor += delta
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.refreshViewport()
}

func (m *watchModel) items() []*domain.WorkItem {
	if m.backlog == nil {
		return nil
	}
	return m.backlog.WorkItems
}

func (m *watchModel) selected() *domain.WorkItem {
	items := m.items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return nil
	}
	return items[m.cursor]
}

func (m *watchModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.vp.SetContent(m.renderItems())
	if m.cursor < m.vp.YOffset {
		m.vp.SetYOffset(m.cursor)
	} else if m.cursor >= m.vp.YOffset+m.vp.Height {
		m.vp.SetYOffset(m.cursor - m.vp.Height + 1)
	}
}

func (m *watchModel) renderItems() string {
	items := m.items()
	if len(items) == 0 {
		return formatter.Dim("No work items.")
	}
	now := m.now()
	lines := make([]string, len(items))
	for i, w := range items {
		marker := "  "
		if i == m.cursor {
			marker = formatter.StyleHeader.Render("› ")
		}
		line := marker + formatter.StateStyle(w).Render(w.Title) + "  " + formatter.PomodoroGlyphs(w.Pomodoros)
		if p := w.RunningPomodoro(); p != nil {
			line += "  " + formatter.Dim(fmt.Sprintf("%s %s", p.State, formatRemaining(p, now)))
		} else if w.IsSealed() {
			line += "  " + formatter.Dim(string(w.State))
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// formatRemaining renders the time left in the current interval as mm:ss.
func formatRemaining(p *domain.Pomodoro, now time.Time) string {
	var end time.Time
	switch {
	case p.State == domain.PomodoroWork && p.StartedAt != nil:
		end = p.StartedAt.Add(time.Duration(p.WorkMinutes) * time.Minute)
	case p.State == domain.PomodoroRest && p.RestStartedAt != nil:
		end = p.RestStartedAt.Add(time.Duration(p.RestMinutes) * time.Minute)
	default:
		return ""
	}
	left := max(end.Sub(now).Round(time.Second), 0)
	return fmt.Sprintf("%02d:%02d", int(left.Minutes()), int(left.Seconds())%60)
}

func (m *watchModel) View() string {
	var b strings.Builder

	title := "tomo"
	if m.backlog != nil {
		title = "tomo · " + m.backlog.Name
	}
	b.WriteString(formatter.Header(title))
	b.WriteString("\n")

	if m.ready {
		b.WriteString(m.vp.View())
	} else {
		b.WriteString(m.renderItems())
	}
	b.WriteString("\n\n")

	if m.label.Visible() {
		b.WriteString(formatter.StyleProgressLine(m.display.Summary(), progressWidth))
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(formatter.StyleGreen.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(formatter.Dim(m.keys.help()))
	return b.String()
}

// Close detaches the progress display from the source holder.
func (m *watchModel) Close() {
	m.display.Close()
}
