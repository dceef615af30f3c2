// Package event carries lifecycle notifications from an event source to the
// views that render it.
//
// Event names are grouped into families. Listeners subscribe to a whole
// family (every work item event, every pomodoro event) instead of matching
// name patterns.
package event

import (
	"fmt"
	"time"

	"github.com/alexanderramin/tomo/internal/domain"
)

// Family is the dispatch key listeners subscribe to.
type Family int

const (
	FamilySource Family = iota
	FamilyBacklog
	FamilyWorkItem
	FamilyPomodoro
	familyCount
)

func (f Family) String() string {
	switch f {
	case FamilySource:
		return "source"
	case FamilyBacklog:
		return "backlog"
	case FamilyWorkItem:
		return "workitem"
	case FamilyPomodoro:
		return "pomodoro"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

type Kind int

const (
	SourceChanged Kind = iota

	BacklogCreated
	BacklogRenamed
	BacklogDeleted

	WorkItemCreated
	WorkItemRenamed
	WorkItemStarted
	WorkItemCompleted
	WorkItemCanceled
	WorkItemReopened
	WorkItemDeleted

	PomodoroAdded
	PomodoroRemoved
	PomodoroWorkStarted
	PomodoroRestStarted
	PomodoroFinished
	PomodoroVoided
)

var kindNames = map[Kind]string{
	SourceChanged:       "AfterSourceChanged",
	BacklogCreated:      "AfterBacklogCreate",
	BacklogRenamed:      "AfterBacklogRename",
	BacklogDeleted:      "AfterBacklogDelete",
	WorkItemCreated:     "AfterWorkitemCreate",
	WorkItemRenamed:     "AfterWorkitemRename",
	WorkItemStarted:     "AfterWorkitemStart",
	WorkItemCompleted:   "AfterWorkitemComplete",
	WorkItemCanceled:    "AfterWorkitemCancel",
	WorkItemReopened:    "AfterWorkitemReopen",
	WorkItemDeleted:     "AfterWorkitemDelete",
	PomodoroAdded:       "AfterPomodoroAdd",
	PomodoroRemoved:     "AfterPomodoroRemove",
	PomodoroWorkStarted: "AfterPomodoroWorkStart",
	PomodoroRestStarted: "AfterPomodoroRestStart",
	PomodoroFinished:    "AfterPomodoroComplete",
	PomodoroVoided:      "AfterPomodoroVoid",
}

// String returns the canonical event name, e.g. "AfterWorkitemComplete".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Family returns the dispatch family k belongs to.
func (k Kind) Family() Family {
	switch {
	case k == SourceChanged:
		return FamilySource
	case k >= BacklogCreated && k <= BacklogDeleted:
		return FamilyBacklog
	case k >= WorkItemCreated && k <= WorkItemDeleted:
		return FamilyWorkItem
	case k >= PomodoroAdded && k <= PomodoroVoided:
		return FamilyPomodoro
	default:
		return familyCount
	}
}

// Event is one lifecycle notification. Backlog is the parent of the affected
// work item, loaded after the change was committed.
type Event struct {
	Kind     Kind
	At       time.Time
	Backlog  *domain.Backlog
	WorkItem *domain.WorkItem
	Pomodoro *domain.Pomodoro
}

type Handler func(Event)
