package domain

type GroupingKind int

const (
	GroupNone GroupingKind = iota
	GroupBacklog
	GroupTag
)

// Grouping is the selection a progress summary is computed over: a backlog,
// a tag, or nothing at all.
type Grouping struct {
	kind    GroupingKind
	backlog *Backlog
	tag     *Tag
}

func NoGrouping() Grouping { return Grouping{} }

// BacklogGrouping selects b; a nil backlog selects nothing.
func BacklogGrouping(b *Backlog) Grouping {
	if b == nil {
		return Grouping{}
	}
	return Grouping{kind: GroupBacklog, backlog: b}
}

// TagGrouping selects t; a nil tag selects nothing.
func TagGrouping(t *Tag) Grouping {
	if t == nil {
		return Grouping{}
	}
	return Grouping{kind: GroupTag, tag: t}
}

func (g Grouping) Kind() GroupingKind { return g.kind }
func (g Grouping) IsNone() bool       { return g.kind == GroupNone }
func (g Grouping) Backlog() *Backlog  { return g.backlog }
func (g Grouping) Tag() *Tag          { return g.tag }

// WorkItems returns the work items of the selected grouping.
func (g Grouping) WorkItems() []*WorkItem {
	switch g.kind {
	case GroupBacklog:
		return g.backlog.WorkItems
	case GroupTag:
		return g.tag.Items
	default:
		return nil
	}
}

// Label is a short human name for the selection.
func (g Grouping) Label() string {
	switch g.kind {
	case GroupBacklog:
		return g.backlog.Name
	case GroupTag:
		return "#" + g.tag.Name
	default:
		return ""
	}
}
