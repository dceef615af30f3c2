package domain

import "time"

type Backlog struct {
	ID        string
	Name      string
	WorkItems []*WorkItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tag is a cross-backlog view of the work items carrying #Name.
type Tag struct {
	Name  string
	Items []*WorkItem
}

// TagCount pairs a tag with the number of work items carrying it.
type TagCount struct {
	Name  string
	Count int
}
