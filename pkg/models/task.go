package models

import (
	"fmt"
	"time"
)

// Category classifies the kind of work a task involves.
type Category string

const (
	CategoryOutreach  Category = "outreach"
	CategoryTechnical Category = "technical"
	CategoryResearch  Category = "research"
	CategoryWriting   Category = "writing"
	CategoryAdmin     Category = "admin"
	CategorySocial    Category = "social"
	CategoryOther     Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryOutreach,
	CategoryTechnical,
	CategoryResearch,
	CategoryWriting,
	CategoryAdmin,
	CategorySocial,
	CategoryOther,
}

// TaskStatus represents the current lifecycle state of a task.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusStarted    TaskStatus = "started"
	StatusBlocked    TaskStatus = "blocked"
	StatusDone       TaskStatus = "done"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []TaskStatus{
	StatusNotStarted,
	StatusStarted,
	StatusBlocked,
	StatusDone,
}

// statusAliases maps single-letter shorthand to full status values.
var statusAliases = map[string]TaskStatus{
	"n": StatusNotStarted,
	"s": StatusStarted,
	"b": StatusBlocked,
	"d": StatusDone,
}

// ParseStatus resolves a status from its full name or its single-letter
// alias (n, s, b, d).
func ParseStatus(s string) (TaskStatus, error) {
	if status, ok := statusAliases[s]; ok {
		return status, nil
	}
	switch TaskStatus(s) {
	case StatusNotStarted, StatusStarted, StatusBlocked, StatusDone:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("invalid status %q: must be one of not_started, started, blocked, done (or n, s, b, d)", s)
}

// Icon returns the glyph used for this status in list output.
func (s TaskStatus) Icon() string {
	switch s {
	case StatusNotStarted:
		return "○"
	case StatusStarted:
		return "◐"
	case StatusBlocked:
		return "◑"
	case StatusDone:
		return "●"
	default:
		return "?"
	}
}

// Label returns the human-readable name for this status.
func (s TaskStatus) Label() string {
	switch s {
	case StatusNotStarted:
		return "Not Started"
	case StatusStarted:
		return "Started"
	case StatusBlocked:
		return "Blocked"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// Priority represents the urgency level of a task.
type Priority string

const (
	P0 Priority = "P0"
	P1 Priority = "P1"
	P2 Priority = "P2"
	P3 Priority = "P3"
)

// Priorities lists every valid priority from most to least urgent.
var Priorities = []Priority{P0, P1, P2, P3}

// ParsePriority validates a priority string.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case P0, P1, P2, P3:
		return Priority(s), nil
	}
	return "", fmt.Errorf("invalid priority %q: must be one of P0, P1, P2, P3", s)
}

// TaskMeta is the YAML frontmatter of a task document. Field order here is
// the order keys are written to disk. Extra carries any hand-added keys so
// a rewrite never loses them.
type TaskMeta struct {
	Title         string         `yaml:"title"`
	Category      Category       `yaml:"category"`
	Priority      Priority       `yaml:"priority"`
	Status        TaskStatus     `yaml:"status"`
	EstimatedTime int            `yaml:"estimated_time"`
	Extra         map[string]any `yaml:",inline"`
}

// Task is a task document plus its storage coordinates. BodyExcerpt holds at
// most the first 500 characters of the document body, for search and
// display; ModTime is the file modification time, used for pruning and
// activity reports.
type Task struct {
	TaskMeta

	Filename    string
	BodyExcerpt string
	ModTime     time.Time
}
