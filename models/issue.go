package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidUrgency  = errors.New("invalid urgency")
	ErrInvalidStatus   = errors.New("invalid status")
)

// IssueCategory enum
type IssueCategory string

const (
	Water       IssueCategory = "Water"
	Electricity IssueCategory = "Electricity"
	Roads       IssueCategory = "Roads"
	Waste       IssueCategory = "Waste"
	Other       IssueCategory = "Other"
)

// Categories lists every category in display order.
var Categories = []IssueCategory{Water, Electricity, Roads, Waste, Other}

// IssueUrgency enum
type IssueUrgency string

const (
	Low       IssueUrgency = "Low"
	Medium    IssueUrgency = "Medium"
	High      IssueUrgency = "High"
	Emergency IssueUrgency = "Emergency"
)

// Urgencies lists every urgency from least to most severe.
var Urgencies = []IssueUrgency{Low, Medium, High, Emergency}

// IssueStatus enum
type IssueStatus string

const (
	Reported   IssueStatus = "Reported"
	InProgress IssueStatus = "In Progress"
	Resolved   IssueStatus = "Resolved"
)

// Statuses lists the lifecycle in order.
var Statuses = []IssueStatus{Reported, InProgress, Resolved}

// TimelineEntry is one line of an issue's audit trail.
type TimelineEntry struct {
	Time  time.Time `bson:"time" json:"time"`
	Event string    `bson:"event" json:"event"`
}

// Issue represents a community issue reported by a citizen or an administrator
type Issue struct {
	ID          string          `bson:"_id" json:"id"`
	Title       string          `bson:"title" json:"title"`
	Category    IssueCategory   `bson:"category" json:"category"`
	Urgency     IssueUrgency    `bson:"urgency" json:"urgency"`
	Location    string          `bson:"location" json:"location"`
	Description string          `bson:"description" json:"description"`
	Status      IssueStatus     `bson:"status" json:"status"`
	Progress    int             `bson:"progress" json:"progress"`
	Timeline    []TimelineEntry `bson:"timeline" json:"timeline"`
	IsUrgent    bool            `bson:"isUrgent" json:"isUrgent"`
	ReportedBy  string          `bson:"reportedBy" json:"reportedBy"`
	ReportedAt  time.Time       `bson:"reportedAt" json:"reportedAt"`
	UpdatedAt   time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// Clone returns a copy that shares no timeline storage with i.
func (i Issue) Clone() Issue {
	if i.Timeline != nil {
		i.Timeline = append([]TimelineEntry(nil), i.Timeline...)
	}
	return i
}

// NewIssue carries the fields a reporter supplies when creating an issue.
type NewIssue struct {
	Title       string
	Category    string
	Urgency     string
	Location    string
	Description string
	ReportedBy  string
	// ByAdmin selects the admin wording for the first timeline entry.
	ByAdmin bool
}

// Complete reports whether every required field is non-empty.
func (n NewIssue) Complete() bool {
	for _, v := range []string{n.Title, n.Category, n.Urgency, n.Location, n.Description} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// IssueUpdate is a partial update. Nil fields are left untouched.
type IssueUpdate struct {
	Status      *IssueStatus
	Urgency     *IssueUrgency
	Title       *string
	Location    *string
	Description *string
}

// IssueFilter narrows ListIssues. Zero values match everything.
type IssueFilter struct {
	Status   IssueStatus
	Urgency  IssueUrgency
	Category IssueCategory
	// Oldest sorts by reportedAt ascending instead of newest first.
	Oldest bool
}

// Match reports whether issue passes the filter.
func (f IssueFilter) Match(issue Issue) bool {
	if f.Status != "" && issue.Status != f.Status {
		return false
	}
	if f.Urgency != "" && issue.Urgency != f.Urgency {
		return false
	}
	if f.Category != "" && issue.Category != f.Category {
		return false
	}
	return true
}

// ParseCategory validates a category string.
func ParseCategory(s string) (IssueCategory, error) {
	switch c := IssueCategory(s); c {
	case Water, Electricity, Roads, Waste, Other:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// ParseUrgency validates an urgency string.
func ParseUrgency(s string) (IssueUrgency, error) {
	switch u := IssueUrgency(s); u {
	case Low, Medium, High, Emergency:
		return u, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidUrgency, s)
}

// ParseStatus validates a status string. Unknown statuses are rejected.
func ParseStatus(s string) (IssueStatus, error) {
	switch st := IssueStatus(s); st {
	case Reported, InProgress, Resolved:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Progress returns the canonical completion percentage for a status.
func (s IssueStatus) Progress() (int, error) {
	switch s {
	case Reported:
		return 0, nil
	case InProgress:
		return 50, nil
	case Resolved:
		return 100, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
}

// IsUrgent reports whether the urgency needs prompt triage.
func (u IssueUrgency) IsUrgent() bool {
	return u == High || u == Emergency
}
