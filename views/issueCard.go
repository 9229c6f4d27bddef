package views

import (
	"time"

	"setshaba-be/models"
)

// IssueCard is everything the issue card component draws.
type IssueCard struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Location       string `json:"location"`
	Category       string `json:"category"`
	CategoryIcon   string `json:"categoryIcon"`
	Urgency        string `json:"urgency"`
	UrgencyBadge   string `json:"urgencyBadge"`
	Status         string `json:"status"`
	StatusBadge    string `json:"statusBadge"`
	Progress       *int   `json:"progress,omitempty"`
	ReportedTime   string `json:"reportedTime"`
	ReportedDate   string `json:"reportedDate"`
	ReportedBy     string `json:"reportedBy"`
	IsUrgent       bool   `json:"isUrgent"`
	LatestTimeline string `json:"latestTimeline,omitempty"`
}

// NewIssueCard renders issue in loc. Progress is omitted when showProgress is false.
func NewIssueCard(issue models.Issue, showProgress bool, loc *time.Location) IssueCard {
	if loc == nil {
		loc = time.UTC
	}
	at := issue.ReportedAt.In(loc)
	card := IssueCard{
		ID:           issue.ID,
		Title:        issue.Title,
		Location:     issue.Location,
		Category:     string(issue.Category),
		CategoryIcon: CategoryIcon(issue.Category),
		Urgency:      string(issue.Urgency),
		UrgencyBadge: UrgencyColor(issue.Urgency),
		Status:       string(issue.Status),
		StatusBadge:  StatusBadgeClass(issue.Status),
		ReportedTime: at.Format("15:04"),
		ReportedDate: at.Format("2006-01-02"),
		ReportedBy:   issue.ReportedBy,
		IsUrgent:     issue.IsUrgent,
	}
	if showProgress {
		p := issue.Progress
		card.Progress = &p
	}
	if n := len(issue.Timeline); n > 0 {
		card.LatestTimeline = issue.Timeline[n-1].Event
	}
	return card
}

// IssueRow is one line of the admin issue table.
type IssueRow struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Location     string `json:"location"`
	ReportedBy   string `json:"reportedBy"`
	Date         string `json:"date"`
	Category     string `json:"category"`
	CategoryIcon string `json:"categoryIcon"`
	Urgency      string `json:"urgency"`
	UrgencyColor string `json:"urgencyColor"`
	Status       string `json:"status"`
	StatusColor  string `json:"statusColor"`
	Progress     int    `json:"progress"`
}

// IssueTable is the admin Manage Issues screen.
type IssueTable struct {
	Rows    []IssueRow  `json:"rows"`
	Options FormOptions `json:"options"`
}

func NewIssueTable(issues []models.Issue, loc *time.Location) IssueTable {
	if loc == nil {
		loc = time.UTC
	}
	rows := make([]IssueRow, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, IssueRow{
			ID:           issue.ID,
			Title:        issue.Title,
			Location:     issue.Location,
			ReportedBy:   issue.ReportedBy,
			Date:         issue.ReportedAt.In(loc).Format("2006-01-02"),
			Category:     string(issue.Category),
			CategoryIcon: CategoryIcon(issue.Category),
			Urgency:      string(issue.Urgency),
			UrgencyColor: UrgencyColor(issue.Urgency),
			Status:       string(issue.Status),
			StatusColor:  StatusColor(issue.Status),
			Progress:     issue.Progress,
		})
	}
	return IssueTable{Rows: rows, Options: IssueFormOptions()}
}
