package views

import (
	"time"

	"setshaba-be/models"
)

const recentLimit = 5

// DashboardStats are the headline counters on the admin dashboard.
type DashboardStats struct {
	TotalIssues     int `json:"totalIssues"`
	ActiveIssues    int `json:"activeIssues"`
	ResolvedIssues  int `json:"resolvedIssues"`
	EmergencyIssues int `json:"emergencyIssues"`
	PendingFeedback int `json:"pendingFeedback"`
	UpcomingEvents  int `json:"upcomingEvents"`
}

type CategoryCount struct {
	Name  models.IssueCategory `json:"name"`
	Icon  string               `json:"icon"`
	Value int                  `json:"value"`
}

type RecentIssue struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Location     string `json:"location"`
	Urgency      string `json:"urgency"`
	UrgencyColor string `json:"urgencyColor"`
	Status       string `json:"status"`
}

type Dashboard struct {
	Stats            DashboardStats    `json:"stats"`
	IssuesByCategory []CategoryCount   `json:"issuesByCategory"`
	EmergencyIssues  []IssueCard       `json:"emergencyIssues"`
	RecentIssues     []RecentIssue     `json:"recentIssues"`
	RecentFeedback   []models.Feedback `json:"recentFeedback"`
}

// NewDashboard summarises a snapshot. issues should be newest first.
func NewDashboard(issues []models.Issue, feedback []models.Feedback, events []models.Event, now time.Time) Dashboard {
	d := Dashboard{
		EmergencyIssues: []IssueCard{},
		RecentIssues:    []RecentIssue{},
		RecentFeedback:  []models.Feedback{},
	}

	byCategory := make(map[models.IssueCategory]int, len(models.Categories))
	for _, issue := range issues {
		d.Stats.TotalIssues++
		byCategory[issue.Category]++

		if issue.Status == models.Resolved {
			d.Stats.ResolvedIssues++
		} else {
			d.Stats.ActiveIssues++
		}
		if issue.Urgency == models.Emergency {
			d.Stats.EmergencyIssues++
			if issue.Status != models.Resolved {
				d.EmergencyIssues = append(d.EmergencyIssues, NewIssueCard(issue, true, now.Location()))
			}
		}
		if len(d.RecentIssues) < recentLimit {
			d.RecentIssues = append(d.RecentIssues, RecentIssue{
				ID:           issue.ID,
				Title:        issue.Title,
				Location:     issue.Location,
				Urgency:      string(issue.Urgency),
				UrgencyColor: UrgencyColor(issue.Urgency),
				Status:       string(issue.Status),
			})
		}
	}

	for _, c := range models.Categories {
		d.IssuesByCategory = append(d.IssuesByCategory, CategoryCount{Name: c, Icon: CategoryIcon(c), Value: byCategory[c]})
	}

	for i, fb := range feedback {
		if fb.Status == models.InReview {
			d.Stats.PendingFeedback++
		}
		if i < recentLimit {
			d.RecentFeedback = append(d.RecentFeedback, fb)
		}
	}

	for _, e := range events {
		if e.Upcoming(now) {
			d.Stats.UpcomingEvents++
		}
	}
	return d
}
