// Package views turns store snapshots into the shapes the portal screens render:
// issue cards, the admin dashboard, the admin sidebar and the citizen home page.
package views

import "setshaba-be/models"

const fallbackBadge = "bg-gray-100 text-gray-800 border-gray-200"

// StatusColor is the admin table badge for a status.
func StatusColor(s models.IssueStatus) string {
	switch s {
	case models.Reported:
		return "bg-blue-100 text-blue-800 border-blue-200"
	case models.InProgress:
		return "bg-yellow-100 text-yellow-800 border-yellow-200"
	case models.Resolved:
		return "bg-green-100 text-green-800 border-green-200"
	}
	return fallbackBadge
}

// StatusBadgeClass is the citizen card badge for a status.
func StatusBadgeClass(s models.IssueStatus) string {
	switch s {
	case models.Reported:
		return "status-badge-reported"
	case models.InProgress:
		return "status-badge-progress"
	case models.Resolved:
		return "status-badge-resolved"
	}
	return fallbackBadge
}

func UrgencyColor(u models.IssueUrgency) string {
	switch u {
	case models.Low:
		return "bg-green-100 text-green-800 border-green-200"
	case models.Medium:
		return "bg-yellow-100 text-yellow-800 border-yellow-200"
	case models.High:
		return "bg-orange-100 text-orange-800 border-orange-200"
	case models.Emergency:
		return "bg-red-100 text-red-800 border-red-200"
	}
	return fallbackBadge
}

func CategoryIcon(c models.IssueCategory) string {
	switch c {
	case models.Water:
		return "💧"
	case models.Electricity:
		return "⚡"
	case models.Roads:
		return "🚧"
	case models.Waste:
		return "🗑️"
	case models.Other:
		return "❓"
	}
	return "❓"
}

// Option is a select-box entry.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var urgencyDots = map[models.IssueUrgency]string{
	models.Low:       "🟢",
	models.Medium:    "🟡",
	models.High:      "🟠",
	models.Emergency: "🔴",
}

// FormOptions lists the choices for the new-issue and status dialogs.
type FormOptions struct {
	Categories []Option `json:"categories"`
	Urgencies  []Option `json:"urgencies"`
	Statuses   []Option `json:"statuses"`
}

func IssueFormOptions() FormOptions {
	var opts FormOptions
	for _, c := range models.Categories {
		opts.Categories = append(opts.Categories, Option{Value: string(c), Label: CategoryIcon(c) + " " + string(c)})
	}
	for _, u := range models.Urgencies {
		opts.Urgencies = append(opts.Urgencies, Option{Value: string(u), Label: urgencyDots[u] + " " + string(u)})
	}
	for _, s := range models.Statuses {
		opts.Statuses = append(opts.Statuses, Option{Value: string(s), Label: string(s)})
	}
	return opts
}
