// Package store defines the state container that owns issues, feedback,
// announcements, events and users, together with the issue lifecycle rules
// every backend shares.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"setshaba-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrIssueNotFound    = errors.New("issue not found")
	ErrIssueConflict    = errors.New("issue was modified concurrently")
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrMissingFields    = errors.New("missing required fields")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
)

type IssueStore interface {
	AddIssue(ctx context.Context, n models.NewIssue) (models.Issue, error)
	UpdateIssue(ctx context.Context, id string, u models.IssueUpdate) (models.Issue, error)
	GetIssue(ctx context.Context, id string) (models.Issue, error)
	ListIssues(ctx context.Context, f models.IssueFilter) ([]models.Issue, error)
}

type FeedbackStore interface {
	AddFeedback(ctx context.Context, name, message string) (models.Feedback, error)
	ListFeedback(ctx context.Context) ([]models.Feedback, error)
	UpdateFeedbackStatus(ctx context.Context, id string, status models.FeedbackStatus) (models.Feedback, error)
}

type AnnouncementStore interface {
	AddAnnouncement(ctx context.Context, a models.Announcement) (models.Announcement, error)
	ListAnnouncements(ctx context.Context) ([]models.Announcement, error)
}

type EventStore interface {
	AddEvent(ctx context.Context, e models.Event) (models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
}

// Store is the whole portal state. Handlers receive it by injection.
type Store interface {
	IssueStore
	FeedbackStore
	AnnouncementStore
	EventStore
	UserStore
	Close(ctx context.Context) error
}

// Clock supplies the current time. Backends take one so tests can pin it.
type Clock func() time.Time

// NewID returns a fresh identifier in the same format Mongo uses for _id.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// BuildIssue validates n and returns the issue as first recorded: status
// Reported, progress 0 and one timeline entry.
func BuildIssue(n models.NewIssue, id string, now time.Time) (models.Issue, error) {
	if !n.Complete() {
		return models.Issue{}, ErrMissingFields
	}
	category, err := models.ParseCategory(n.Category)
	if err != nil {
		return models.Issue{}, err
	}
	urgency, err := models.ParseUrgency(n.Urgency)
	if err != nil {
		return models.Issue{}, err
	}

	reporter := strings.TrimSpace(n.ReportedBy)
	event := "Reported by " + reporter
	if n.ByAdmin {
		event = "Created by admin"
		if reporter == "" {
			reporter = "Admin"
		}
	}
	if reporter == "" {
		reporter = "Anonymous"
		event = "Reported by citizen"
	}

	return models.Issue{
		ID:          id,
		Title:       strings.TrimSpace(n.Title),
		Category:    category,
		Urgency:     urgency,
		Location:    strings.TrimSpace(n.Location),
		Description: strings.TrimSpace(n.Description),
		Status:      models.Reported,
		Progress:    0,
		Timeline:    []models.TimelineEntry{{Time: now, Event: event}},
		IsUrgent:    urgency.IsUrgent(),
		ReportedBy:  reporter,
		ReportedAt:  now,
		UpdatedAt:   now,
	}, nil
}

// ApplyUpdate merges u into issue. Status and progress always change together,
// and a status change appends to the timeline. On error issue is unchanged.
func ApplyUpdate(issue *models.Issue, u models.IssueUpdate, now time.Time) error {
	next := issue.Clone()

	if u.Status != nil {
		progress, err := u.Status.Progress()
		if err != nil {
			return err
		}
		if *u.Status != next.Status {
			next.Timeline = append(next.Timeline, models.TimelineEntry{
				Time:  now,
				Event: fmt.Sprintf("Status changed to %s", *u.Status),
			})
		}
		next.Status = *u.Status
		next.Progress = progress
	}
	if u.Urgency != nil {
		if _, err := models.ParseUrgency(string(*u.Urgency)); err != nil {
			return err
		}
		next.Urgency = *u.Urgency
		next.IsUrgent = u.Urgency.IsUrgent()
	}
	if u.Title != nil {
		if strings.TrimSpace(*u.Title) == "" {
			return ErrMissingFields
		}
		next.Title = strings.TrimSpace(*u.Title)
	}
	if u.Location != nil {
		if strings.TrimSpace(*u.Location) == "" {
			return ErrMissingFields
		}
		next.Location = strings.TrimSpace(*u.Location)
	}
	if u.Description != nil {
		if strings.TrimSpace(*u.Description) == "" {
			return ErrMissingFields
		}
		next.Description = strings.TrimSpace(*u.Description)
	}

	next.UpdatedAt = now
	*issue = next
	return nil
}
